package exercise

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jcastillo/fittrack/internal/middleware"
	"github.com/jcastillo/fittrack/internal/models"
	"github.com/jcastillo/fittrack/internal/store"
)

type fakeExerciseStore struct {
	items map[string]*models.Exercise
}

func newFakeExerciseStore() *fakeExerciseStore {
	return &fakeExerciseStore{items: map[string]*models.Exercise{}}
}

func (f *fakeExerciseStore) Insert(_ context.Context, ex *models.Exercise) (*models.Exercise, error) {
	ex.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	ex.CreatedAt = now
	ex.UpdatedAt = now
	f.items[ex.ID.Hex()] = ex
	return ex, nil
}

func (f *fakeExerciseStore) List(context.Context) ([]models.Exercise, error) {
	out := []models.Exercise{}
	for _, ex := range f.items {
		out = append(out, *ex)
	}
	return out, nil
}

func (f *fakeExerciseStore) GetByID(_ context.Context, id string) (*models.Exercise, error) {
	ex, ok := f.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return ex, nil
}

func (f *fakeExerciseStore) Update(_ context.Context, id string, fields map[string]interface{}) (*models.Exercise, error) {
	ex, ok := f.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	for k, v := range fields {
		s := v.(string)
		switch k {
		case "name":
			ex.Name = s
		case "category":
			ex.Category = &s
		case "equipment":
			ex.Equipment = &s
		case "instructions":
			ex.Instructions = &s
		case "video_url":
			ex.VideoURL = &s
		case "image_url":
			ex.ImageURL = &s
		case "image_object_key":
			ex.ImageObjectKey = s
		case "video_object_key":
			ex.VideoObjectKey = s
		}
	}
	ex.UpdatedAt = time.Now().UTC()
	return ex, nil
}

func (f *fakeExerciseStore) Delete(_ context.Context, id string) error {
	if _, ok := f.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeMediaStore struct {
	objects map[string][]byte
	removed []string
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{objects: map[string][]byte{}}
}

func (f *fakeMediaStore) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeMediaStore) Download(_ context.Context, key string) ([]byte, string, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, "", errors.New("no such object")
	}
	return data, "image/png", nil
}

func (f *fakeMediaStore) Remove(_ context.Context, key string) error {
	f.removed = append(f.removed, key)
	delete(f.objects, key)
	return nil
}

// tokenMap satisfies middleware.TokenVerifier.
type tokenMap map[string]string

func (m tokenMap) Verify(token string) (string, error) {
	id, ok := m[token]
	if !ok {
		return "", errors.New("invalid token")
	}
	return id, nil
}

// userMap satisfies middleware.UserSource.
type userMap map[string]*models.User

func (m userMap) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := m[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

type testEnv struct {
	router    *chi.Mux
	exercises *fakeExerciseStore
	media     *fakeMediaStore
}

// setupEnv wires the handler behind the real auth/admin middleware with two
// known tokens: "admin-token" and "user-token".
func setupEnv() *testEnv {
	exercises := newFakeExerciseStore()
	media := newFakeMediaStore()
	h := NewHandler(exercises, media, false)

	admin := &models.User{ID: primitive.NewObjectID(), Email: "admin@example.com", IsAdmin: true}
	regular := &models.User{ID: primitive.NewObjectID(), Email: "user@example.com"}
	tokens := tokenMap{"admin-token": admin.ID.Hex(), "user-token": regular.ID.Hex()}
	users := userMap{admin.ID.Hex(): admin, regular.ID.Hex(): regular}

	r := chi.NewRouter()
	r.Route("/api/exercises", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Get("/{id}/media/{kind}", h.StreamMedia)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(tokens, users), middleware.RequireAdmin)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
			r.Post("/{id}/media", h.UploadMedia)
		})
	})
	return &testEnv{router: r, exercises: exercises, media: media}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func strptr(s string) *string { return &s }

func TestCatalogReadsArePublic(t *testing.T) {
	env := setupEnv()

	w := env.do(t, "GET", "/api/exercises", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]\n", w.Body.String())

	w = env.do(t, "GET", "/api/exercises/"+primitive.NewObjectID().Hex(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMutationsAreAdminGated(t *testing.T) {
	env := setupEnv()
	req := models.CreateExerciseRequest{Name: "Squat"}

	w := env.do(t, "POST", "/api/exercises", req, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, "POST", "/api/exercises", req, "user-token")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(t, "POST", "/api/exercises", req, "admin-token")
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateRequiresName(t *testing.T) {
	env := setupEnv()
	w := env.do(t, "POST", "/api/exercises", models.CreateExerciseRequest{}, "admin-token")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Exercise name is required")
}

func TestExerciseRoundTrip(t *testing.T) {
	env := setupEnv()
	w := env.do(t, "POST", "/api/exercises", models.CreateExerciseRequest{
		Name:         "Bench Press",
		Category:     strptr("chest"),
		Equipment:    strptr("barbell"),
		Instructions: strptr("Lie on the bench."),
		VideoURL:     strptr("https://example.com/bench.mp4"),
	}, "admin-token")
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Exercise
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = env.do(t, "GET", "/api/exercises/"+created.ID.Hex(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var fetched models.Exercise
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, "Bench Press", fetched.Name)
	assert.Equal(t, "chest", *fetched.Category)
	assert.Equal(t, "barbell", *fetched.Equipment)
	assert.Equal(t, "Lie on the bench.", *fetched.Instructions)
	assert.Equal(t, "https://example.com/bench.mp4", *fetched.VideoURL)
	assert.Nil(t, fetched.ImageURL)
}

func TestUpdatePartialSemantics(t *testing.T) {
	env := setupEnv()
	w := env.do(t, "POST", "/api/exercises", models.CreateExerciseRequest{
		Name:         "Deadlift",
		Category:     strptr("back"),
		Instructions: strptr("Hinge at the hips."),
	}, "admin-token")
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Exercise
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	// Omitted fields stay; an explicit empty value overwrites.
	w = env.do(t, "PUT", "/api/exercises/"+created.ID.Hex(), models.UpdateExerciseRequest{
		Category:     strptr("posterior chain"),
		Instructions: strptr(""),
	}, "admin-token")
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Exercise
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Deadlift", updated.Name)
	assert.Equal(t, "posterior chain", *updated.Category)
	assert.Equal(t, "", *updated.Instructions)
}

// A malformed id and a missing one look identical from outside.
func TestMalformedIDLooksLikeMissing(t *testing.T) {
	env := setupEnv()

	missing := env.do(t, "GET", "/api/exercises/"+primitive.NewObjectID().Hex(), nil, "")
	malformed := env.do(t, "GET", "/api/exercises/not-a-hex-id", nil, "")

	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, missing.Code, malformed.Code)
	assert.Equal(t, missing.Body.String(), malformed.Body.String())
}

func (e *testEnv) uploadMedia(t *testing.T, id, kind, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("kind", kind))
	part, err := mw.CreateFormFile("file", "photo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/exercises/"+id+"/media", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestMediaUploadAndStream(t *testing.T) {
	env := setupEnv()
	w := env.do(t, "POST", "/api/exercises", models.CreateExerciseRequest{Name: "Plank"}, "admin-token")
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Exercise
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created.ID.Hex()

	w = env.uploadMedia(t, id, "image", "admin-token")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.Exercise
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	require.NotNil(t, updated.ImageURL)
	assert.Equal(t, "/api/exercises/"+id+"/media/image", *updated.ImageURL)

	w = env.do(t, "GET", "/api/exercises/"+id+"/media/image", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png-bytes", w.Body.String())
}

func TestDeleteRemovesHostedMedia(t *testing.T) {
	env := setupEnv()
	w := env.do(t, "POST", "/api/exercises", models.CreateExerciseRequest{Name: "Row"}, "admin-token")
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Exercise
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created.ID.Hex()

	require.Equal(t, http.StatusOK, env.uploadMedia(t, id, "image", "admin-token").Code)
	key := env.exercises.items[id].ImageObjectKey
	require.NotEmpty(t, key)

	w = env.do(t, "DELETE", "/api/exercises/"+id, nil, "admin-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, env.media.removed, key)
	assert.Empty(t, env.exercises.items)
}
