package exercise

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jcastillo/fittrack/internal/api"
	"github.com/jcastillo/fittrack/internal/models"
	"github.com/jcastillo/fittrack/internal/store"
)

// Media kinds accepted by the upload and streaming endpoints.
const (
	MediaImage = "image"
	MediaVideo = "video"
)

const maxUploadBytes = 32 << 20 // 32 MiB

// ExerciseStore defines the interface for catalog persistence.
type ExerciseStore interface {
	Insert(ctx context.Context, ex *models.Exercise) (*models.Exercise, error)
	List(ctx context.Context) ([]models.Exercise, error)
	GetByID(ctx context.Context, id string) (*models.Exercise, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Exercise, error)
	Delete(ctx context.Context, id string) error
}

// MediaStore defines the interface for hosted exercise media.
type MediaStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
	Remove(ctx context.Context, key string) error
}

// Handler holds exercise catalog HTTP handlers. Reads are public; mutations
// are mounted behind the admin gate.
type Handler struct {
	exercises ExerciseStore
	media     MediaStore
	dev       bool
}

func NewHandler(exercises ExerciseStore, media MediaStore, dev bool) *Handler {
	return &Handler{exercises: exercises, media: media, dev: dev}
}

// List returns the whole catalog.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	exercises, err := h.exercises.List(r.Context())
	if err != nil {
		api.ServerError(w, err, h.dev)
		return
	}
	if exercises == nil {
		exercises = []models.Exercise{}
	}
	api.WriteJSON(w, http.StatusOK, exercises)
}

// Get returns a single catalog entry.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ex, err := h.exercises.GetByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "Exercise not found")
		return
	}
	if err != nil {
		api.ServerError(w, err, h.dev)
		return
	}
	api.WriteJSON(w, http.StatusOK, ex)
}

// Create adds a catalog entry.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		api.Error(w, http.StatusBadRequest, "Exercise name is required")
		return
	}

	ex := &models.Exercise{
		Name:         req.Name,
		Category:     req.Category,
		Equipment:    req.Equipment,
		Instructions: req.Instructions,
		VideoURL:     req.VideoURL,
		ImageURL:     req.ImageURL,
	}
	created, err := h.exercises.Insert(r.Context(), ex)
	if err != nil {
		api.ServerError(w, err, h.dev)
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

// Update applies a partial update. Omitted fields keep their stored value;
// fields explicitly set to empty overwrite.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		if *req.Name == "" {
			api.Error(w, http.StatusBadRequest, "Exercise name is required")
			return
		}
		fields["name"] = *req.Name
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Equipment != nil {
		fields["equipment"] = *req.Equipment
	}
	if req.Instructions != nil {
		fields["instructions"] = *req.Instructions
	}
	if req.VideoURL != nil {
		fields["video_url"] = *req.VideoURL
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}

	ex, err := h.exercises.Update(r.Context(), chi.URLParam(r, "id"), fields)
	if errors.Is(err, store.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "Exercise not found")
		return
	}
	if err != nil {
		api.ServerError(w, err, h.dev)
		return
	}
	api.WriteJSON(w, http.StatusOK, ex)
}

// Delete removes a catalog entry and any media objects it hosted.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ex, err := h.exercises.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "Exercise not found")
		return
	}
	if err != nil {
		api.ServerError(w, err, h.dev)
		return
	}

	for _, key := range []string{ex.ImageObjectKey, ex.VideoObjectKey} {
		if key == "" {
			continue
		}
		if err := h.media.Remove(r.Context(), key); err != nil {
			log.Printf("remove media %s: %v", key, err)
		}
	}

	if err := h.exercises.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			api.Error(w, http.StatusNotFound, "Exercise not found")
			return
		}
		api.ServerError(w, err, h.dev)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "Exercise removed"})
}

// UploadMedia accepts a multipart file and hosts it as the exercise's image
// or video. A previously hosted object of the same kind is replaced.
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ex, err := h.exercises.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "Exercise not found")
		return
	}
	if err != nil {
		api.ServerError(w, err, h.dev)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	kind := r.FormValue("kind")
	if kind != MediaImage && kind != MediaVideo {
		api.Error(w, http.StatusBadRequest, "Media kind must be image or video")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "Media file is required")
		return
	}
	defer file.Close()

	key := fmt.Sprintf("exercises/%s/%s%s", id, uuid.New().String(), filepath.Ext(header.Filename))
	contentType := header.Header.Get("Content-Type")
	if err := h.media.Upload(r.Context(), key, file, header.Size, contentType); err != nil {
		api.ServerError(w, err, h.dev)
		return
	}

	mediaURL := fmt.Sprintf("/api/exercises/%s/media/%s", id, kind)
	fields := map[string]interface{}{}
	oldKey := ""
	switch kind {
	case MediaImage:
		oldKey = ex.ImageObjectKey
		fields["image_url"] = mediaURL
		fields["image_object_key"] = key
	case MediaVideo:
		oldKey = ex.VideoObjectKey
		fields["video_url"] = mediaURL
		fields["video_object_key"] = key
	}
	if oldKey != "" {
		if err := h.media.Remove(r.Context(), oldKey); err != nil {
			log.Printf("remove media %s: %v", oldKey, err)
		}
	}

	updated, err := h.exercises.Update(r.Context(), id, fields)
	if err != nil {
		api.ServerError(w, err, h.dev)
		return
	}
	api.WriteJSON(w, http.StatusOK, updated)
}

// StreamMedia serves a hosted media object. Public, like catalog reads.
func (h *Handler) StreamMedia(w http.ResponseWriter, r *http.Request) {
	ex, err := h.exercises.GetByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "Exercise not found")
		return
	}
	if err != nil {
		api.ServerError(w, err, h.dev)
		return
	}

	var key string
	switch chi.URLParam(r, "kind") {
	case MediaImage:
		key = ex.ImageObjectKey
	case MediaVideo:
		key = ex.VideoObjectKey
	}
	if key == "" {
		api.Error(w, http.StatusNotFound, "Media not found")
		return
	}

	data, contentType, err := h.media.Download(r.Context(), key)
	if err != nil {
		api.ServerError(w, err, h.dev)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
}
