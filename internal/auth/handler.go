package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jcastillo/fittrack/internal/api"
	"github.com/jcastillo/fittrack/internal/middleware"
	"github.com/jcastillo/fittrack/internal/models"
	"github.com/jcastillo/fittrack/internal/store"
)

// MinPasswordLen is the weakest password accepted at registration and on
// password change.
const MinPasswordLen = 6

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserStore defines the interface for user persistence.
type UserStore interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.User, error)
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users  UserStore
	tokens *TokenService
	dev    bool
}

func NewHandler(users UserStore, tokens *TokenService, dev bool) *Handler {
	return &Handler{users: users, tokens: tokens, dev: dev}
}

// Register creates a new user and hands back a bearer token in the
// x-auth-token response header.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		api.Error(w, http.StatusBadRequest, "Email, password, and full name are required")
		return
	}
	if len(req.Password) < MinPasswordLen {
		api.Error(w, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}
	if !emailRegex.MatchString(req.Email) {
		api.Error(w, http.StatusBadRequest, "Invalid email format")
		return
	}
	if !models.ValidGender(req.Gender) {
		api.Error(w, http.StatusBadRequest, "Invalid gender value")
		return
	}

	// The unique index is the real guard; this check just gives the common
	// case a friendlier path.
	if _, err := h.users.GetByEmail(r.Context(), req.Email); err == nil {
		api.Error(w, http.StatusBadRequest, "Email already in use")
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		api.ServerError(w, err, h.dev)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		api.ServerError(w, err, h.dev)
		return
	}

	user := &models.User{
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hashed),
		FullName:     req.FullName,
		Gender:       req.Gender,
		BirthDate:    req.BirthDate,
		HeightCm:     req.HeightCm,
		WeightKg:     req.WeightKg,
	}
	created, err := h.users.Create(r.Context(), user)
	if errors.Is(err, store.ErrDuplicateEmail) {
		api.Error(w, http.StatusBadRequest, "Email already in use")
		return
	}
	if err != nil {
		api.ServerError(w, err, h.dev)
		return
	}

	token, err := h.tokens.Issue(created.ID.Hex())
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "Error creating authentication token")
		return
	}

	w.Header().Set(middleware.TokenHeader, token)
	api.WriteJSON(w, http.StatusCreated, created)
}

// Login verifies credentials and hands back a bearer token. Unknown email
// and wrong password produce byte-identical responses.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		api.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		api.Error(w, http.StatusBadRequest, "Invalid credentials")
		return
	}
	if err != nil {
		api.ServerError(w, err, h.dev)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	token, err := h.tokens.Issue(user.ID.Hex())
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "Error creating authentication token")
		return
	}

	w.Header().Set(middleware.TokenHeader, token)
	api.WriteJSON(w, http.StatusOK, user)
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	api.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":    user,
		"message": "Protected content retrieved successfully",
	})
}

// UpdateProfile applies a partial update to the profile fields. Email, the
// credential, and the admin flag are not reachable from here.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	var req models.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields := map[string]interface{}{}
	if req.FullName != nil {
		if *req.FullName == "" {
			api.Error(w, http.StatusBadRequest, "Full name cannot be empty")
			return
		}
		fields["fullName"] = *req.FullName
	}
	if req.Gender != nil {
		if !models.ValidGender(*req.Gender) {
			api.Error(w, http.StatusBadRequest, "Invalid gender value")
			return
		}
		fields["gender"] = *req.Gender
	}
	if req.BirthDate != nil {
		fields["birthDate"] = *req.BirthDate
	}
	if req.HeightCm != nil {
		fields["heightCm"] = *req.HeightCm
	}
	if req.WeightKg != nil {
		fields["weightKg"] = *req.WeightKg
	}

	updated, err := h.users.Update(r.Context(), user.ID.Hex(), fields)
	if errors.Is(err, store.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		api.ServerError(w, err, h.dev)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":    updated,
		"message": "Profile updated successfully",
	})
}

// ChangePassword is the only path that mutates the stored credential; the
// replacement is hashed before it is persisted.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		api.Error(w, http.StatusBadRequest, "Current and new password are required")
		return
	}
	if len(req.NewPassword) < MinPasswordLen {
		api.Error(w, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		api.Error(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		api.ServerError(w, err, h.dev)
		return
	}
	if _, err := h.users.Update(r.Context(), user.ID.Hex(), map[string]interface{}{
		"passwordHash": string(hashed),
	}); err != nil {
		api.ServerError(w, err, h.dev)
		return
	}

	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}
