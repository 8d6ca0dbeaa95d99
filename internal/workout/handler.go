package workout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jcastillo/fittrack/internal/api"
	"github.com/jcastillo/fittrack/internal/middleware"
	"github.com/jcastillo/fittrack/internal/models"
	"github.com/jcastillo/fittrack/internal/store"
)

// WorkoutStore defines the interface for workout plan persistence.
type WorkoutStore interface {
	Insert(ctx context.Context, w *models.Workout) (*models.Workout, error)
	ListByUser(ctx context.Context, userID string) ([]models.Workout, error)
	GetByID(ctx context.Context, id string) (*models.Workout, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Workout, error)
	Delete(ctx context.Context, id string) error
}

// WorkoutExerciseStore defines the interface for the join documents.
type WorkoutExerciseStore interface {
	Insert(ctx context.Context, we *models.WorkoutExercise) (*models.WorkoutExercise, error)
	GetByID(ctx context.Context, id string) (*models.WorkoutExercise, error)
	GetDetail(ctx context.Context, id string) (*models.WorkoutExerciseDetail, error)
	ListByWorkout(ctx context.Context, workoutID string, day *int) ([]models.WorkoutExerciseDetail, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.WorkoutExerciseDetail, error)
	Delete(ctx context.Context, id string) error
	DeleteByWorkout(ctx context.Context, workoutID string) error
}

// ExerciseSource checks catalog references when adding exercises to a plan.
type ExerciseSource interface {
	GetByID(ctx context.Context, id string) (*models.Exercise, error)
}

// Handler holds workout and workout-exercise HTTP handlers. Every route is
// mounted behind RequireAuth; ownership is enforced here, after an existence
// check, so a nonexistent id is always 404 and a foreign one always 403.
type Handler struct {
	workouts         WorkoutStore
	workoutExercises WorkoutExerciseStore
	exercises        ExerciseSource
	dev              bool
}

func NewHandler(workouts WorkoutStore, workoutExercises WorkoutExerciseStore, exercises ExerciseSource, dev bool) *Handler {
	return &Handler{
		workouts:         workouts,
		workoutExercises: workoutExercises,
		exercises:        exercises,
		dev:              dev,
	}
}

// List returns the requester's own workouts; the scope lives in the query.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())
	workouts, err := h.workouts.ListByUser(r.Context(), user.ID.Hex())
	if err != nil {
		api.ServerError(w, err, h.dev)
		return
	}
	if workouts == nil {
		workouts = []models.Workout{}
	}
	api.WriteJSON(w, http.StatusOK, workouts)
}

// Get returns a single workout after the ownership gate.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	workout, ok := h.ownedWorkout(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	api.WriteJSON(w, http.StatusOK, workout)
}

// Create stores a new plan owned by the requester.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFrom(r.Context())

	var req models.CreateWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.PlanName == "" {
		api.Error(w, http.StatusBadRequest, "Plan name is required")
		return
	}
	if msg := validatePlanFields(req.PlanName, req.Goal, req.Level); msg != "" {
		api.Error(w, http.StatusBadRequest, msg)
		return
	}
	perWeek := req.WorkoutsPerWeek
	if perWeek == 0 {
		perWeek = models.DefaultWorkoutsPerWeek
	}
	if perWeek < 1 || perWeek > 7 {
		api.Error(w, http.StatusBadRequest, "Workouts per week must be between 1 and 7")
		return
	}

	workout := &models.Workout{
		UserID:          user.ID,
		PlanName:        req.PlanName,
		Goal:            req.Goal,
		Level:           req.Level,
		DurationWeeks:   req.DurationWeeks,
		WorkoutsPerWeek: perWeek,
	}
	created, err := h.workouts.Insert(r.Context(), workout)
	if err != nil {
		api.ServerError(w, err, h.dev)
		return
	}
	api.WriteJSON(w, http.StatusCreated, created)
}

// Update applies a partial update to an owned workout. The owning user is
// never part of the update set.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.ownedWorkout(w, r, id); !ok {
		return
	}

	var req models.UpdateWorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields := map[string]interface{}{}
	if req.PlanName != nil {
		if *req.PlanName == "" {
			api.Error(w, http.StatusBadRequest, "Plan name is required")
			return
		}
		if len(*req.PlanName) > models.MaxPlanNameLen {
			api.Error(w, http.StatusBadRequest, planNameTooLong)
			return
		}
		fields["planName"] = *req.PlanName
	}
	if req.Goal != nil {
		if len(*req.Goal) > models.MaxGoalLen {
			api.Error(w, http.StatusBadRequest, goalTooLong)
			return
		}
		fields["goal"] = *req.Goal
	}
	if req.Level != nil {
		if len(*req.Level) > models.MaxLevelLen {
			api.Error(w, http.StatusBadRequest, levelTooLong)
			return
		}
		fields["level"] = *req.Level
	}
	if req.DurationWeeks != nil {
		fields["durationWeeks"] = *req.DurationWeeks
	}
	if req.WorkoutsPerWeek != nil {
		if *req.WorkoutsPerWeek < 1 || *req.WorkoutsPerWeek > 7 {
			api.Error(w, http.StatusBadRequest, "Workouts per week must be between 1 and 7")
			return
		}
		fields["workoutsPerWeek"] = *req.WorkoutsPerWeek
	}

	updated, err := h.workouts.Update(r.Context(), id, fields)
	if errors.Is(err, store.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "Workout not found")
		return
	}
	if err != nil {
		api.ServerError(w, err, h.dev)
		return
	}
	api.WriteJSON(w, http.StatusOK, updated)
}

// Delete removes an owned workout and cascades to its exercises. Children
// go first so a crash between the writes leaves an empty plan, not orphans.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.ownedWorkout(w, r, id); !ok {
		return
	}

	if err := h.workoutExercises.DeleteByWorkout(r.Context(), id); err != nil {
		api.ServerError(w, err, h.dev)
		return
	}
	if err := h.workouts.Delete(r.Context(), id); err != nil && !errors.Is(err, store.ErrNotFound) {
		api.ServerError(w, err, h.dev)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "Workout removed"})
}

// ownedWorkout fetches a workout and runs the ownership gate, writing the
// 404 or 403 itself. Existence is checked first so a nonexistent id never
// leaks ownership information.
func (h *Handler) ownedWorkout(w http.ResponseWriter, r *http.Request, id string) (*models.Workout, bool) {
	user := middleware.UserFrom(r.Context())
	workout, err := h.workouts.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "Workout not found")
		return nil, false
	}
	if err != nil {
		api.ServerError(w, err, h.dev)
		return nil, false
	}
	if workout.UserID != user.ID {
		api.Error(w, http.StatusForbidden, "User not authorized")
		return nil, false
	}
	return workout, true
}

var (
	planNameTooLong = fmt.Sprintf("Plan name must be at most %d characters", models.MaxPlanNameLen)
	goalTooLong     = fmt.Sprintf("Goal must be at most %d characters", models.MaxGoalLen)
	levelTooLong    = fmt.Sprintf("Level must be at most %d characters", models.MaxLevelLen)
)

func validatePlanFields(planName, goal, level string) string {
	if len(planName) > models.MaxPlanNameLen {
		return planNameTooLong
	}
	if len(goal) > models.MaxGoalLen {
		return goalTooLong
	}
	if len(level) > models.MaxLevelLen {
		return levelTooLong
	}
	return ""
}
