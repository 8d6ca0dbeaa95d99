package workout

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jcastillo/fittrack/internal/api"
	"github.com/jcastillo/fittrack/internal/middleware"
	"github.com/jcastillo/fittrack/internal/models"
	"github.com/jcastillo/fittrack/internal/store"
)

// ListExercises returns the joined exercises for a workout, optionally
// narrowed to one day when the route carries a dayNumber.
func (h *Handler) ListExercises(w http.ResponseWriter, r *http.Request) {
	workoutID := chi.URLParam(r, "workoutId")
	if _, ok := h.ownedWorkout(w, r, workoutID); !ok {
		return
	}

	var day *int
	if raw := chi.URLParam(r, "dayNumber"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			api.Error(w, http.StatusBadRequest, "Invalid day number")
			return
		}
		day = &n
	}

	details, err := h.workoutExercises.ListByWorkout(r.Context(), workoutID, day)
	if err != nil {
		api.ServerError(w, err, h.dev)
		return
	}
	if details == nil {
		details = []models.WorkoutExerciseDetail{}
	}
	api.WriteJSON(w, http.StatusOK, details)
}

// CreateExercise places a catalog exercise inside an owned workout.
func (h *Handler) CreateExercise(w http.ResponseWriter, r *http.Request) {
	var req models.CreateWorkoutExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.WorkoutID == "" || req.DayNumber == 0 || req.ExerciseID == "" {
		api.Error(w, http.StatusBadRequest, "Workout ID, day number, and exercise ID are required")
		return
	}
	if req.DayNumber < 1 {
		api.Error(w, http.StatusBadRequest, "Day number must be a positive integer")
		return
	}
	if len(req.WorkoutName) > models.MaxPlanNameLen {
		api.Error(w, http.StatusBadRequest, planNameTooLong)
		return
	}

	workout, ok := h.ownedWorkout(w, r, req.WorkoutID)
	if !ok {
		return
	}
	exercise, err := h.exercises.GetByID(r.Context(), req.ExerciseID)
	if errors.Is(err, store.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "Exercise not found")
		return
	}
	if err != nil {
		api.ServerError(w, err, h.dev)
		return
	}

	we := &models.WorkoutExercise{
		WorkoutID:   workout.ID,
		DayNumber:   req.DayNumber,
		WorkoutName: req.WorkoutName,
		ExerciseID:  exercise.ID,
		Sets:        defaultIfZero(req.Sets, models.DefaultSets),
		Reps:        defaultIfZero(req.Reps, models.DefaultReps),
		RestSeconds: defaultIfZero(req.RestSeconds, models.DefaultRestSeconds),
	}
	created, err := h.workoutExercises.Insert(r.Context(), we)
	if err != nil {
		api.ServerError(w, err, h.dev)
		return
	}

	detail, err := h.workoutExercises.GetDetail(r.Context(), created.ID.Hex())
	if err != nil {
		api.ServerError(w, err, h.dev)
		return
	}
	api.WriteJSON(w, http.StatusCreated, detail)
}

// UpdateExercise applies a partial update to a join document, authorized
// through the parent workout.
func (h *Handler) UpdateExercise(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.ownedExercise(w, r, id); !ok {
		return
	}

	var req models.UpdateWorkoutExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	fields := map[string]interface{}{}
	if req.DayNumber != nil {
		if *req.DayNumber < 1 {
			api.Error(w, http.StatusBadRequest, "Day number must be a positive integer")
			return
		}
		fields["dayNumber"] = *req.DayNumber
	}
	if req.WorkoutName != nil {
		if len(*req.WorkoutName) > models.MaxPlanNameLen {
			api.Error(w, http.StatusBadRequest, planNameTooLong)
			return
		}
		fields["workoutName"] = *req.WorkoutName
	}
	if req.Sets != nil {
		fields["sets"] = *req.Sets
	}
	if req.Reps != nil {
		fields["reps"] = *req.Reps
	}
	if req.RestSeconds != nil {
		fields["restSeconds"] = *req.RestSeconds
	}

	detail, err := h.workoutExercises.Update(r.Context(), id, fields)
	if errors.Is(err, store.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "Workout exercise not found")
		return
	}
	if err != nil {
		api.ServerError(w, err, h.dev)
		return
	}
	api.WriteJSON(w, http.StatusOK, detail)
}

// DeleteExercise removes one join document, authorized through the parent.
func (h *Handler) DeleteExercise(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.ownedExercise(w, r, id); !ok {
		return
	}

	if err := h.workoutExercises.Delete(r.Context(), id); err != nil && !errors.Is(err, store.ErrNotFound) {
		api.ServerError(w, err, h.dev)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "Workout exercise removed"})
}

// DeleteExercisesByWorkout bulk-removes every exercise in an owned workout.
func (h *Handler) DeleteExercisesByWorkout(w http.ResponseWriter, r *http.Request) {
	workoutID := chi.URLParam(r, "workoutId")
	if _, ok := h.ownedWorkout(w, r, workoutID); !ok {
		return
	}

	if err := h.workoutExercises.DeleteByWorkout(r.Context(), workoutID); err != nil {
		api.ServerError(w, err, h.dev)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "All workout exercises removed"})
}

// ownedExercise loads a join document and authorizes the requester through
// its parent workout, writing the 404 or 403 itself. Ownership is always
// derived from the parent on each call, never from a field on the child.
func (h *Handler) ownedExercise(w http.ResponseWriter, r *http.Request, id string) (*models.WorkoutExercise, bool) {
	we, err := h.workoutExercises.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "Workout exercise not found")
		return nil, false
	}
	if err != nil {
		api.ServerError(w, err, h.dev)
		return nil, false
	}

	parent, err := h.workouts.GetByID(r.Context(), we.WorkoutID.Hex())
	if errors.Is(err, store.ErrNotFound) {
		api.Error(w, http.StatusNotFound, "Associated workout not found")
		return nil, false
	}
	if err != nil {
		api.ServerError(w, err, h.dev)
		return nil, false
	}
	if parent.UserID != middleware.UserFrom(r.Context()).ID {
		api.Error(w, http.StatusForbidden, "User not authorized")
		return nil, false
	}
	return we, true
}

func defaultIfZero(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
