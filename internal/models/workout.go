package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Limits on workout plan fields.
const (
	MaxPlanNameLen         = 100
	MaxGoalLen             = 50
	MaxLevelLen            = 20
	DefaultWorkoutsPerWeek = 3
)

// Defaults applied when a workout exercise omits them.
const (
	DefaultSets        = 3
	DefaultReps        = 10
	DefaultRestSeconds = 60
)

// Workout is a named training plan owned by exactly one user. The owning
// user reference is set at creation and never updated.
type Workout struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID          primitive.ObjectID `json:"user" bson:"user"`
	PlanName        string             `json:"planName" bson:"planName"`
	Goal            string             `json:"goal" bson:"goal"`
	Level           string             `json:"level" bson:"level"`
	DurationWeeks   int                `json:"durationWeeks" bson:"durationWeeks"`
	WorkoutsPerWeek int                `json:"workoutsPerWeek" bson:"workoutsPerWeek"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateWorkoutRequest is the JSON body for POST /api/workouts.
type CreateWorkoutRequest struct {
	PlanName        string `json:"planName"`
	Goal            string `json:"goal"`
	Level           string `json:"level"`
	DurationWeeks   int    `json:"durationWeeks"`
	WorkoutsPerWeek int    `json:"workoutsPerWeek"`
}

// UpdateWorkoutRequest is the JSON body for PUT /api/workouts/{id}.
// Nil fields are left unchanged. The owning user is not updatable.
type UpdateWorkoutRequest struct {
	PlanName        *string `json:"planName"`
	Goal            *string `json:"goal"`
	Level           *string `json:"level"`
	DurationWeeks   *int    `json:"durationWeeks"`
	WorkoutsPerWeek *int    `json:"workoutsPerWeek"`
}

// WorkoutExercise places one catalog exercise inside a workout on a specific
// day. Authorization for it is always derived from the parent workout.
type WorkoutExercise struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	WorkoutID   primitive.ObjectID `json:"workout" bson:"workout"`
	DayNumber   int                `json:"dayNumber" bson:"dayNumber"`
	WorkoutName string             `json:"workoutName,omitempty" bson:"workoutName,omitempty"`
	ExerciseID  primitive.ObjectID `json:"exercise" bson:"exercise"`
	Sets        int                `json:"sets" bson:"sets"`
	Reps        int                `json:"reps" bson:"reps"`
	RestSeconds int                `json:"restSeconds" bson:"restSeconds"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// ExerciseSummary is the slice of catalog fields joined into workout
// exercise reads.
type ExerciseSummary struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	Name         string             `json:"name" bson:"name"`
	Category     *string            `json:"category" bson:"category"`
	Equipment    *string            `json:"equipment" bson:"equipment"`
	Instructions *string            `json:"instructions" bson:"instructions"`
	VideoURL     *string            `json:"video_url" bson:"video_url"`
	ImageURL     *string            `json:"image_url" bson:"image_url"`
}

// WorkoutExerciseDetail is the denormalized read representation of a
// WorkoutExercise: the exercise reference is replaced by the catalog fields.
type WorkoutExerciseDetail struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	WorkoutID   primitive.ObjectID `json:"workout" bson:"workout"`
	DayNumber   int                `json:"dayNumber" bson:"dayNumber"`
	WorkoutName string             `json:"workoutName,omitempty" bson:"workoutName,omitempty"`
	Exercise    ExerciseSummary    `json:"exercise" bson:"exercise"`
	Sets        int                `json:"sets" bson:"sets"`
	Reps        int                `json:"reps" bson:"reps"`
	RestSeconds int                `json:"restSeconds" bson:"restSeconds"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateWorkoutExerciseRequest is the JSON body for POST /api/workout-exercises.
type CreateWorkoutExerciseRequest struct {
	WorkoutID   string `json:"workoutId"`
	DayNumber   int    `json:"dayNumber"`
	WorkoutName string `json:"workoutName"`
	ExerciseID  string `json:"exerciseId"`
	Sets        int    `json:"sets"`
	Reps        int    `json:"reps"`
	RestSeconds int    `json:"restSeconds"`
}

// UpdateWorkoutExerciseRequest is the JSON body for PUT /api/workout-exercises/{id}.
type UpdateWorkoutExerciseRequest struct {
	DayNumber   *int    `json:"dayNumber"`
	WorkoutName *string `json:"workoutName"`
	Sets        *int    `json:"sets"`
	Reps        *int    `json:"reps"`
	RestSeconds *int    `json:"restSeconds"`
}
