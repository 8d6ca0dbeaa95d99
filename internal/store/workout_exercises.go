package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/jcastillo/fittrack/internal/models"
)

// WorkoutExerciseStore handles the join documents placing exercises inside
// workouts. Reads go through an aggregation that replaces the exercise
// reference with the catalog fields, mirroring what clients need to render
// a training day without a second fetch.
type WorkoutExerciseStore struct {
	col *mongo.Collection
}

func NewWorkoutExerciseStore(db *mongo.Database) *WorkoutExerciseStore {
	return &WorkoutExerciseStore{col: db.Collection(workoutExercisesCollection)}
}

func (s *WorkoutExerciseStore) Insert(ctx context.Context, we *models.WorkoutExercise) (*models.WorkoutExercise, error) {
	now := time.Now().UTC()
	we.CreatedAt = now
	we.UpdatedAt = now

	res, err := s.col.InsertOne(ctx, we)
	if err != nil {
		return nil, fmt.Errorf("insert workout exercise: %w", err)
	}
	we.ID = res.InsertedID.(primitive.ObjectID)
	return we, nil
}

func (s *WorkoutExerciseStore) GetByID(ctx context.Context, id string) (*models.WorkoutExercise, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var we models.WorkoutExercise
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&we)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find workout exercise: %w", err)
	}
	return &we, nil
}

// GetDetail returns a single join document with the exercise fields joined in.
func (s *WorkoutExerciseStore) GetDetail(ctx context.Context, id string) (*models.WorkoutExerciseDetail, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	details, err := s.aggregateDetails(ctx, bson.M{"_id": oid})
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, ErrNotFound
	}
	return &details[0], nil
}

// ListByWorkout returns the joined documents for a workout, optionally
// narrowed to a single day.
func (s *WorkoutExerciseStore) ListByWorkout(ctx context.Context, workoutID string, day *int) ([]models.WorkoutExerciseDetail, error) {
	oid, err := parseID(workoutID)
	if err != nil {
		return nil, err
	}
	match := bson.M{"workout": oid}
	if day != nil {
		match["dayNumber"] = *day
	}
	return s.aggregateDetails(ctx, match)
}

// Update applies the given field set, then re-reads the joined representation.
func (s *WorkoutExerciseStore) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.WorkoutExerciseDetail, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("update workout exercise: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return s.GetDetail(ctx, id)
}

func (s *WorkoutExerciseStore) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete workout exercise: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByWorkout removes every join document referencing the workout. Used
// both by the bulk-delete endpoint and by the workout delete cascade.
func (s *WorkoutExerciseStore) DeleteByWorkout(ctx context.Context, workoutID string) error {
	oid, err := parseID(workoutID)
	if err != nil {
		return err
	}
	if _, err := s.col.DeleteMany(ctx, bson.M{"workout": oid}); err != nil {
		return fmt.Errorf("delete workout exercises: %w", err)
	}
	return nil
}

func (s *WorkoutExerciseStore) aggregateDetails(ctx context.Context, match bson.M) ([]models.WorkoutExerciseDetail, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.M{
			"from":         exercisesCollection,
			"localField":   "exercise",
			"foreignField": "_id",
			"as":           "exercise",
		}}},
		{{Key: "$unwind", Value: "$exercise"}},
		{{Key: "$sort", Value: bson.D{{Key: "dayNumber", Value: 1}, {Key: "created_at", Value: 1}}}},
	}

	cur, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate workout exercises: %w", err)
	}
	defer cur.Close(ctx)

	var details []models.WorkoutExerciseDetail
	if err := cur.All(ctx, &details); err != nil {
		return nil, fmt.Errorf("decode workout exercises: %w", err)
	}
	return details, nil
}
