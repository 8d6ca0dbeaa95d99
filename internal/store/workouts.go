package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jcastillo/fittrack/internal/models"
)

// WorkoutStore handles workout plan CRUD in MongoDB. Listing is scoped to
// the owning user in the query itself; ownership checks on single documents
// happen in the handlers after a GetByID.
type WorkoutStore struct {
	col *mongo.Collection
}

func NewWorkoutStore(db *mongo.Database) *WorkoutStore {
	return &WorkoutStore{col: db.Collection(workoutsCollection)}
}

func (s *WorkoutStore) Insert(ctx context.Context, w *models.Workout) (*models.Workout, error) {
	now := time.Now().UTC()
	w.CreatedAt = now
	w.UpdatedAt = now

	res, err := s.col.InsertOne(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("insert workout: %w", err)
	}
	w.ID = res.InsertedID.(primitive.ObjectID)
	return w, nil
}

func (s *WorkoutStore) ListByUser(ctx context.Context, userID string) ([]models.Workout, error) {
	oid, err := parseID(userID)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{"user": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer cur.Close(ctx)

	var workouts []models.Workout
	if err := cur.All(ctx, &workouts); err != nil {
		return nil, fmt.Errorf("decode workouts: %w", err)
	}
	return workouts, nil
}

func (s *WorkoutStore) GetByID(ctx context.Context, id string) (*models.Workout, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var w models.Workout
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&w)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find workout: %w", err)
	}
	return &w, nil
}

// Update applies the given field set and returns the updated document.
// The owning user field is never part of the set.
func (s *WorkoutStore) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Workout, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	var w models.Workout
	err = s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&w)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update workout: %w", err)
	}
	return &w, nil
}

func (s *WorkoutStore) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
