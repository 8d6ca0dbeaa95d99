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

// ExerciseStore handles exercise catalog CRUD in MongoDB.
type ExerciseStore struct {
	col *mongo.Collection
}

func NewExerciseStore(db *mongo.Database) *ExerciseStore {
	return &ExerciseStore{col: db.Collection(exercisesCollection)}
}

func (s *ExerciseStore) Insert(ctx context.Context, ex *models.Exercise) (*models.Exercise, error) {
	now := time.Now().UTC()
	ex.CreatedAt = now
	ex.UpdatedAt = now

	res, err := s.col.InsertOne(ctx, ex)
	if err != nil {
		return nil, fmt.Errorf("insert exercise: %w", err)
	}
	ex.ID = res.InsertedID.(primitive.ObjectID)
	return ex, nil
}

func (s *ExerciseStore) List(ctx context.Context) ([]models.Exercise, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer cur.Close(ctx)

	var exercises []models.Exercise
	if err := cur.All(ctx, &exercises); err != nil {
		return nil, fmt.Errorf("decode exercises: %w", err)
	}
	return exercises, nil
}

func (s *ExerciseStore) GetByID(ctx context.Context, id string) (*models.Exercise, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var ex models.Exercise
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&ex)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find exercise: %w", err)
	}
	return &ex, nil
}

// Update applies the given field set and returns the updated document.
func (s *ExerciseStore) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Exercise, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set[k] = v
	}

	var ex models.Exercise
	err = s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ex)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update exercise: %w", err)
	}
	return &ex, nil
}

func (s *ExerciseStore) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
