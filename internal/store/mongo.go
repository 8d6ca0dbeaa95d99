package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	usersCollection            = "users"
	exercisesCollection        = "exercises"
	workoutsCollection         = "workouts"
	workoutExercisesCollection = "workoutexercises"
)

// EnsureIndexes creates the indexes the stores rely on. Called once at
// startup; also serves as the first round-trip to the server.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users email index: %w", err)
	}

	_, err = db.Collection(workoutExercisesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "workout", Value: 1}, {Key: "dayNumber", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("workoutexercises workout index: %w", err)
	}

	_, err = db.Collection(workoutsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("workouts user index: %w", err)
	}
	return nil
}

// parseID converts a hex id from a URL or token into an ObjectID. Malformed
// input maps to ErrNotFound: the API never distinguishes a bad id from a
// missing document.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrNotFound
	}
	return oid, nil
}
