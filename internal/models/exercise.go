package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise is a catalog entry in the exercises collection. Only admins may
// create or modify entries; reads are public. The media URLs either point at
// external resources or at this API's own media streaming endpoints, in which
// case the object keys record where the bytes live.
type Exercise struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Category     *string            `json:"category" bson:"category"`
	Equipment    *string            `json:"equipment" bson:"equipment"`
	Instructions *string            `json:"instructions" bson:"instructions"`
	VideoURL     *string            `json:"video_url" bson:"video_url"`
	ImageURL     *string            `json:"image_url" bson:"image_url"`

	ImageObjectKey string `json:"-" bson:"image_object_key,omitempty"`
	VideoObjectKey string `json:"-" bson:"video_object_key,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// CreateExerciseRequest is the JSON body for POST /api/exercises.
type CreateExerciseRequest struct {
	Name         string  `json:"name"`
	Category     *string `json:"category"`
	Equipment    *string `json:"equipment"`
	Instructions *string `json:"instructions"`
	VideoURL     *string `json:"video_url"`
	ImageURL     *string `json:"image_url"`
}

// UpdateExerciseRequest is the JSON body for PUT /api/exercises/{id}.
// Nil fields are left unchanged.
type UpdateExerciseRequest struct {
	Name         *string `json:"name"`
	Category     *string `json:"category"`
	Equipment    *string `json:"equipment"`
	Instructions *string `json:"instructions"`
	VideoURL     *string `json:"video_url"`
	ImageURL     *string `json:"image_url"`
}
