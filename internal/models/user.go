package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Gender values accepted on registration and profile updates. The empty
// string means unspecified.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// ValidGender reports whether g is one of the accepted gender values.
func ValidGender(g string) bool {
	switch g {
	case "", GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// User is an account document in the users collection. The email is stored
// lowercased and backed by a unique index.
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email        string             `json:"email" bson:"email"`
	PasswordHash string             `json:"-" bson:"passwordHash"` // never serialize
	FullName     string             `json:"fullName" bson:"fullName"`
	Gender       string             `json:"gender" bson:"gender"`
	BirthDate    *time.Time         `json:"birthDate" bson:"birthDate"`
	HeightCm     *float64           `json:"heightCm" bson:"heightCm"`
	WeightKg     *float64           `json:"weightKg" bson:"weightKg"`
	IsAdmin      bool               `json:"isAdmin" bson:"isAdmin"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// RegisterRequest is the JSON body for POST /api/auth/register.
type RegisterRequest struct {
	Email     string     `json:"email"`
	Password  string     `json:"password"`
	FullName  string     `json:"fullName"`
	Gender    string     `json:"gender"`
	BirthDate *time.Time `json:"birthDate"`
	HeightCm  *float64   `json:"heightCm"`
	WeightKg  *float64   `json:"weightKg"`
}

// LoginRequest is the JSON body for POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest is the JSON body for PUT /api/protected/profile.
// Nil fields are left unchanged; non-nil fields overwrite, including
// explicit empty values.
type UpdateProfileRequest struct {
	FullName  *string    `json:"fullName"`
	Gender    *string    `json:"gender"`
	BirthDate *time.Time `json:"birthDate"`
	HeightCm  *float64   `json:"heightCm"`
	WeightKg  *float64   `json:"weightKg"`
}

// ChangePasswordRequest is the JSON body for PUT /api/protected/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
