package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// User represents a student profile stored in PostgreSQL
type User struct {
	gorm.Model  `json:"-"`
	ID          uint     `json:"id" gorm:"primaryKey"`
	Name        string   `json:"name"`
	Email       string   `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	Course      string   `json:"course"`
	Skills      []string `json:"skills" gorm:"serializer:json"`
	Interests   []string `json:"interests" gorm:"serializer:json"`
	AvatarURL   string   `json:"avatar_url,omitempty"`
	Password    string   `json:"-"`                                         // Store hashed password, ignore for JSON serialization
	FirebaseUID string   `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // Link to Firebase User UID
}

// UserCompact is the author shape embedded in aggregated views
type UserCompact struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Course    string `json:"course,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ToCompact returns the compact author representation of a user
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:        u.ID,
		Name:      u.Name,
		Course:    u.Course,
		AvatarURL: u.AvatarURL,
	}
}

// UnknownUser is the placeholder author used when a referenced profile
// cannot be resolved during aggregation.
var UnknownUser = UserCompact{Name: "Unknown User"}

type CreateUserRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Course      string `json:"course" validate:"omitempty,max=100"`
	FirebaseUID string `json:"firebase_uid" validate:"required"` // Firebase UID will be provided by the client after Firebase Auth
}

type CreateLocalUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Course   string `json:"course" validate:"omitempty,max=100"`
	Password string `json:"password" validate:"required,min=8"`
}

type UpdateUserRequest struct {
	Name      string   `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Course    string   `json:"course,omitempty" validate:"omitempty,max=100"`
	Skills    []string `json:"skills,omitempty" validate:"omitempty,dive,min=1,max=50"`
	Interests []string `json:"interests,omitempty" validate:"omitempty,dive,min=1,max=50"`
	AvatarURL string   `json:"avatar_url,omitempty" validate:"omitempty,url"`
}

// ProfileFilter holds optional predicates for the profile directory.
// Empty fields are not applied; set fields combine with logical AND and
// match tags case-sensitively.
type ProfileFilter struct {
	Skill    string `json:"skill" query:"skill"`
	Interest string `json:"interest" query:"interest"`
	Course   string `json:"course" query:"course"`
}

// FilterOptions are the distinct values observed across all profiles,
// used by clients to populate filter pickers.
type FilterOptions struct {
	Skills    []string `json:"skills"`
	Interests []string `json:"interests"`
	Courses   []string `json:"courses"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID      uint   `json:"user_id"`
	Email       string `json:"email"`
	FirebaseUID string `json:"firebase_uid,omitempty"`
	jwt.RegisteredClaims
}
