package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a storefront account.
type User struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name           string             `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email          string             `json:"email" bson:"email" validate:"required,email"`
	PasswordHash   string             `json:"-" bson:"passwordHash"` // never serialized
	Role           string             `json:"role" bson:"role"`
	ProfilePicture string             `json:"profilePicture,omitempty" bson:"profilePicture,omitempty"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// PublicUser is the subset of User fields returned to clients.
type PublicUser struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	ProfilePicture string `json:"profilePicture,omitempty"`
}

// Public strips credentials and timestamps.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:             u.ID.Hex(),
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		ProfilePicture: u.ProfilePicture,
	}
}

// UserUpdate carries the optional profile fields a user may change.
type UserUpdate struct {
	Email          *string
	ProfilePicture *string
}
