package repositories

import (
	"context"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	// Update applies the non-nil fields of update. It returns ErrNotFound only
	// when no user matches; an update that changes nothing is not an error.
	Update(ctx context.Context, id primitive.ObjectID, update models.UserUpdate) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
}
