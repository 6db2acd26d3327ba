package repositories

import (
	"context"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	GetAll(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	GetChildren(ctx context.Context, parentID primitive.ObjectID) ([]models.Category, error)
	Create(ctx context.Context, category *models.Category) error
}
