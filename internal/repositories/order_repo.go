package repositories

import (
	"context"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error
	// Deletion of orders is not supported.
}

// OrderEventRepository stores the audit trail written by the order events worker.
type OrderEventRepository interface {
	Save(ctx context.Context, event *models.OrderEvent) error
	GetByOrderID(ctx context.Context, orderID string) ([]models.OrderEvent, error)
}
