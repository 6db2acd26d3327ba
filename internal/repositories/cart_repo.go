package repositories

import (
	"context"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartRepository defines the interface for cart data access. There is at most
// one cart per user and at most one item per product within it.
type CartRepository interface {
	GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	// AddItem increments the quantity of an existing item, appends a new one,
	// or creates the cart, as a single atomic step per document.
	AddItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error
	// SetItemQuantity returns ErrNotFound when the cart or the item is missing.
	SetItemQuantity(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error
	// RemoveItem returns ErrNotFound when the user has no cart. Removing a
	// product that is not in the cart is a no-op.
	RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) error
	RemoveItems(ctx context.Context, userID primitive.ObjectID, productIDs []primitive.ObjectID) error
	Clear(ctx context.Context, userID primitive.ObjectID) error
}
