package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockCartRepository is an in-memory implementation of CartRepository.
// Every mutation runs under one lock, matching the per-document atomicity
// of the Mongo implementation.
type MockCartRepository struct {
	carts map[primitive.ObjectID]models.Cart // keyed by user ID
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		carts: make(map[primitive.ObjectID]models.Cart),
	}
}

func copyCart(c models.Cart) models.Cart {
	items := make([]models.CartItem, len(c.Items))
	copy(items, c.Items)
	c.Items = items
	return c
}

// GetByUserID returns the user's cart.
func (r *MockCartRepository) GetByUserID(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[userID]
	if !ok {
		return nil, fmt.Errorf("cart for user %s: %w", userID.Hex(), ErrNotFound)
	}
	cart = copyCart(cart)
	return &cart, nil
}

// AddItem increments, appends or creates.
func (r *MockCartRepository) AddItem(_ context.Context, userID, productID primitive.ObjectID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	cart, ok := r.carts[userID]
	if !ok {
		cart = models.Cart{ID: primitive.NewObjectID(), UserID: userID, CreatedAt: now}
	}
	found := false
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: quantity})
	}
	cart.UpdatedAt = now
	r.carts[userID] = cart
	return nil
}

// SetItemQuantity overwrites the quantity of an existing item.
func (r *MockCartRepository) SetItemQuantity(_ context.Context, userID, productID primitive.ObjectID, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[userID]
	if !ok {
		return fmt.Errorf("cart for user %s: %w", userID.Hex(), ErrNotFound)
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = quantity
			cart.UpdatedAt = time.Now().UTC()
			r.carts[userID] = cart
			return nil
		}
	}
	return fmt.Errorf("product %s in cart of user %s: %w", productID.Hex(), userID.Hex(), ErrNotFound)
}

// RemoveItem pulls the product from the cart.
func (r *MockCartRepository) RemoveItem(_ context.Context, userID, productID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[userID]; !ok {
		return fmt.Errorf("cart for user %s: %w", userID.Hex(), ErrNotFound)
	}
	r.pull(userID, []primitive.ObjectID{productID})
	return nil
}

// RemoveItems pulls every listed product; a missing cart is not an error.
func (r *MockCartRepository) RemoveItems(_ context.Context, userID primitive.ObjectID, productIDs []primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[userID]; ok {
		r.pull(userID, productIDs)
	}
	return nil
}

// pull must be called with the write lock held.
func (r *MockCartRepository) pull(userID primitive.ObjectID, productIDs []primitive.ObjectID) {
	drop := make(map[primitive.ObjectID]bool, len(productIDs))
	for _, id := range productIDs {
		drop[id] = true
	}
	cart := r.carts[userID]
	kept := make([]models.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		if !drop[item.ProductID] {
			kept = append(kept, item)
		}
	}
	cart.Items = kept
	cart.UpdatedAt = time.Now().UTC()
	r.carts[userID] = cart
}

// Clear empties the cart, keeping the document.
func (r *MockCartRepository) Clear(_ context.Context, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[userID]
	if !ok {
		return nil
	}
	cart.Items = []models.CartItem{}
	cart.UpdatedAt = time.Now().UTC()
	r.carts[userID] = cart
	return nil
}
