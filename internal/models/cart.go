package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one line of a cart. A cart holds at most one item per product.
type CartItem struct {
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	Quantity  int                `json:"quantity" bson:"quantity"`
}

// Cart is the single cart document owned by a user.
type Cart struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    primitive.ObjectID `json:"userId" bson:"userId"`
	Items     []CartItem         `json:"items" bson:"items"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CartLine is a cart item with its product looked up at read time.
// Product is an empty object when the product no longer exists.
type CartLine struct {
	ProductID string      `json:"productId"`
	Quantity  int         `json:"quantity"`
	Product   interface{} `json:"product"`
}

// CartView is the populated cart returned to clients.
type CartView struct {
	ID        string     `json:"id,omitempty"`
	UserID    string     `json:"userId,omitempty"`
	Items     []CartLine `json:"items"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
