package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. Any status may be set from any other; transitions are not enforced.
const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusShipped    = "Shipped"
	OrderStatusDelivered  = "Delivered"
	OrderStatusCancelled  = "Cancelled"
)

const (
	PaymentMethodCOD    = "cod"
	PaymentMethodOnline = "online"
)

var orderStatuses = map[string]bool{
	OrderStatusPending:    true,
	OrderStatusProcessing: true,
	OrderStatusShipped:    true,
	OrderStatusDelivered:  true,
	OrderStatusCancelled:  true,
}

// IsValidOrderStatus reports whether s is one of the five order statuses.
func IsValidOrderStatus(s string) bool {
	return orderStatuses[s]
}

// ShippingDetails is the delivery address captured at checkout.
type ShippingDetails struct {
	Name     string `json:"name" bson:"name" validate:"required"`
	City     string `json:"city" bson:"city" validate:"required"`
	Address  string `json:"address" bson:"address" validate:"required"`
	Town     string `json:"town" bson:"town" validate:"required"`
	Phone    string `json:"phone" bson:"phone" validate:"required"`
	AltPhone string `json:"altPhone,omitempty" bson:"altPhone,omitempty"`
}

// OrderItem represents a single line within an order.
type OrderItem struct {
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	Quantity  int                `json:"quantity" bson:"quantity"`
	Price     float64            `json:"price" bson:"price"` // unit price at the time of order
}

// Order represents a customer order.
type Order struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID          primitive.ObjectID `json:"userId" bson:"userId"`
	Items           []OrderItem        `json:"items" bson:"items"`
	Total           float64            `json:"total" bson:"total"`
	PaymentMethod   string             `json:"paymentMethod" bson:"paymentMethod"`
	ShippingDetails ShippingDetails    `json:"shippingDetails" bson:"shippingDetails"`
	Status          string             `json:"status" bson:"status"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`

	// Single-line orders written before items existed.
	LegacyProductID *primitive.ObjectID `json:"-" bson:"productId,omitempty"`
	LegacyQuantity  int                 `json:"-" bson:"quantity,omitempty"`
}

// Normalize folds a legacy single-line order into Items.
func (o *Order) Normalize() {
	if len(o.Items) == 0 && o.LegacyProductID != nil {
		o.Items = []OrderItem{{ProductID: *o.LegacyProductID, Quantity: o.LegacyQuantity}}
	}
	o.LegacyProductID = nil
	o.LegacyQuantity = 0
	if o.Items == nil {
		o.Items = []OrderItem{}
	}
}

// Order event types published on the message bus.
const (
	OrderEventCreated       = "order.created"
	OrderEventStatusChanged = "order.status_changed"
)

// OrderEvent is the message published when an order changes, and the audit
// record the order events worker stores for it.
type OrderEvent struct {
	ID         primitive.ObjectID `json:"-" bson:"_id,omitempty"`
	MessageID  string             `json:"messageId" bson:"messageId"`
	Type       string             `json:"type" bson:"type"`
	OrderID    string             `json:"orderId" bson:"orderId"`
	UserID     string             `json:"userId" bson:"userId"`
	Status     string             `json:"status" bson:"status"`
	Total      float64            `json:"total" bson:"total"`
	OccurredAt time.Time          `json:"occurredAt" bson:"occurredAt"`
	ReceivedAt time.Time          `json:"-" bson:"receivedAt"`
}
