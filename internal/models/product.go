package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product placement types.
const (
	ProductTypeForYou      = "forYou"
	ProductTypeRecommended = "recommended"
	ProductTypeFlashSale   = "flashSale"
)

// Product represents an item in the catalog. Flash sales are products whose
// Type is flashSale; EndDate closes their active window.
type Product struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title         string             `json:"title" bson:"title" validate:"required,max=200"`
	Description   string             `json:"description" bson:"description" validate:"omitempty,max=5000"`
	Price         float64            `json:"price" bson:"price" validate:"gte=0"`
	OriginalPrice *float64           `json:"originalPrice,omitempty" bson:"originalPrice,omitempty" validate:"omitempty,gte=0"`
	Discount      *float64           `json:"discount,omitempty" bson:"discount,omitempty" validate:"omitempty,gte=0,lte=100"`
	Rating        *float64           `json:"rating,omitempty" bson:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Reviews       *int               `json:"reviews,omitempty" bson:"reviews,omitempty" validate:"omitempty,gte=0"`
	ImageURL      string             `json:"imageUrl" bson:"imageUrl" validate:"omitempty,url"`
	Images        []string           `json:"images,omitempty" bson:"images,omitempty" validate:"omitempty,dive,url"`
	Category      string             `json:"category" bson:"category"`
	SKU           string             `json:"sku,omitempty" bson:"sku,omitempty"`
	Brand         string             `json:"brand,omitempty" bson:"brand,omitempty"`
	InStock       bool               `json:"inStock" bson:"inStock"`
	Type          string             `json:"type,omitempty" bson:"type,omitempty" validate:"omitempty,oneof=forYou recommended flashSale"`
	EndDate       *SaleEnd           `json:"endDate,omitempty" bson:"endDate,omitempty" validate:"required_if=Type flashSale"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// IsActiveFlashSale reports whether p is a flash sale whose window is still open at now.
func (p *Product) IsActiveFlashSale(now time.Time) bool {
	if p.Type != ProductTypeFlashSale || !p.EndDate.Valid() {
		return false
	}
	return p.EndDate.After(now)
}

// ProductFilter narrows ListProducts. Zero values match everything.
type ProductFilter struct {
	Category string
	Type     string
	InStock  *bool
}

// SearchResult is the reduced product shape returned by search.
type SearchResult struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
	CategoryID  string  `json:"categoryId"`
}
