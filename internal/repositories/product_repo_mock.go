package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[primitive.ObjectID]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[primitive.ObjectID]models.Product),
	}
}

func matchesFilter(p models.Product, f models.ProductFilter) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Type != "" && p.Type != f.Type {
		return false
	}
	if f.InStock != nil && p.InStock != *f.InStock {
		return false
	}
	return true
}

// newestFirst orders products the way the Mongo implementation sorts them.
func newestFirst(products []models.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		if products[i].CreatedAt.Equal(products[j].CreatedAt) {
			return products[i].ID.Hex() > products[j].ID.Hex()
		}
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
}

// GetAll returns all products matching filter, newest first.
func (r *MockProductRepository) GetAll(_ context.Context, filter models.ProductFilter) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if matchesFilter(p, filter) {
			productList = append(productList, p)
		}
	}
	newestFirst(productList)
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %s: %w", id.Hex(), ErrNotFound)
	}
	return &product, nil
}

// GetByIDs returns the products that exist among ids.
func (r *MockProductRepository) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			productList = append(productList, p)
		}
	}
	return productList, nil
}

// Create adds a new product. The id and timestamps are always assigned here,
// as the Mongo implementation does.
func (r *MockProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = *product
	return nil
}

// Update replaces an existing product, keeping its creation time.
func (r *MockProductRepository) Update(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %s for update: %w", product.ID.Hex(), ErrNotFound)
	}
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now().UTC()
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product with ID %s for deletion: %w", id.Hex(), ErrNotFound)
	}
	delete(r.products, id)
	return nil
}

// Search scans titles and descriptions case-insensitively.
func (r *MockProductRepository) Search(_ context.Context, query string, limit int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(query)
	matches := make([]models.Product, 0)
	for _, p := range r.products {
		if strings.Contains(strings.ToLower(p.Title), needle) || strings.Contains(strings.ToLower(p.Description), needle) {
			matches = append(matches, p)
		}
	}
	newestFirst(matches)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
