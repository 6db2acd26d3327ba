package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockCategoryRepository is an in-memory implementation of CategoryRepository.
type MockCategoryRepository struct {
	categories map[primitive.ObjectID]models.Category
	mu         sync.RWMutex
}

// NewMockCategoryRepository creates a new instance of MockCategoryRepository.
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		categories: make(map[primitive.ObjectID]models.Category),
	}
}

func byName(categories []models.Category) {
	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
}

// GetAll returns every category sorted by name.
func (r *MockCategoryRepository) GetAll(_ context.Context) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Category, 0, len(r.categories))
	for _, c := range r.categories {
		list = append(list, c)
	}
	byName(list)
	return list, nil
}

// GetByID returns a category by ID.
func (r *MockCategoryRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.categories[id]
	if !ok {
		return nil, fmt.Errorf("category with ID %s: %w", id.Hex(), ErrNotFound)
	}
	return &c, nil
}

// GetChildren returns the categories whose parent is parentID.
func (r *MockCategoryRepository) GetChildren(_ context.Context, parentID primitive.ObjectID) ([]models.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Category, 0)
	for _, c := range r.categories {
		if c.ParentID != nil && *c.ParentID == parentID {
			list = append(list, c)
		}
	}
	byName(list)
	return list, nil
}

// Create adds a new category.
func (r *MockCategoryRepository) Create(_ context.Context, category *models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if category.ID.IsZero() {
		category.ID = primitive.NewObjectID()
	}
	r.categories[category.ID] = *category
	return nil
}
