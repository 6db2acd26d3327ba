package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[primitive.ObjectID]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[primitive.ObjectID]models.Order),
	}
}

func (r *MockOrderRepository) collect(keep func(models.Order) bool) []models.Order {
	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if keep(order) {
			order.Normalize()
			orderList = append(orderList, order)
		}
	}
	sort.SliceStable(orderList, func(i, j int) bool {
		return orderList[i].CreatedAt.After(orderList[j].CreatedAt)
	})
	return orderList
}

// GetAll returns all orders, newest first.
func (r *MockOrderRepository) GetAll(_ context.Context) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(models.Order) bool { return true }), nil
}

// GetByUserID returns the orders placed by userID, newest first.
func (r *MockOrderRepository) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(o models.Order) bool { return o.UserID == userID }), nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id.Hex(), ErrNotFound)
	}
	order.Normalize()
	return &order, nil
}

// Create adds a new order.
func (r *MockOrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	r.orders[order.ID] = *order
	return nil
}

// UpdateStatus updates the status of an order.
func (r *MockOrderRepository) UpdateStatus(_ context.Context, id primitive.ObjectID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s for status update: %w", id.Hex(), ErrNotFound)
	}
	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	r.orders[id] = order
	return nil
}

// MockOrderEventRepository is an in-memory implementation of OrderEventRepository.
type MockOrderEventRepository struct {
	events []models.OrderEvent
	mu     sync.RWMutex
}

// NewMockOrderEventRepository creates a new instance of MockOrderEventRepository.
func NewMockOrderEventRepository() *MockOrderEventRepository {
	return &MockOrderEventRepository{}
}

// Save appends an event; a repeated message ID is rejected.
func (r *MockOrderEventRepository) Save(_ context.Context, event *models.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.events {
		if e.MessageID == event.MessageID {
			return fmt.Errorf("order event %s: %w", event.MessageID, ErrDuplicate)
		}
	}
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	r.events = append(r.events, *event)
	return nil
}

// GetByOrderID returns the events of an order in arrival order.
func (r *MockOrderEventRepository) GetByOrderID(_ context.Context, orderID string) ([]models.OrderEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.OrderEvent, 0)
	for _, e := range r.events {
		if e.OrderID == orderID {
			list = append(list, e)
		}
	}
	return list, nil
}
