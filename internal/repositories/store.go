package repositories

import (
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Store bundles one repository per aggregate.
type Store struct {
	Users       UserRepository
	Products    ProductRepository
	Categories  CategoryRepository
	Carts       CartRepository
	Orders      OrderRepository
	OrderEvents OrderEventRepository
}

// NewMongoStore builds every repository on db, bounding each operation by opTimeout.
func NewMongoStore(db *mongo.Database, opTimeout time.Duration) *Store {
	return &Store{
		Users:       NewUserMongoRepository(db, opTimeout),
		Products:    NewProductMongoRepository(db, opTimeout),
		Categories:  NewCategoryMongoRepository(db, opTimeout),
		Carts:       NewCartMongoRepository(db, opTimeout),
		Orders:      NewOrderMongoRepository(db, opTimeout),
		OrderEvents: NewOrderEventMongoRepository(db, opTimeout),
	}
}

// NewMemoryStore builds in-memory repositories for tests and local development.
func NewMemoryStore() *Store {
	return &Store{
		Users:       NewMockUserRepository(),
		Products:    NewMockProductRepository(),
		Categories:  NewMockCategoryRepository(),
		Carts:       NewMockCartRepository(),
		Orders:      NewMockOrderRepository(),
		OrderEvents: NewMockOrderEventRepository(),
	}
}
