package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// Collection names.
const (
	UsersCollection       = "users"
	ProductsCollection    = "products"
	CategoriesCollection  = "categories"
	CartsCollection       = "carts"
	OrdersCollection      = "orders"
	OrderEventsCollection = "order_events"
)

const defaultOpTimeout = 5 * time.Second

// mongoRepo holds what every Mongo-backed repository needs.
type mongoRepo struct {
	coll    *mongo.Collection
	timeout time.Duration
}

func newMongoRepo(db *mongo.Database, name string, timeout time.Duration) mongoRepo {
	if timeout <= 0 {
		timeout = defaultOpTimeout
	}
	return mongoRepo{coll: db.Collection(name), timeout: timeout}
}

// opCtx bounds a single database operation.
func (m mongoRepo) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, m.timeout)
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}
