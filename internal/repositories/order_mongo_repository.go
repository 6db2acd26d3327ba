package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type orderMongoRepository struct {
	mongoRepo
}

// NewOrderMongoRepository creates an OrderRepository backed by the orders collection.
// Orders stored in the single-line legacy shape are normalized on read.
func NewOrderMongoRepository(db *mongo.Database, timeout time.Duration) OrderRepository {
	return &orderMongoRepository{newMongoRepo(db, OrdersCollection, timeout)}
}

func (r *orderMongoRepository) list(ctx context.Context, filter bson.M) ([]models.Order, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Normalize()
	}
	return orders, nil
}

func (r *orderMongoRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	orders, err := r.list(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (r *orderMongoRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	orders, err := r.list(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders of user %s: %w", userID.Hex(), err)
	}
	return orders, nil
}

func (r *orderMongoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	var order models.Order
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, fmt.Errorf("order with ID %s: %w", id.Hex(), translate(err))
	}
	order.Normalize()
	return &order, nil
}

func (r *orderMongoRepository) Create(ctx context.Context, order *models.Order) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	now := time.Now().UTC()
	order.ID = primitive.NewObjectID()
	order.CreatedAt = now
	order.UpdatedAt = now
	order.LegacyProductID = nil
	order.LegacyQuantity = 0
	if _, err := r.coll.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to insert order: %w", translate(err))
	}
	return nil
}

func (r *orderMongoRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("failed to update status of order %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("order with ID %s for status update: %w", id.Hex(), ErrNotFound)
	}
	return nil
}

type orderEventMongoRepository struct {
	mongoRepo
}

// NewOrderEventMongoRepository creates an OrderEventRepository backed by the
// order_events collection, unique on messageId.
func NewOrderEventMongoRepository(db *mongo.Database, timeout time.Duration) OrderEventRepository {
	return &orderEventMongoRepository{newMongoRepo(db, OrderEventsCollection, timeout)}
}

func (r *orderEventMongoRepository) Save(ctx context.Context, event *models.OrderEvent) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	event.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to save order event %s: %w", event.MessageID, translate(err))
	}
	return nil
}

func (r *orderEventMongoRepository) GetByOrderID(ctx context.Context, orderID string) ([]models.OrderEvent, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"orderId": orderID}, options.Find().SetSort(bson.D{{Key: "receivedAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list events of order %s: %w", orderID, err)
	}
	events := make([]models.OrderEvent, 0)
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events of order %s: %w", orderID, err)
	}
	return events, nil
}
