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

// maxAddAttempts bounds AddItem retries after losing an insert race.
const maxAddAttempts = 3

type cartMongoRepository struct {
	mongoRepo
}

// NewCartMongoRepository creates a CartRepository backed by the carts collection.
// It relies on the unique index on carts.userId created by database.EnsureIndexes.
func NewCartMongoRepository(db *mongo.Database, timeout time.Duration) CartRepository {
	return &cartMongoRepository{newMongoRepo(db, CartsCollection, timeout)}
}

func (r *cartMongoRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	var cart models.Cart
	if err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&cart); err != nil {
		return nil, fmt.Errorf("cart for user %s: %w", userID.Hex(), translate(err))
	}
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}
	return &cart, nil
}

// AddItem never reads then writes. It first tries to increment an existing
// line in place; failing that it pushes a new line onto a cart that lacks the
// product, creating the cart if needed. Two first adds racing on a missing
// cart collide on the unique userId index, and the loser retries.
func (r *cartMongoRepository) AddItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	var lastErr error
	for attempt := 0; attempt < maxAddAttempts; attempt++ {
		now := time.Now().UTC()

		res, err := r.coll.UpdateOne(ctx,
			bson.M{"userId": userID, "items.productId": productID},
			bson.M{
				"$inc": bson.M{"items.$.quantity": quantity},
				"$set": bson.M{"updatedAt": now},
			})
		if err != nil {
			return fmt.Errorf("failed to increment cart item: %w", err)
		}
		if res.MatchedCount > 0 {
			return nil
		}

		_, err = r.coll.UpdateOne(ctx,
			bson.M{"userId": userID, "items.productId": bson.M{"$ne": productID}},
			bson.M{
				"$push":        bson.M{"items": models.CartItem{ProductID: productID, Quantity: quantity}},
				"$set":         bson.M{"updatedAt": now},
				"$setOnInsert": bson.M{"createdAt": now},
			},
			options.Update().SetUpsert(true))
		if err == nil {
			return nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("failed to add cart item: %w", err)
		}
		// The cart appeared, or gained this product, between the two updates.
		lastErr = err
	}
	return fmt.Errorf("failed to add cart item after %d attempts: %w", maxAddAttempts, lastErr)
}

func (r *cartMongoRepository) SetItemQuantity(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"userId": userID, "items.productId": productID},
		bson.M{"$set": bson.M{"items.$.quantity": quantity, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("product %s in cart of user %s: %w", productID.Hex(), userID.Hex(), ErrNotFound)
	}
	return nil
}

func (r *cartMongoRepository) pull(ctx context.Context, userID primitive.ObjectID, productIDs []primitive.ObjectID) (*mongo.UpdateResult, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	return r.coll.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{
			"$pull": bson.M{"items": bson.M{"productId": bson.M{"$in": productIDs}}},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		})
}

func (r *cartMongoRepository) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) error {
	res, err := r.pull(ctx, userID, []primitive.ObjectID{productID})
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("cart for user %s: %w", userID.Hex(), ErrNotFound)
	}
	return nil
}

func (r *cartMongoRepository) RemoveItems(ctx context.Context, userID primitive.ObjectID, productIDs []primitive.ObjectID) error {
	if len(productIDs) == 0 {
		return nil
	}
	if _, err := r.pull(ctx, userID, productIDs); err != nil {
		return fmt.Errorf("failed to remove %d cart items: %w", len(productIDs), err)
	}
	return nil
}

func (r *cartMongoRepository) Clear(ctx context.Context, userID primitive.ObjectID) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	_, err := r.coll.UpdateOne(ctx,
		bson.M{"userId": userID},
		bson.M{"$set": bson.M{"items": bson.A{}, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("failed to clear cart of user %s: %w", userID.Hex(), err)
	}
	return nil
}
