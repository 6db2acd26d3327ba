package repositories

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type productMongoRepository struct {
	mongoRepo
}

// NewProductMongoRepository creates a ProductRepository backed by the products collection.
func NewProductMongoRepository(db *mongo.Database, timeout time.Duration) ProductRepository {
	return &productMongoRepository{newMongoRepo(db, ProductsCollection, timeout)}
}

var newestFirstSort = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

func (r *productMongoRepository) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]models.Product, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productMongoRepository) GetAll(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.InStock != nil {
		query["inStock"] = *filter.InStock
	}
	products, err := r.find(ctx, query, options.Find().SetSort(newestFirstSort))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *productMongoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	var product models.Product
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return nil, fmt.Errorf("product with ID %s: %w", id.Hex(), translate(err))
	}
	return &product, nil
}

func (r *productMongoRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	products, err := r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
	if err != nil {
		return nil, fmt.Errorf("failed to load %d products: %w", len(ids), err)
	}
	return products, nil
}

func (r *productMongoRepository) Create(ctx context.Context, product *models.Product) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	now := time.Now().UTC()
	product.ID = primitive.NewObjectID()
	product.CreatedAt = now
	product.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("failed to insert product: %w", translate(err))
	}
	return nil
}

func (r *productMongoRepository) Update(ctx context.Context, product *models.Product) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	existing, err := r.GetByID(ctx, product.ID)
	if err != nil {
		return err
	}
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = time.Now().UTC()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", product.ID.Hex(), translate(err))
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("product with ID %s for update: %w", product.ID.Hex(), ErrNotFound)
	}
	return nil
}

func (r *productMongoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("product with ID %s for deletion: %w", id.Hex(), ErrNotFound)
	}
	return nil
}

func (r *productMongoRepository) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	// The query is user input: quote it so it matches literally.
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"title": pattern},
		bson.M{"description": pattern},
	}}
	opts := options.Find().SetSort(newestFirstSort)
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	products, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search products for %q: %w", query, err)
	}
	return products, nil
}
