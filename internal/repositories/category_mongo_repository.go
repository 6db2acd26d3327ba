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

type categoryMongoRepository struct {
	mongoRepo
}

// NewCategoryMongoRepository creates a CategoryRepository backed by the categories collection.
func NewCategoryMongoRepository(db *mongo.Database, timeout time.Duration) CategoryRepository {
	return &categoryMongoRepository{newMongoRepo(db, CategoriesCollection, timeout)}
}

func (r *categoryMongoRepository) list(ctx context.Context, filter bson.M) ([]models.Category, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	categories := make([]models.Category, 0)
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryMongoRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	categories, err := r.list(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *categoryMongoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	var category models.Category
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&category); err != nil {
		return nil, fmt.Errorf("category with ID %s: %w", id.Hex(), translate(err))
	}
	return &category, nil
}

func (r *categoryMongoRepository) GetChildren(ctx context.Context, parentID primitive.ObjectID) ([]models.Category, error) {
	categories, err := r.list(ctx, bson.M{"parentId": parentID})
	if err != nil {
		return nil, fmt.Errorf("failed to list children of category %s: %w", parentID.Hex(), err)
	}
	return categories, nil
}

func (r *categoryMongoRepository) Create(ctx context.Context, category *models.Category) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	category.ID = primitive.NewObjectID()
	if _, err := r.coll.InsertOne(ctx, category); err != nil {
		return fmt.Errorf("failed to insert category: %w", translate(err))
	}
	return nil
}
