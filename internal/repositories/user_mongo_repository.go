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

// emailCollation makes email lookups case-insensitive; it matches the unique index.
var emailCollation = &options.Collation{Locale: "en", Strength: 2}

type userMongoRepository struct {
	mongoRepo
}

// NewUserMongoRepository creates a UserRepository backed by the users collection.
func NewUserMongoRepository(db *mongo.Database, timeout time.Duration) UserRepository {
	return &userMongoRepository{newMongoRepo(db, UsersCollection, timeout)}
}

func (r *userMongoRepository) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	now := time.Now().UTC()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to insert user %s: %w", user.Email, translate(err))
	}
	return nil
}

func (r *userMongoRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	var user models.User
	opts := options.FindOne().SetCollation(emailCollation)
	if err := r.coll.FindOne(ctx, bson.M{"email": email}, opts).Decode(&user); err != nil {
		return nil, fmt.Errorf("user with email %s: %w", email, translate(err))
	}
	return &user, nil
}

func (r *userMongoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, fmt.Errorf("user with ID %s: %w", id.Hex(), translate(err))
	}
	return &user, nil
}

func (r *userMongoRepository) Update(ctx context.Context, id primitive.ObjectID, update models.UserUpdate) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.ProfilePicture != nil {
		set["profilePicture"] = *update.ProfilePicture
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", id.Hex(), translate(err))
	}
	// MatchedCount, not ModifiedCount: an unchanged profile is still a success.
	if res.MatchedCount == 0 {
		return fmt.Errorf("user with ID %s for update: %w", id.Hex(), ErrNotFound)
	}
	return nil
}

func (r *userMongoRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"passwordHash": passwordHash,
		"updatedAt":    time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("failed to update password of user %s: %w", id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user with ID %s for password update: %w", id.Hex(), ErrNotFound)
	}
	return nil
}
