package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/config"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/repositories"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect opens a pooled client. The caller owns the client and must
// Disconnect it on shutdown; nothing is cached at package level.
func Connect(ctx context.Context, cfg *config.Config) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(cfg.MongoMaxPoolSize).
		SetMinPoolSize(cfg.MongoMinPoolSize).
		SetMaxConnIdleTime(cfg.MongoMaxIdleTime).
		SetTimeout(cfg.MongoOpTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	slog.Info("database connected",
		"database", cfg.MongoDatabase,
		"max_pool", cfg.MongoMaxPoolSize,
		"max_idle", cfg.MongoMaxIdleTime.String(),
	)
	return client, nil
}

// EnsureIndexes creates the indexes the repositories depend on. The unique
// carts.userId index is what makes concurrent first adds safe.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		repositories.UsersCollection: {{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetCollation(&options.Collation{Locale: "en", Strength: 2}),
		}},
		repositories.CartsCollection: {{
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		repositories.OrdersCollection: {{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
		}},
		repositories.ProductsCollection: {
			{Keys: bson.D{{Key: "type", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
		repositories.CategoriesCollection: {{
			Keys: bson.D{{Key: "parentId", Value: 1}},
		}},
		repositories.OrderEventsCollection: {{
			Keys:    bson.D{{Key: "messageId", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// Ping reports whether the primary is reachable.
func Ping(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, readpref.Primary())
}
