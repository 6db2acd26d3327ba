package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/config"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/database"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/logging"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/repositories"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/routes"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/telemetry"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/worker"
	"github.com/sahilvr03/scl-E-commerce-sub000/pkg/cloudinary"
	"github.com/sahilvr03/scl-E-commerce-sub000/pkg/leopards"
	"github.com/sahilvr03/scl-E-commerce-sub000/pkg/rabbitmq"

	"github.com/getsentry/sentry-go"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
)

const serviceName = "storefront"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.LogLevel)

	// --- Log shipping ---
	var kafkaWriter *kafka.Writer
	if len(cfg.KafkaBrokers) > 0 {
		kafkaWriter = logging.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaLogTopic)
		logger = logging.Setup(cfg.LogLevel,
			logging.NewKafkaHandler(kafkaWriter, cfg.Env, slog.LevelWarn))
		slog.Info("shipping logs to kafka", "topic", cfg.KafkaLogTopic)
	}

	// --- Error tracking ---
	useSentry := false
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.Env,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			useSentry = true
			defer sentry.Flush(2 * time.Second)
		}
	}

	// --- Tracing ---
	ctx := context.Background()
	shutdownTracing, err := telemetry.InitTracing(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		slog.Error("tracing init failed", "error", err)
		os.Exit(1)
	}

	// --- Storage ---
	var (
		store       *repositories.Store
		mongoClient *mongo.Client
		opts        routes.Options
	)
	switch cfg.Storage {
	case "memory":
		store = repositories.NewMemoryStore()
		seedProducts(ctx, store.Products)
		slog.Warn("using in-memory storage; data is lost on restart")
	default:
		mongoClient, err = database.Connect(ctx, cfg)
		if err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		db := mongoClient.Database(cfg.MongoDatabase)
		if err := database.EnsureIndexes(ctx, db); err != nil {
			slog.Error("index creation failed", "error", err)
			os.Exit(1)
		}
		store = repositories.NewMongoStore(db, cfg.MongoOpTimeout)
		opts.PingDB = func(ctx context.Context) error { return database.Ping(ctx, mongoClient) }
	}

	// --- Messaging ---
	var (
		mqClient    *rabbitmq.Client
		eventWorker *worker.OrderEventWorker
	)
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			slog.Error("rabbitmq unavailable, order events disabled", "error", err)
		} else {
			opts.Publisher = mqClient
			eventWorker = worker.NewOrderEventWorker(mqClient, store.OrderEvents, logger)
			if err := eventWorker.Start(ctx); err != nil {
				slog.Error("failed to start order event worker", "error", err)
				eventWorker = nil
			}
		}
	}

	// --- Upstream APIs ---
	courier := leopards.NewClient(leopards.Config{
		BaseURL:  cfg.LeopardsAPIURL,
		APIKey:   cfg.LeopardsKey,
		Password: cfg.LeopardsPassword,
		Lookback: cfg.LeopardsLookback,
		Timeout:  cfg.LeopardsTimeout,
	})
	if courier.IsConfigured() {
		opts.Courier = courier
	}
	images := cloudinary.NewClient(cloudinary.Config{
		APIURL:    cfg.CloudinaryAPIURL,
		CloudName: cfg.AssetCloudName,
		Preset:    cfg.CloudinaryPreset,
		Timeout:   cfg.CloudinaryTimeout,
	})
	if images.IsConfigured() {
		opts.Images = images
	}

	opts.Logger = logger
	opts.UseSentry = useSentry
	app := routes.NewApp(cfg, store, opts)

	// --- Start HTTP Server ---
	go func() {
		slog.Info("starting server", "port", cfg.Port, "storage", cfg.Storage)
		if err := app.Listen(cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("error during fiber shutdown", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if eventWorker != nil {
		eventWorker.Stop()
	}
	if mqClient != nil {
		if err := mqClient.Close(); err != nil {
			slog.Error("error closing rabbitmq", "error", err)
		}
	}
	if mongoClient != nil {
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			slog.Error("error disconnecting mongo", "error", err)
		}
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("error flushing traces", "error", err)
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			slog.Error("error closing kafka writer", "error", err)
		}
	}
	slog.Info("server gracefully stopped")
}

// seedProducts populates the in-memory catalog with a few products.
func seedProducts(ctx context.Context, repo repositories.ProductRepository) {
	saleEnds := time.Now().Add(72 * time.Hour)
	originalPrice := 1500.00
	products := []models.Product{
		{Title: "Laptop", Description: "High performance laptop", Price: 1200.00, Category: "electronics", InStock: true, Type: models.ProductTypeForYou},
		{Title: "Keyboard", Description: "Mechanical keyboard", Price: 75.00, Category: "accessories", InStock: true, Type: models.ProductTypeRecommended},
		{Title: "Mouse", Description: "Ergonomic wireless mouse", Price: 25.00, Category: "accessories", InStock: true},
		{Title: "Monitor", Description: "27 inch display", Price: 999.00, OriginalPrice: &originalPrice, Category: "electronics", InStock: true, Type: models.ProductTypeFlashSale, EndDate: models.NewSaleEnd(saleEnds)},
	}

	for i := range products {
		if err := repo.Create(ctx, &products[i]); err != nil {
			slog.Error("error seeding product", "title", products[i].Title, "error", err)
			continue
		}
		slog.Info("seeded product", "title", products[i].Title, "id", products[i].ID.Hex())
	}
}
