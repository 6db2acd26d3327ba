package routes

import (
	"log/slog"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/config"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/handlers"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/middleware"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/repositories"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/services"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/telemetry"

	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options carries the optional collaborators of the app. Zero values disable
// the matching feature.
type Options struct {
	Logger     *slog.Logger
	Publisher  services.EventPublisher
	Courier    services.CourierClient
	Images     services.ImageStore
	PingDB     handlers.Pinger
	UseSentry  bool
	DisableLog bool
}

// NewApp builds the fiber app: services over store, global middleware and every route.
func NewApp(cfg *config.Config, store *repositories.Store, opts Options) *fiber.App {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	app := fiber.New(fiber.Config{
		AppName:      "storefront",
		BodyLimit:    int(services.MaxImageSize) + 1<<20,
		ErrorHandler: handlers.ErrorHandler,
	})

	if opts.UseSentry {
		app.Use(sentryfiber.New(sentryfiber.Options{Repanic: true}))
	}
	app.Use(recover.New())
	if !opts.DisableLog {
		app.Use(middleware.RequestLogger(opts.Logger))
	}
	app.Use(middleware.Metrics())
	app.Use(middleware.CORS(cfg.CORSOrigins))

	authService := services.NewAuthService(store.Users, cfg.JWTSecret, cfg.JWTExpiry)
	productService := services.NewProductService(store.Products, cfg.AssetHostPrefix())

	guards := handlers.Guards{
		Session:  middleware.SessionRequired(authService.Secret()),
		Optional: middleware.SessionOptional(authService.Secret()),
		Admin:    middleware.RequireAdmin(),
	}

	handlers.NewHealthHandler(opts.PingDB).RegisterRoutes(app)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(telemetry.Registry, promhttp.HandlerOpts{})))

	api := app.Group("/api")
	handlers.NewAuthHandler(authService, cfg.IsProduction()).RegisterRoutes(api, guards)
	handlers.NewUserHandler(authService).RegisterRoutes(api, guards)
	handlers.NewProductHandler(productService).RegisterRoutes(api, guards)
	handlers.NewFlashSaleHandler(productService).RegisterRoutes(api, guards)
	handlers.NewCategoryHandler(services.NewCategoryService(store.Categories)).RegisterRoutes(api, guards)
	handlers.NewCartHandler(services.NewCartService(store.Carts, store.Products)).RegisterRoutes(api, guards)
	handlers.NewOrderHandler(services.NewOrderService(
		store.Orders, store.Products, store.Carts, store.OrderEvents, opts.Publisher,
	)).RegisterRoutes(api, guards)
	handlers.NewCourierHandler(services.NewCourierService(opts.Courier)).RegisterRoutes(api, guards)
	handlers.NewUploadHandler(services.NewImageService(opts.Images)).RegisterRoutes(api, guards)

	return app
}
