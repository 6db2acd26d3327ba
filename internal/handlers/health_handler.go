package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger checks a backing dependency.
type Pinger func(ctx context.Context) error

// HealthHandler reports liveness and database reachability.
type HealthHandler struct {
	pingDB Pinger
}

// NewHealthHandler creates a new HealthHandler. A nil pinger reports the
// database as not configured.
func NewHealthHandler(pingDB Pinger) *HealthHandler {
	return &HealthHandler{pingDB: pingDB}
}

func (h *HealthHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/health", h.HandleHealth)
}

func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	database := "not configured"
	status := fiber.StatusOK
	if h.pingDB != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.pingDB(ctx); err != nil {
			database = "down"
			status = fiber.StatusServiceUnavailable
		} else {
			database = "up"
		}
	}

	health := "healthy"
	if status != fiber.StatusOK {
		health = "unhealthy"
	}
	return c.Status(status).JSON(fiber.Map{
		"status":   health,
		"time":     time.Now().Format(time.RFC3339),
		"database": database,
	})
}
