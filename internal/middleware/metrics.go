package middleware

import (
	"strconv"
	"time"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/telemetry"

	"github.com/gofiber/fiber/v2"
)

// Metrics records request counts and durations labelled by matched route.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		// Unmatched requests end on the global middleware route "/".
		route := c.Route().Path
		if route == "" || (route == "/" && c.Path() != "/") {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Response().StatusCode())
		telemetry.RequestCount.WithLabelValues(c.Method(), route, status).Inc()
		telemetry.RequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return nil
	}
}
