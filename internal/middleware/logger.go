package middleware

import (
	"log/slog"
	"time"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// TraceHeader carries the request trace id in and out.
const TraceHeader = "X-Trace-ID"

const traceKey = "trace_id"

// TraceID returns the trace id assigned by RequestLogger.
func TraceID(c *fiber.Ctx) string {
	id, _ := c.Locals(traceKey).(string)
	return id
}

// RequestLogger tags every request with a trace id and writes one structured
// log line when it completes.
func RequestLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		traceID := c.Get(TraceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		c.Locals(traceKey, traceID)
		c.Set(TraceHeader, traceID)

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		level := slog.LevelInfo
		if status >= fiber.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.LogAttrs(c.UserContext(), level, "request completed",
			slog.Bool(logging.RequestLogKey, true),
			slog.String("trace_id", traceID),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Int64("latency_ms", time.Since(start).Milliseconds()),
			slog.String("ip", c.IP()),
		)
		return nil
	}
}
