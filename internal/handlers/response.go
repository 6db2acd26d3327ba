package handlers

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/middleware"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/services"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// Guards are the route-level middlewares handlers attach to their routes.
type Guards struct {
	Session  fiber.Handler // 401 without a valid session
	Optional fiber.Handler // resolves a session when there is one
	Admin    fiber.Handler // 403 unless the principal is an admin; use after Session
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrBadRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError maps a service error onto its status and a {"message"} body.
// Server errors are logged and reported, never echoed.
func respondError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		slog.ErrorContext(c.UserContext(), "request failed",
			"trace_id", middleware.TraceID(c),
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.WithScope(func(scope *sentry.Scope) {
				scope.SetTag("trace_id", middleware.TraceID(c))
				hub.CaptureException(err)
			})
		}
	}
	return c.Status(status).JSON(fiber.Map{"message": services.Message(err)})
}

// bind parses the JSON body into req and validates its tags. When it returns
// false the 400 response has already been written and the caller should
// return the accompanying error.
func bind(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	if err := validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return false, respondError(c, err)
		}
		errorMessages := make(map[string]string, len(validationErrors))
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}
	return true, nil
}

// ErrorHandler is the app-wide fallback for errors no handler converted.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		message := fe.Message
		if fe.Code >= fiber.StatusInternalServerError {
			slog.ErrorContext(c.UserContext(), "unhandled server error", "path", c.Path(), "error", err)
			message = "Internal server error"
		}
		return c.Status(fe.Code).JSON(fiber.Map{"message": message})
	}
	return respondError(c, err)
}
