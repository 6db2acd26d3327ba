package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
)

// Error kinds returned by every service. Callers test them with errors.Is;
// the wrapped message is safe to show to clients for everything but ErrInternal.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal error")
)

var tracer = otel.Tracer("storefront/services")

var validate = validator.New()

func badRequest(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, fmt.Sprintf(format, args...))
}

func notFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func internal(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}

// Message returns the client-facing part of a service error.
func Message(err error) string {
	for _, kind := range []error{ErrBadRequest, ErrUnauthorized, ErrForbidden, ErrNotFound, ErrConflict} {
		if errors.Is(err, kind) {
			msg := strings.TrimPrefix(err.Error(), kind.Error()+": ")
			if msg == "" {
				return kind.Error()
			}
			return msg
		}
	}
	return "Internal server error"
}

// ParseID converts a hex string into an ObjectID, failing with ErrBadRequest.
func ParseID(kind, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, badRequest("invalid %s id %q", kind, id)
	}
	return oid, nil
}

// validationError flattens validator errors into one BadRequest.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return badRequest("%v", err)
	}
	parts := make([]string, 0, len(verrs))
	for _, e := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed on %s", e.Field(), e.Tag()))
	}
	return badRequest("%s", strings.Join(parts, "; "))
}
