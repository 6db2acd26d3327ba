package middleware

import (
	"log/slog"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/services"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// SessionCookie carries the session token.
	SessionCookie = "token"

	principalKey = "principal"
	tokenKey     = "session_token"
)

// PrincipalFrom returns the caller resolved by the session middleware, or nil.
func PrincipalFrom(c *fiber.Ctx) *models.Principal {
	p, _ := c.Locals(principalKey).(*models.Principal)
	return p
}

func session(secret []byte, onError fiber.ErrorHandler) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: secret},
		TokenLookup: "cookie:" + SessionCookie,
		ContextKey:  tokenKey,
		Claims:      &services.SessionClaims{},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals(tokenKey).(*jwt.Token)
			if !ok {
				return onError(c, jwtware.ErrJWTMissingOrMalformed)
			}
			claims, ok := token.Claims.(*services.SessionClaims)
			if !ok {
				return onError(c, jwtware.ErrJWTMissingOrMalformed)
			}
			principal, err := services.PrincipalFromClaims(claims)
			if err != nil {
				return onError(c, err)
			}
			c.Locals(principalKey, principal)
			return c.Next()
		},
		ErrorHandler: onError,
	})
}

// SessionRequired resolves the session cookie into a Principal once per
// request and rejects the request with 401 when it is missing or invalid.
func SessionRequired(secret []byte) fiber.Handler {
	return session(secret, func(c *fiber.Ctx, err error) error {
		slog.DebugContext(c.UserContext(), "session rejected", "path", c.Path(), "error", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Unauthorized: please log in",
		})
	})
}

// SessionOptional resolves the session cookie when present and valid, and
// otherwise lets the request through without a Principal.
func SessionOptional(secret []byte) fiber.Handler {
	return session(secret, func(c *fiber.Ctx, _ error) error {
		return c.Next()
	})
}

// RequireAdmin allows only admin principals. It trusts the role carried by
// the verified token and does not consult the user store.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal := PrincipalFrom(c)
		if principal == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized: please log in",
			})
		}
		if !principal.IsAdmin() {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin access required",
			})
		}
		return c.Next()
	}
}
