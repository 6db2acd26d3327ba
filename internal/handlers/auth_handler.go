package handlers

import (
	"time"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/middleware"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService  *services.AuthService
	secureCookie bool
}

// NewAuthHandler creates a new AuthHandler. secureCookie sets the Secure
// flag on the session cookie.
func NewAuthHandler(authService *services.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		secureCookie: secureCookie,
	}
}

// RegisterRoutes registers the authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, g Guards) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/logout", h.HandleLogout)
	authRoutes.Get("/session", g.Optional, h.HandleSession)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// HandleRegister handles new user registration. It does not log the user in.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	user, err := h.authService.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user.Public(),
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin checks credentials and sets the session cookie.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	token, user, err := h.authService.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.authService.TokenTTL().Seconds()),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    user.Public(),
	})
}

// HandleLogout overwrites the session cookie with an expired one.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	return c.JSON(fiber.Map{"message": "Logged out"})
}

// HandleSession returns the current user, or 401 with a null session.
func (h *AuthHandler) HandleSession(c *fiber.Ctx) error {
	user, err := h.authService.ResolveSession(c.UserContext(), middleware.PrincipalFrom(c))
	if err != nil {
		if statusFor(err) != fiber.StatusUnauthorized {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"session": nil})
	}
	return c.JSON(fiber.Map{
		"session": fiber.Map{"user": user},
	})
}
