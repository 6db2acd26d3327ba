package handlers

import (
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/middleware"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler serves self-service account changes.
type UserHandler struct {
	authService *services.AuthService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// RegisterRoutes registers the account routes.
func (h *UserHandler) RegisterRoutes(router fiber.Router, g Guards) {
	userRoutes := router.Group("/users", g.Session)
	userRoutes.Patch("/update", h.HandleUpdateProfile)
	userRoutes.Patch("/reset-password", h.HandleResetPassword)
}

// UpdateProfileRequest carries the optional profile fields.
type UpdateProfileRequest struct {
	Email          *string `json:"email"`
	ProfilePicture *string `json:"profilePicture"`
}

// HandleUpdateProfile changes the caller's email and/or profile picture.
func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	principal := middleware.PrincipalFrom(c)
	user, err := h.authService.UpdateProfile(c.UserContext(), principal.UserID, req.Email, req.ProfilePicture)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Profile updated",
		"user":    user,
	})
}

// ResetPasswordRequest carries the new password.
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}

// HandleResetPassword replaces the caller's password.
func (h *UserHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	principal := middleware.PrincipalFrom(c)
	if err := h.authService.ResetPassword(c.UserContext(), principal.UserID, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Password updated"})
}
