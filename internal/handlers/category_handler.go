package handlers

import (
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/middleware"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CategoryHandler handles HTTP requests for categories.
type CategoryHandler struct {
	service *services.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(service *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// RegisterRoutes registers the category routes.
func (h *CategoryHandler) RegisterRoutes(router fiber.Router, g Guards) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleListCategories)
	categoryRoutes.Get("/:id", h.HandleGetCategory)
	categoryRoutes.Get("/:id/children", h.HandleListSubcategories)
	categoryRoutes.Post("/", g.Session, g.Admin, h.HandleCreateCategory)
}

func (h *CategoryHandler) HandleListCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}

func (h *CategoryHandler) HandleGetCategory(c *fiber.Ctx) error {
	category, err := h.service.GetCategory(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(category)
}

func (h *CategoryHandler) HandleListSubcategories(c *fiber.Ctx) error {
	children, err := h.service.ListSubcategories(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(children)
}

func (h *CategoryHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var category models.Category
	if err := c.BodyParser(&category); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	created, err := h.service.CreateCategory(c.UserContext(), middleware.PrincipalFrom(c), &category)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Category created",
		"category": created,
	})
}
