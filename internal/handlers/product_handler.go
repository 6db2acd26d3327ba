package handlers

import (
	"strconv"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/middleware"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for catalog products and search.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// RegisterRoutes registers the product routes.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Get("/products", h.HandleListProducts)
	router.Get("/product/:id", h.HandleGetProduct)
	router.Post("/products", g.Session, g.Admin, h.HandleCreateProduct)
	router.Put("/products/:id", g.Session, g.Admin, h.HandleUpdateProduct)
	router.Delete("/products/:id", g.Session, g.Admin, h.HandleDeleteProduct)
	router.Get("/search", h.HandleSearch)
}

// HandleListProducts lists products, optionally filtered by category, type and inStock.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	filter := models.ProductFilter{
		Category: c.Query("category"),
		Type:     c.Query("type"),
	}
	if raw := c.Query("inStock"); raw != "" {
		inStock, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "inStock must be true or false",
			})
		}
		filter.InStock = &inStock
	}

	products, err := h.service.ListProducts(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(products)
}

// HandleGetProduct retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProduct(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a catalog product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	created, err := h.service.CreateProduct(c.UserContext(), middleware.PrincipalFrom(c), &product)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product created",
		"product": created,
	})
}

// HandleUpdateProduct replaces a catalog product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), middleware.PrincipalFrom(c), c.Params("id"), &product)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Product updated",
		"product": updated,
	})
}

// HandleDeleteProduct removes a catalog product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.UserContext(), middleware.PrincipalFrom(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Product deleted"})
}

// HandleSearch matches q against titles and descriptions.
func (h *ProductHandler) HandleSearch(c *fiber.Ctx) error {
	results, err := h.service.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(results)
}
