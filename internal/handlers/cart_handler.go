package handlers

import (
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/middleware"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the caller's cart.
type CartHandler struct {
	service *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{service: service}
}

// RegisterRoutes registers the cart routes. Every route needs a session.
func (h *CartHandler) RegisterRoutes(router fiber.Router, g Guards) {
	cartRoutes := router.Group("/cart", g.Session)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/", h.HandleAddItem)
	cartRoutes.Put("/", h.HandleUpdateItem)
	cartRoutes.Delete("/clear", h.HandleClearCart)
	cartRoutes.Delete("/", h.HandleRemoveItem)
}

// CartItemRequest is the body of the cart write routes. UserID defaults to
// the caller.
type CartItemRequest struct {
	UserID    string `json:"userId"`
	ProductID string `json:"productId" validate:"required"`
	Quantity  *int   `json:"quantity"`
}

func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(c.UserContext(), middleware.PrincipalFrom(c), c.Query("userId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cart)
}

// HandleAddItem adds a product; quantity defaults to 1.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req CartItemRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	cart, err := h.service.AddItem(c.UserContext(), middleware.PrincipalFrom(c), req.UserID, req.ProductID, quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cart)
}

// HandleUpdateItem sets the quantity of a product already in the cart.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req CartItemRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	if req.Quantity == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "quantity is required",
		})
	}

	cart, err := h.service.UpdateItem(c.UserContext(), middleware.PrincipalFrom(c), req.UserID, req.ProductID, *req.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cart)
}

// HandleRemoveItem removes a product; productId may come from the body or the query.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	req := CartItemRequest{
		UserID:    c.Query("userId"),
		ProductID: c.Query("productId"),
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid request body",
			})
		}
	}
	if req.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "productId is required",
		})
	}

	cart, err := h.service.RemoveItem(c.UserContext(), middleware.PrincipalFrom(c), req.UserID, req.ProductID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cart)
}

func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	cart, err := h.service.ClearCart(c.UserContext(), middleware.PrincipalFrom(c), c.Query("userId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cart)
}
