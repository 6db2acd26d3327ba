package handlers

import (
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/middleware"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders, both the customer's own and
// the back-office views.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes registers the order routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, g Guards) {
	orderRoutes := router.Group("/orders", g.Session)
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandleCreateOrder)

	adminRoutes := router.Group("/admin/orders", g.Session, g.Admin)
	adminRoutes.Get("/", h.HandleGetAllOrders)
	adminRoutes.Get("/:id", h.HandleGetAnyOrder)
	adminRoutes.Patch("/:id", h.HandleUpdateOrderStatus)
	adminRoutes.Get("/:id/events", h.HandleGetOrderEvents)
}

// HandleGetOrders lists the caller's orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListOrdersForUser(c.UserContext(), middleware.PrincipalFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves one of the caller's orders.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrderForUser(c.UserContext(), middleware.PrincipalFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// HandleCreateOrder submits a checkout.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var input services.CreateOrderInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	order, err := h.service.CreateOrder(c.UserContext(), middleware.PrincipalFrom(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order placed",
		"order":   order,
	})
}

func (h *OrderHandler) HandleGetAllOrders(c *fiber.Ctx) error {
	orders, err := h.service.ListAllOrders(c.UserContext(), middleware.PrincipalFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

func (h *OrderHandler) HandleGetAnyOrder(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.UserContext(), middleware.PrincipalFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

// StatusUpdateRequest is the body of the admin status change.
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateOrderStatus sets an order's status.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req StatusUpdateRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	order, err := h.service.UpdateOrderStatus(c.UserContext(), middleware.PrincipalFrom(c), c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Order status updated",
		"order":   order,
	})
}

func (h *OrderHandler) HandleGetOrderEvents(c *fiber.Ctx) error {
	events, err := h.service.ListOrderEvents(c.UserContext(), middleware.PrincipalFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(events)
}
