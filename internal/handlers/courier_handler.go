package handlers

import (
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CourierHandler exposes the courier's booked parcels to the back office.
type CourierHandler struct {
	service *services.CourierService
}

// NewCourierHandler creates a new CourierHandler.
func NewCourierHandler(service *services.CourierService) *CourierHandler {
	return &CourierHandler{service: service}
}

func (h *CourierHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Get("/leopard/orders", g.Session, g.Admin, h.HandleListParcels)
}

// HandleListParcels always answers 200; upstream failures yield [].
func (h *CourierHandler) HandleListParcels(c *fiber.Ctx) error {
	return c.JSON(h.service.ListBookedParcels(c.UserContext()))
}
