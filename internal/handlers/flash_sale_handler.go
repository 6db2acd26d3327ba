package handlers

import (
	"strconv"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/middleware"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/services"

	"github.com/gofiber/fiber/v2"
)

// FlashSaleHandler serves flash sales, which are products of type flashSale.
type FlashSaleHandler struct {
	service *services.ProductService
}

// NewFlashSaleHandler creates a new FlashSaleHandler.
func NewFlashSaleHandler(service *services.ProductService) *FlashSaleHandler {
	return &FlashSaleHandler{service: service}
}

// RegisterRoutes registers the flash sale routes. Writes take the sale id
// from the body or from ?id=.
func (h *FlashSaleHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Get("/flashSales", g.Optional, h.HandleListFlashSales)
	router.Get("/flashsale/:id", h.HandleGetFlashSale)
	router.Post("/flashSales", g.Session, g.Admin, h.HandleCreateFlashSale)
	router.Put("/flashSales", g.Session, g.Admin, h.HandleUpdateFlashSale)
	router.Delete("/flashSales", g.Session, g.Admin, h.HandleDeleteFlashSale)
}

// flashSaleRequest is a product body that may also carry the target id.
type flashSaleRequest struct {
	ID string `json:"id"`
	models.Product
}

func (r *flashSaleRequest) targetID(c *fiber.Ctx) string {
	if id := c.Query("id"); id != "" {
		return id
	}
	return r.ID
}

// HandleListFlashSales lists active flash sales. Admins may pass all=true to
// include expired ones.
func (h *FlashSaleHandler) HandleListFlashSales(c *fiber.Ctx) error {
	all, _ := strconv.ParseBool(c.Query("all"))
	if all && !middleware.PrincipalFrom(c).IsAdmin() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Admin access required",
		})
	}

	sales, err := h.service.ListFlashSales(c.UserContext(), all)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sales)
}

// HandleGetFlashSale retrieves one flash sale.
func (h *FlashSaleHandler) HandleGetFlashSale(c *fiber.Ctx) error {
	sale, err := h.service.GetFlashSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sale)
}

// HandleCreateFlashSale creates a flash sale.
func (h *FlashSaleHandler) HandleCreateFlashSale(c *fiber.Ctx) error {
	var req flashSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	sale, err := h.service.CreateFlashSale(c.UserContext(), middleware.PrincipalFrom(c), &req.Product)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":   "Flash sale created",
		"flashSale": sale,
	})
}

// HandleUpdateFlashSale replaces a flash sale.
func (h *FlashSaleHandler) HandleUpdateFlashSale(c *fiber.Ctx) error {
	var req flashSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}
	id := req.targetID(c)
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Flash sale id is required",
		})
	}

	sale, err := h.service.UpdateFlashSale(c.UserContext(), middleware.PrincipalFrom(c), id, &req.Product)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message":   "Flash sale updated",
		"flashSale": sale,
	})
}

// HandleDeleteFlashSale removes a flash sale.
func (h *FlashSaleHandler) HandleDeleteFlashSale(c *fiber.Ctx) error {
	var req flashSaleRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid request body",
			})
		}
	}
	id := req.targetID(c)
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Flash sale id is required",
		})
	}

	if err := h.service.DeleteFlashSale(c.UserContext(), middleware.PrincipalFrom(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Flash sale deleted"})
}
