package handlers

import (
	"io"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/middleware"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UploadHandler accepts product images from the back office.
type UploadHandler struct {
	service *services.ImageService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(service *services.ImageService) *UploadHandler {
	return &UploadHandler{service: service}
}

func (h *UploadHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Post("/admin/uploads", g.Session, g.Admin, h.HandleUpload)
}

// HandleUpload reads the multipart "file" field and returns the hosted URL.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "multipart field 'file' is required",
		})
	}
	if header.Size > services.MaxImageSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"message": "file is too large",
		})
	}

	file, err := header.Open()
	if err != nil {
		return respondError(c, err)
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, services.MaxImageSize+1))
	if err != nil {
		return respondError(c, err)
	}

	url, err := h.service.Upload(c.UserContext(), middleware.PrincipalFrom(c), header.Filename, data)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"url": url})
}
