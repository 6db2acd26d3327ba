package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize bounds uploaded images.
const MaxImageSize = 10 << 20

// ImageStore uploads image bytes to the asset host and returns the public URL.
type ImageStore interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

// ImageService accepts back-office image uploads.
type ImageService struct {
	store ImageStore
}

// NewImageService creates a new ImageService. With a nil store every upload fails.
func NewImageService(store ImageStore) *ImageService {
	return &ImageService{store: store}
}

// Upload stores an image and returns its hosted URL.
func (s *ImageService) Upload(ctx context.Context, principal *models.Principal, filename string, data []byte) (string, error) {
	ctx, span := tracer.Start(ctx, "ImageService.Upload")
	defer span.End()

	if err := requireAdmin(principal); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", badRequest("file is empty")
	}
	if len(data) > MaxImageSize {
		return "", badRequest("file exceeds %d bytes", MaxImageSize)
	}
	if mtype := mimetype.Detect(data); !strings.HasPrefix(mtype.String(), "image/") {
		return "", badRequest("file is not an image (%s)", mtype.String())
	}
	if s.store == nil {
		return "", fmt.Errorf("%w: image uploads are not configured", ErrInternal)
	}

	url, err := s.store.Upload(ctx, filename, data)
	if err != nil {
		return "", internal("upload image", err)
	}
	return url, nil
}
