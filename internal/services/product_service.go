package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/repositories"

	"go.opentelemetry.io/otel/attribute"
)

const (
	// FlashSaleLimit caps the public flash sale listing.
	FlashSaleLimit = 20
	// MaxSearchResults caps search responses.
	MaxSearchResults = 20
)

// ProductService handles catalog products, including flash sales.
type ProductService struct {
	repo        repositories.ProductRepository
	assetPrefix string
	now         func() time.Time
}

// NewProductService creates a new ProductService. Image URLs must start with
// assetPrefix; an empty prefix disables the check.
func NewProductService(repo repositories.ProductRepository, assetPrefix string) *ProductService {
	return &ProductService{
		repo:        repo,
		assetPrefix: assetPrefix,
		now:         time.Now,
	}
}

func requireAdmin(principal *models.Principal) error {
	if principal == nil {
		return fmt.Errorf("%w: login required", ErrUnauthorized)
	}
	if !principal.IsAdmin() {
		return fmt.Errorf("%w: admin access required", ErrForbidden)
	}
	return nil
}

// ListProducts retrieves products matching filter, newest first.
func (s *ProductService) ListProducts(ctx context.Context, filter models.ProductFilter) ([]models.Product, error) {
	ctx, span := tracer.Start(ctx, "ProductService.ListProducts")
	defer span.End()

	products, err := s.repo.GetAll(ctx, filter)
	if err != nil {
		return nil, internal("list products", err)
	}
	return products, nil
}

// GetProduct retrieves a single product by its ID.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	ctx, span := tracer.Start(ctx, "ProductService.GetProduct")
	defer span.End()

	oid, err := ParseID("product", id)
	if err != nil {
		return nil, err
	}
	product, err := s.repo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("product %s", id)
		}
		return nil, internal("get product", err)
	}
	return product, nil
}

func (s *ProductService) checkProduct(product *models.Product) error {
	product.Title = strings.TrimSpace(product.Title)
	if err := validate.Struct(product); err != nil {
		return validationError(err)
	}
	if s.assetPrefix == "" {
		return nil
	}
	if product.ImageURL != "" && !strings.HasPrefix(product.ImageURL, s.assetPrefix) {
		return badRequest("imageUrl must be hosted under %s", s.assetPrefix)
	}
	for _, img := range product.Images {
		if !strings.HasPrefix(img, s.assetPrefix) {
			return badRequest("images must be hosted under %s", s.assetPrefix)
		}
	}
	return nil
}

// CreateProduct validates and stores a new product.
func (s *ProductService) CreateProduct(ctx context.Context, principal *models.Principal, product *models.Product) (*models.Product, error) {
	ctx, span := tracer.Start(ctx, "ProductService.CreateProduct")
	defer span.End()

	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if err := s.checkProduct(product); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, internal("create product", err)
	}
	span.SetAttributes(attribute.String("product.id", product.ID.Hex()))
	return product, nil
}

// UpdateProduct replaces the product stored under id.
func (s *ProductService) UpdateProduct(ctx context.Context, principal *models.Principal, id string, product *models.Product) (*models.Product, error) {
	ctx, span := tracer.Start(ctx, "ProductService.UpdateProduct")
	defer span.End()

	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	oid, err := ParseID("product", id)
	if err != nil {
		return nil, err
	}
	if err := s.checkProduct(product); err != nil {
		return nil, err
	}
	product.ID = oid
	if err := s.repo.Update(ctx, product); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("product %s", id)
		}
		return nil, internal("update product", err)
	}
	return product, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, principal *models.Principal, id string) error {
	ctx, span := tracer.Start(ctx, "ProductService.DeleteProduct")
	defer span.End()

	if err := requireAdmin(principal); err != nil {
		return err
	}
	oid, err := ParseID("product", id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, oid); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound("product %s", id)
		}
		return internal("delete product", err)
	}
	return nil
}

// ListFlashSales returns the flash sales whose end date is still ahead,
// newest first and capped at FlashSaleLimit. With all set it returns every
// flash sale regardless of end date.
func (s *ProductService) ListFlashSales(ctx context.Context, all bool) ([]models.Product, error) {
	ctx, span := tracer.Start(ctx, "ProductService.ListFlashSales")
	defer span.End()

	sales, err := s.repo.GetAll(ctx, models.ProductFilter{Type: models.ProductTypeFlashSale})
	if err != nil {
		return nil, internal("list flash sales", err)
	}
	if all {
		return sales, nil
	}

	now := s.now()
	active := make([]models.Product, 0, len(sales))
	for i := range sales {
		if sales[i].IsActiveFlashSale(now) {
			active = append(active, sales[i])
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].CreatedAt.After(active[j].CreatedAt)
	})
	if len(active) > FlashSaleLimit {
		active = active[:FlashSaleLimit]
	}
	return active, nil
}

// GetFlashSale retrieves a flash sale by ID. Products of other types are not found.
func (s *ProductService) GetFlashSale(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.Type != models.ProductTypeFlashSale {
		return nil, notFound("flash sale %s", id)
	}
	return product, nil
}

// CreateFlashSale stores a product typed as a flash sale.
func (s *ProductService) CreateFlashSale(ctx context.Context, principal *models.Principal, sale *models.Product) (*models.Product, error) {
	sale.Type = models.ProductTypeFlashSale
	return s.CreateProduct(ctx, principal, sale)
}

// UpdateFlashSale replaces an existing flash sale.
func (s *ProductService) UpdateFlashSale(ctx context.Context, principal *models.Principal, id string, sale *models.Product) (*models.Product, error) {
	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if _, err := s.GetFlashSale(ctx, id); err != nil {
		return nil, err
	}
	sale.Type = models.ProductTypeFlashSale
	return s.UpdateProduct(ctx, principal, id, sale)
}

// DeleteFlashSale removes a flash sale.
func (s *ProductService) DeleteFlashSale(ctx context.Context, principal *models.Principal, id string) error {
	if err := requireAdmin(principal); err != nil {
		return err
	}
	if _, err := s.GetFlashSale(ctx, id); err != nil {
		return err
	}
	return s.DeleteProduct(ctx, principal, id)
}

// Search matches query against product titles and descriptions.
func (s *ProductService) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	ctx, span := tracer.Start(ctx, "ProductService.Search")
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, badRequest("search query is required")
	}
	span.SetAttributes(attribute.String("search.query", query))

	products, err := s.repo.Search(ctx, query, MaxSearchResults)
	if err != nil {
		return nil, internal("search products", err)
	}
	results := make([]models.SearchResult, 0, len(products))
	for _, p := range products {
		results = append(results, models.SearchResult{
			ID:          p.ID.Hex(),
			Title:       p.Title,
			Description: p.Description,
			Price:       p.Price,
			ImageURL:    p.ImageURL,
			CategoryID:  p.Category,
		})
	}
	if len(results) > MaxSearchResults {
		results = results[:MaxSearchResults]
	}
	return results, nil
}
