package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/repositories"
)

// CategoryService handles the category tree.
type CategoryService struct {
	repo repositories.CategoryRepository
}

// NewCategoryService creates a new CategoryService.
func NewCategoryService(repo repositories.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// ListCategories retrieves every category.
func (s *CategoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	ctx, span := tracer.Start(ctx, "CategoryService.ListCategories")
	defer span.End()

	categories, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, internal("list categories", err)
	}
	return categories, nil
}

// GetCategory retrieves a category by its ID.
func (s *CategoryService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	ctx, span := tracer.Start(ctx, "CategoryService.GetCategory")
	defer span.End()

	oid, err := ParseID("category", id)
	if err != nil {
		return nil, err
	}
	category, err := s.repo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("category %s", id)
		}
		return nil, internal("get category", err)
	}
	return category, nil
}

// ListSubcategories returns the direct children of parentID.
func (s *CategoryService) ListSubcategories(ctx context.Context, parentID string) ([]models.Category, error) {
	ctx, span := tracer.Start(ctx, "CategoryService.ListSubcategories")
	defer span.End()

	oid, err := ParseID("category", parentID)
	if err != nil {
		return nil, err
	}
	children, err := s.repo.GetChildren(ctx, oid)
	if err != nil {
		return nil, internal("list subcategories", err)
	}
	return children, nil
}

// CreateCategory stores a new category. The parent is not checked for existence.
func (s *CategoryService) CreateCategory(ctx context.Context, principal *models.Principal, category *models.Category) (*models.Category, error) {
	ctx, span := tracer.Start(ctx, "CategoryService.CreateCategory")
	defer span.End()

	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	category.Name = strings.TrimSpace(category.Name)
	if err := validate.Struct(category); err != nil {
		return nil, validationError(err)
	}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, internal("create category", err)
	}
	return category, nil
}
