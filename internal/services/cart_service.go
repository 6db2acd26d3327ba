package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartService manages the single cart each user owns.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// cartOwner picks whose cart a request addresses. An explicit userID must be
// the caller's own unless the caller is an admin.
func cartOwner(principal *models.Principal, userID string) (primitive.ObjectID, error) {
	if principal == nil {
		return primitive.NilObjectID, fmt.Errorf("%w: login required", ErrUnauthorized)
	}
	if strings.TrimSpace(userID) == "" {
		return principal.UserID, nil
	}
	oid, err := ParseID("user", userID)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if !principal.CanActFor(oid) {
		return primitive.NilObjectID, fmt.Errorf("%w: cannot access another user's cart", ErrForbidden)
	}
	return oid, nil
}

// GetCart returns the populated cart. A user without a cart gets an empty one.
func (s *CartService) GetCart(ctx context.Context, principal *models.Principal, userID string) (*models.CartView, error) {
	ctx, span := tracer.Start(ctx, "CartService.GetCart")
	defer span.End()

	owner, err := cartOwner(principal, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, owner)
}

func (s *CartService) view(ctx context.Context, owner primitive.ObjectID) (*models.CartView, error) {
	cart, err := s.cartRepo.GetByUserID(ctx, owner)
	if errors.Is(err, repositories.ErrNotFound) {
		return &models.CartView{Items: []models.CartLine{}}, nil
	}
	if err != nil {
		return nil, internal("get cart", err)
	}

	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, internal("populate cart", err)
	}
	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := make([]models.CartLine, 0, len(cart.Items))
	for _, item := range cart.Items {
		line := models.CartLine{ProductID: item.ProductID.Hex(), Quantity: item.Quantity}
		if p, ok := byID[item.ProductID]; ok {
			line.Product = p
		} else {
			line.Product = struct{}{}
		}
		lines = append(lines, line)
	}

	updated := cart.UpdatedAt
	return &models.CartView{
		ID:        cart.ID.Hex(),
		UserID:    cart.UserID.Hex(),
		Items:     lines,
		UpdatedAt: &updated,
	}, nil
}

// AddItem adds quantity of a product, merging with an existing line.
func (s *CartService) AddItem(ctx context.Context, principal *models.Principal, userID, productID string, quantity int) (*models.CartView, error) {
	ctx, span := tracer.Start(ctx, "CartService.AddItem")
	defer span.End()

	owner, err := cartOwner(principal, userID)
	if err != nil {
		return nil, err
	}
	pid, err := ParseID("product", productID)
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, badRequest("quantity must be at least 1")
	}
	if _, err := s.productRepo.GetByID(ctx, pid); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("product %s", productID)
		}
		return nil, internal("get product", err)
	}

	if err := s.cartRepo.AddItem(ctx, owner, pid, quantity); err != nil {
		return nil, internal("add cart item", err)
	}
	return s.view(ctx, owner)
}

// UpdateItem sets the quantity of a product already in the cart.
func (s *CartService) UpdateItem(ctx context.Context, principal *models.Principal, userID, productID string, quantity int) (*models.CartView, error) {
	ctx, span := tracer.Start(ctx, "CartService.UpdateItem")
	defer span.End()

	owner, err := cartOwner(principal, userID)
	if err != nil {
		return nil, err
	}
	pid, err := ParseID("product", productID)
	if err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, badRequest("quantity must be at least 1")
	}
	if err := s.cartRepo.SetItemQuantity(ctx, owner, pid, quantity); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("product %s is not in the cart", productID)
		}
		return nil, internal("update cart item", err)
	}
	return s.view(ctx, owner)
}

// RemoveItem drops a product from the cart. Removing an absent product is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, principal *models.Principal, userID, productID string) (*models.CartView, error) {
	ctx, span := tracer.Start(ctx, "CartService.RemoveItem")
	defer span.End()

	owner, err := cartOwner(principal, userID)
	if err != nil {
		return nil, err
	}
	pid, err := ParseID("product", productID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.RemoveItem(ctx, owner, pid); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("cart not found")
		}
		return nil, internal("remove cart item", err)
	}
	return s.view(ctx, owner)
}

// ClearCart empties the cart.
func (s *CartService) ClearCart(ctx context.Context, principal *models.Principal, userID string) (*models.CartView, error) {
	ctx, span := tracer.Start(ctx, "CartService.ClearCart")
	defer span.End()

	owner, err := cartOwner(principal, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.Clear(ctx, owner); err != nil {
		return nil, internal("clear cart", err)
	}
	return s.view(ctx, owner)
}
