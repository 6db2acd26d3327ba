package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/repositories"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testAssetPrefix = "https://res.cloudinary.com/demo/"

func TestProductService_GetProduct(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	productService := services.NewProductService(mockRepo, testAssetPrefix)

	id := primitive.NewObjectID()
	expected := &models.Product{ID: id, Title: "Laptop", Price: 1200}
	mockRepo.On("GetByID", mock.Anything, id).Return(expected, nil).Once()

	product, err := productService.GetProduct(ctx, id.Hex())
	require.NoError(t, err)
	assert.Equal(t, expected, product)

	missing := primitive.NewObjectID()
	mockRepo.On("GetByID", mock.Anything, missing).Return(nil, repositories.ErrNotFound).Once()
	_, err = productService.GetProduct(ctx, missing.Hex())
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = productService.GetProduct(ctx, "not-an-id")
	assert.ErrorIs(t, err, services.ErrBadRequest)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductStoreFailure(t *testing.T) {
	mockRepo := new(MockProductRepository)
	productService := services.NewProductService(mockRepo, "")

	id := primitive.NewObjectID()
	mockRepo.On("GetByID", mock.Anything, id).Return(nil, errors.New("connection reset")).Once()

	_, err := productService.GetProduct(context.Background(), id.Hex())
	assert.ErrorIs(t, err, services.ErrInternal)
	assert.Equal(t, "Internal server error", services.Message(err))
}

func TestProductService_CreateProductRequiresAdmin(t *testing.T) {
	mockRepo := new(MockProductRepository)
	productService := services.NewProductService(mockRepo, testAssetPrefix)
	product := &models.Product{Title: "Laptop", Price: 10}

	_, err := productService.CreateProduct(context.Background(), nil, product)
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	_, err = productService.CreateProduct(context.Background(), userPrincipal(primitive.NewObjectID()), product)
	assert.ErrorIs(t, err, services.ErrForbidden)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductService_CreateProductValidatesImages(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockProductRepository)
	productService := services.NewProductService(mockRepo, testAssetPrefix)
	admin := adminPrincipal()

	_, err := productService.CreateProduct(ctx, admin, &models.Product{
		Title:    "Laptop",
		Price:    10,
		ImageURL: "https://evil.example.com/laptop.png",
	})
	assert.ErrorIs(t, err, services.ErrBadRequest)

	_, err = productService.CreateProduct(ctx, admin, &models.Product{
		Title:  "Laptop",
		Price:  10,
		Images: []string{testAssetPrefix + "a.png", "https://elsewhere.example.com/b.png"},
	})
	assert.ErrorIs(t, err, services.ErrBadRequest)

	_, err = productService.CreateProduct(ctx, admin, &models.Product{Price: 10})
	assert.ErrorIs(t, err, services.ErrBadRequest, "title is required")

	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Product")).Return(nil).Once()
	created, err := productService.CreateProduct(ctx, admin, &models.Product{
		Title:    "  Laptop ",
		Price:    10,
		ImageURL: testAssetPrefix + "laptop.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "Laptop", created.Title)
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateAndDeleteProduct(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockProductRepository()
	productService := services.NewProductService(repo, "")
	admin := adminPrincipal()

	created, err := productService.CreateProduct(ctx, admin, &models.Product{Title: "Mouse", Price: 25})
	require.NoError(t, err)

	updated, err := productService.UpdateProduct(ctx, admin, created.ID.Hex(), &models.Product{Title: "Wireless Mouse", Price: 30})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	stored, err := productService.GetProduct(ctx, created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Wireless Mouse", stored.Title)
	assert.Equal(t, 30.0, stored.Price)

	_, err = productService.UpdateProduct(ctx, admin, primitive.NewObjectID().Hex(), &models.Product{Title: "X", Price: 1})
	assert.ErrorIs(t, err, services.ErrNotFound)

	require.NoError(t, productService.DeleteProduct(ctx, admin, created.ID.Hex()))
	_, err = productService.GetProduct(ctx, created.ID.Hex())
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.ErrorIs(t, productService.DeleteProduct(ctx, admin, created.ID.Hex()), services.ErrNotFound)
}

func TestProductService_ListFlashSalesFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockProductRepository()
	productService := services.NewProductService(repo, "")

	now := time.Now()
	future := now.Add(24 * time.Hour)
	past := now.Add(-time.Hour)
	// Created oldest first.
	seed := []models.Product{
		{Title: "expired", Type: models.ProductTypeFlashSale, EndDate: models.NewSaleEnd(past)},
		{Title: "old active", Type: models.ProductTypeFlashSale, EndDate: models.NewSaleEnd(future)},
		{Title: "no end date", Type: models.ProductTypeFlashSale},
		{Title: "bad end date", Type: models.ProductTypeFlashSale, EndDate: &models.SaleEnd{Raw: "not-a-date"}},
		{Title: "regular", Type: models.ProductTypeForYou, EndDate: models.NewSaleEnd(future)},
		{Title: "new active", Type: models.ProductTypeFlashSale, EndDate: models.NewSaleEnd(future)},
	}
	for i := range seed {
		require.NoError(t, repo.Create(ctx, &seed[i]))
	}

	sales, err := productService.ListFlashSales(ctx, false)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, "new active", sales[0].Title)
	assert.Equal(t, "old active", sales[1].Title)

	all, err := productService.ListFlashSales(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestProductService_ListFlashSalesCapped(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockProductRepository()
	productService := services.NewProductService(repo, "")

	future := time.Now().Add(time.Hour)
	for i := 0; i < services.FlashSaleLimit+5; i++ {
		require.NoError(t, repo.Create(ctx, &models.Product{
			Title:   fmt.Sprintf("sale %d", i),
			Type:    models.ProductTypeFlashSale,
			EndDate: models.NewSaleEnd(future),
		}))
	}

	sales, err := productService.ListFlashSales(ctx, false)
	require.NoError(t, err)
	assert.Len(t, sales, services.FlashSaleLimit)
	assert.Equal(t, fmt.Sprintf("sale %d", services.FlashSaleLimit+4), sales[0].Title)
}

func TestProductService_FlashSaleLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockProductRepository()
	productService := services.NewProductService(repo, "")
	admin := adminPrincipal()

	_, err := productService.CreateFlashSale(ctx, admin, &models.Product{Title: "No End", Price: 5})
	assert.ErrorIs(t, err, services.ErrBadRequest, "flash sales need an end date")

	end := time.Now().Add(time.Hour)
	sale, err := productService.CreateFlashSale(ctx, admin, &models.Product{Title: "Deal", Price: 5, EndDate: models.NewSaleEnd(end)})
	require.NoError(t, err)
	assert.Equal(t, models.ProductTypeFlashSale, sale.Type)

	regular, err := productService.CreateProduct(ctx, admin, &models.Product{Title: "Regular", Price: 5})
	require.NoError(t, err)
	_, err = productService.GetFlashSale(ctx, regular.ID.Hex())
	assert.ErrorIs(t, err, services.ErrNotFound)

	updated, err := productService.UpdateFlashSale(ctx, admin, sale.ID.Hex(), &models.Product{Title: "Better Deal", Price: 4, EndDate: models.NewSaleEnd(end)})
	require.NoError(t, err)
	assert.Equal(t, "Better Deal", updated.Title)

	assert.ErrorIs(t, productService.DeleteFlashSale(ctx, admin, regular.ID.Hex()), services.ErrNotFound)
	require.NoError(t, productService.DeleteFlashSale(ctx, admin, sale.ID.Hex()))
	_, err = productService.GetFlashSale(ctx, sale.ID.Hex())
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestProductService_SearchIsCaseInsensitiveAndCapped(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockProductRepository()
	productService := services.NewProductService(repo, "")

	for i := 0; i < 25; i++ {
		require.NoError(t, repo.Create(ctx, &models.Product{Title: fmt.Sprintf("Gaming Laptop %d", i), Category: "electronics"}))
	}
	require.NoError(t, repo.Create(ctx, &models.Product{Title: "Desk", Description: "fits a LAPTOP"}))
	require.NoError(t, repo.Create(ctx, &models.Product{Title: "Chair"}))

	results, err := productService.Search(ctx, "laptop")
	require.NoError(t, err)
	assert.Len(t, results, services.MaxSearchResults)

	results, err = productService.Search(ctx, "fits a laptop")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Desk", results[0].Title)

	results, err = productService.Search(ctx, "nothing matches")
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = productService.Search(ctx, "   ")
	assert.ErrorIs(t, err, services.ErrBadRequest)
}
