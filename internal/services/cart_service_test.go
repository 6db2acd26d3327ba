package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/repositories"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type cartFixture struct {
	service  *services.CartService
	carts    *repositories.MockCartRepository
	products *repositories.MockProductRepository
	user     *models.Principal
	laptop   models.Product
	mouse    models.Product
}

func newCartFixture(t *testing.T) *cartFixture {
	t.Helper()
	f := &cartFixture{
		carts:    repositories.NewMockCartRepository(),
		products: repositories.NewMockProductRepository(),
		user:     userPrincipal(primitive.NewObjectID()),
		laptop:   models.Product{Title: "Laptop", Price: 1200},
		mouse:    models.Product{Title: "Mouse", Price: 25},
	}
	require.NoError(t, f.products.Create(context.Background(), &f.laptop))
	require.NoError(t, f.products.Create(context.Background(), &f.mouse))
	f.service = services.NewCartService(f.carts, f.products)
	return f
}

func TestCartService_GetCartWithoutCart(t *testing.T) {
	f := newCartFixture(t)

	cart, err := f.service.GetCart(context.Background(), f.user, "")
	require.NoError(t, err)
	assert.NotNil(t, cart.Items)
	assert.Empty(t, cart.Items)
}

func TestCartService_SequentialAddsMerge(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t)

	_, err := f.service.AddItem(ctx, f.user, "", f.laptop.ID.Hex(), 2)
	require.NoError(t, err)
	cart, err := f.service.AddItem(ctx, f.user, "", f.laptop.ID.Hex(), 3)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, f.laptop.ID.Hex(), cart.Items[0].ProductID)
	product, ok := cart.Items[0].Product.(models.Product)
	require.True(t, ok)
	assert.Equal(t, "Laptop", product.Title)
}

func TestCartService_ConcurrentAddsMerge(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.AddItem(ctx, f.user, "", f.mouse.ID.Hex(), 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	cart, err := f.carts.GetByUserID(ctx, f.user.UserID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 20, cart.Items[0].Quantity)
}

func TestCartService_AddItemValidation(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t)

	_, err := f.service.AddItem(ctx, f.user, "", f.laptop.ID.Hex(), 0)
	assert.ErrorIs(t, err, services.ErrBadRequest)

	_, err = f.service.AddItem(ctx, f.user, "", "bad-id", 1)
	assert.ErrorIs(t, err, services.ErrBadRequest)

	_, err = f.service.AddItem(ctx, f.user, "", primitive.NewObjectID().Hex(), 1)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = f.service.AddItem(ctx, nil, "", f.laptop.ID.Hex(), 1)
	assert.ErrorIs(t, err, services.ErrUnauthorized)
}

func TestCartService_OtherUsersCart(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t)
	other := primitive.NewObjectID()

	_, err := f.service.AddItem(ctx, f.user, other.Hex(), f.laptop.ID.Hex(), 1)
	assert.ErrorIs(t, err, services.ErrForbidden)

	cart, err := f.service.AddItem(ctx, adminPrincipal(), other.Hex(), f.laptop.ID.Hex(), 1)
	require.NoError(t, err)
	assert.Equal(t, other.Hex(), cart.UserID)

	_, err = f.service.GetCart(ctx, f.user, f.user.UserID.Hex())
	assert.NoError(t, err, "naming yourself explicitly is allowed")
}

func TestCartService_UpdateItem(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t)

	_, err := f.service.AddItem(ctx, f.user, "", f.laptop.ID.Hex(), 1)
	require.NoError(t, err)

	cart, err := f.service.UpdateItem(ctx, f.user, "", f.laptop.ID.Hex(), 7)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 7, cart.Items[0].Quantity)

	_, err = f.service.UpdateItem(ctx, f.user, "", f.mouse.ID.Hex(), 2)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = f.service.UpdateItem(ctx, f.user, "", f.laptop.ID.Hex(), 0)
	assert.ErrorIs(t, err, services.ErrBadRequest)
}

func TestCartService_RemoveItem(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t)

	_, err := f.service.RemoveItem(ctx, f.user, "", f.laptop.ID.Hex())
	assert.ErrorIs(t, err, services.ErrNotFound, "no cart yet")

	_, err = f.service.AddItem(ctx, f.user, "", f.laptop.ID.Hex(), 1)
	require.NoError(t, err)
	_, err = f.service.AddItem(ctx, f.user, "", f.mouse.ID.Hex(), 1)
	require.NoError(t, err)

	cart, err := f.service.RemoveItem(ctx, f.user, "", primitive.NewObjectID().Hex())
	require.NoError(t, err, "removing an absent product is a no-op")
	assert.Len(t, cart.Items, 2)

	cart, err = f.service.RemoveItem(ctx, f.user, "", f.laptop.ID.Hex())
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, f.mouse.ID.Hex(), cart.Items[0].ProductID)
}

func TestCartService_DeletedProductRendersEmpty(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t)

	_, err := f.service.AddItem(ctx, f.user, "", f.laptop.ID.Hex(), 1)
	require.NoError(t, err)
	require.NoError(t, f.products.Delete(ctx, f.laptop.ID))

	cart, err := f.service.GetCart(ctx, f.user, "")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, struct{}{}, cart.Items[0].Product)
}

func TestCartService_ClearCart(t *testing.T) {
	ctx := context.Background()
	f := newCartFixture(t)

	_, err := f.service.AddItem(ctx, f.user, "", f.laptop.ID.Hex(), 3)
	require.NoError(t, err)

	cart, err := f.service.ClearCart(ctx, f.user, "")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}
