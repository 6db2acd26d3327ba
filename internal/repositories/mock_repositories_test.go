package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMockUserRepository_EmailIsUniqueIgnoringCase(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockUserRepository()

	require.NoError(t, repo.Create(ctx, &models.User{Name: "A", Email: "a@example.com"}))
	err := repo.Create(ctx, &models.User{Name: "B", Email: "A@Example.com"})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	_, err = repo.GetByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestMockUserRepository_UpdateUnchangedSucceeds(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockUserRepository()
	user := &models.User{Name: "A", Email: "a@example.com"}
	require.NoError(t, repo.Create(ctx, user))

	same := "a@example.com"
	require.NoError(t, repo.Update(ctx, user.ID, models.UserUpdate{Email: &same}))
	require.NoError(t, repo.Update(ctx, user.ID, models.UserUpdate{Email: &same}))

	assert.ErrorIs(t, repo.Update(ctx, primitive.NewObjectID(), models.UserUpdate{Email: &same}), repositories.ErrNotFound)
}

func TestMockCartRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockCartRepository()
	user := primitive.NewObjectID()
	p1, p2 := primitive.NewObjectID(), primitive.NewObjectID()

	_, err := repo.GetByUserID(ctx, user)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, repo.RemoveItem(ctx, user, p1), repositories.ErrNotFound)
	assert.NoError(t, repo.RemoveItems(ctx, user, []primitive.ObjectID{p1}))
	assert.NoError(t, repo.Clear(ctx, user))

	require.NoError(t, repo.AddItem(ctx, user, p1, 1))
	require.NoError(t, repo.AddItem(ctx, user, p1, 2))
	require.NoError(t, repo.AddItem(ctx, user, p2, 1))

	cart, err := repo.GetByUserID(ctx, user)
	require.NoError(t, err)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, models.CartItem{ProductID: p1, Quantity: 3}, cart.Items[0])

	assert.ErrorIs(t, repo.SetItemQuantity(ctx, user, primitive.NewObjectID(), 5), repositories.ErrNotFound)
	require.NoError(t, repo.SetItemQuantity(ctx, user, p2, 5))

	require.NoError(t, repo.RemoveItems(ctx, user, []primitive.ObjectID{p1}))
	cart, err = repo.GetByUserID(ctx, user)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)

	require.NoError(t, repo.Clear(ctx, user))
	cart, err = repo.GetByUserID(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestMockOrderRepository_NormalizesLegacyOrders(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockOrderRepository()
	product := primitive.NewObjectID()

	legacy := &models.Order{UserID: primitive.NewObjectID(), LegacyProductID: &product, LegacyQuantity: 4, Status: models.OrderStatusPending}
	require.NoError(t, repo.Create(ctx, legacy))

	got, err := repo.GetByID(ctx, legacy.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, product, got.Items[0].ProductID)
	assert.Equal(t, 4, got.Items[0].Quantity)
	assert.Nil(t, got.LegacyProductID)

	require.NoError(t, repo.UpdateStatus(ctx, legacy.ID, models.OrderStatusCancelled))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, primitive.NewObjectID(), models.OrderStatusCancelled), repositories.ErrNotFound)
}

func TestMockOrderEventRepository_RejectsRepeatedMessages(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockOrderEventRepository()

	require.NoError(t, repo.Save(ctx, &models.OrderEvent{MessageID: "m-1", OrderID: "o-1"}))
	assert.ErrorIs(t, repo.Save(ctx, &models.OrderEvent{MessageID: "m-1", OrderID: "o-1"}), repositories.ErrDuplicate)
	require.NoError(t, repo.Save(ctx, &models.OrderEvent{MessageID: "m-2", OrderID: "o-1"}))
	require.NoError(t, repo.Save(ctx, &models.OrderEvent{MessageID: "m-3", OrderID: "o-2"}))

	events, err := repo.GetByOrderID(ctx, "o-1")
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestMockCategoryRepository_Children(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockCategoryRepository()

	parent := &models.Category{Name: "Parent"}
	require.NoError(t, repo.Create(ctx, parent))
	require.NoError(t, repo.Create(ctx, &models.Category{Name: "Zeta", ParentID: &parent.ID}))
	require.NoError(t, repo.Create(ctx, &models.Category{Name: "Alpha", ParentID: &parent.ID}))

	children, err := repo.GetChildren(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "Alpha", children[0].Name)
}

func TestMockProductRepository_CreateAssignsIdentity(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMockProductRepository()

	original := &models.Product{Title: "Original"}
	require.NoError(t, repo.Create(ctx, original))

	forged := time.Now().Add(24 * time.Hour)
	intruder := &models.Product{ID: original.ID, Title: "Intruder", CreatedAt: forged}
	require.NoError(t, repo.Create(ctx, intruder))

	assert.NotEqual(t, original.ID, intruder.ID)
	assert.True(t, intruder.CreatedAt.Before(forged))

	stored, err := repo.GetByID(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", stored.Title)

	all, err := repo.GetAll(ctx, models.ProductFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Intruder", all[0].Title)
}
