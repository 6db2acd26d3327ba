package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/repositories"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type orderFixture struct {
	service   *services.OrderService
	store     *repositories.Store
	publisher *recordingPublisher
	user      *models.Principal
	widget    models.Product
	gadget    models.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	f := &orderFixture{
		store:     repositories.NewMemoryStore(),
		publisher: &recordingPublisher{},
		user:      userPrincipal(primitive.NewObjectID()),
		widget:    models.Product{Title: "Widget", Price: 19.99},
		gadget:    models.Product{Title: "Gadget", Price: 0.1},
	}
	require.NoError(t, f.store.Products.Create(context.Background(), &f.widget))
	require.NoError(t, f.store.Products.Create(context.Background(), &f.gadget))
	f.service = services.NewOrderService(f.store.Orders, f.store.Products, f.store.Carts, f.store.OrderEvents, f.publisher)
	return f
}

func shipping() *models.ShippingDetails {
	return &models.ShippingDetails{
		Name:    "Ada",
		City:    "Lahore",
		Address: "1 Mall Road",
		Town:    "Gulberg",
		Phone:   "03001234567",
	}
}

func intPtr(v int) *int { return &v }

func TestOrderService_CreateOrderSnapshotsPricesAndTotal(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)

	order, err := f.service.CreateOrder(ctx, f.user, services.CreateOrderInput{
		Items: []services.OrderLineInput{
			{ProductID: f.widget.ID.Hex(), Quantity: 3},
			{ProductID: f.gadget.ID.Hex(), Quantity: 3},
		},
		PaymentMethod:   models.PaymentMethodCOD,
		ShippingDetails: shipping(),
	})
	require.NoError(t, err)

	assert.Equal(t, f.user.UserID, order.UserID)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 19.99, order.Items[0].Price)
	assert.Equal(t, 60.27, order.Total)

	f.widget.Price = 99
	require.NoError(t, f.store.Products.Update(ctx, &f.widget))
	stored, err := f.service.GetOrderForUser(ctx, f.user, order.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 19.99, stored.Items[0].Price, "price is captured at order time")

	events := f.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, models.OrderEventCreated, events[0].Type)
	assert.Equal(t, order.ID.Hex(), events[0].OrderID)
	assert.NotEmpty(t, events[0].MessageID)
}

func TestOrderService_CreateOrderMergesDuplicateLines(t *testing.T) {
	f := newOrderFixture(t)

	order, err := f.service.CreateOrder(context.Background(), f.user, services.CreateOrderInput{
		Items: []services.OrderLineInput{
			{ProductID: f.widget.ID.Hex(), Quantity: 1},
			{ProductID: f.widget.ID.Hex(), Quantity: 2},
		},
		PaymentMethod:   models.PaymentMethodOnline,
		ShippingDetails: shipping(),
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
}

func TestOrderService_CreateOrderLegacyForm(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)

	_, err := f.service.CreateOrder(ctx, f.user, services.CreateOrderInput{
		ProductID:       f.widget.ID.Hex(),
		Quantity:        intPtr(2),
		PaymentMethod:   models.PaymentMethodCOD,
		ShippingDetails: shipping(),
	})
	assert.ErrorIs(t, err, services.ErrBadRequest, "the single-line form requires a status")

	order, err := f.service.CreateOrder(ctx, f.user, services.CreateOrderInput{
		ProductID:       f.widget.ID.Hex(),
		Quantity:        intPtr(2),
		PaymentMethod:   models.PaymentMethodCOD,
		ShippingDetails: shipping(),
		Status:          models.OrderStatusProcessing,
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, models.OrderStatusProcessing, order.Status)
	assert.Equal(t, 39.98, order.Total)
}

func TestOrderService_CreateOrderValidation(t *testing.T) {
	f := newOrderFixture(t)
	valid := func() services.CreateOrderInput {
		return services.CreateOrderInput{
			Items:           []services.OrderLineInput{{ProductID: f.widget.ID.Hex(), Quantity: 1}},
			PaymentMethod:   models.PaymentMethodCOD,
			ShippingDetails: shipping(),
		}
	}

	cases := map[string]func(in *services.CreateOrderInput){
		"no items":         func(in *services.CreateOrderInput) { in.Items = nil },
		"bad payment":      func(in *services.CreateOrderInput) { in.PaymentMethod = "card" },
		"no shipping":      func(in *services.CreateOrderInput) { in.ShippingDetails = nil },
		"incomplete ship":  func(in *services.CreateOrderInput) { in.ShippingDetails.Phone = "" },
		"zero quantity":    func(in *services.CreateOrderInput) { in.Items[0].Quantity = 0 },
		"bad product id":   func(in *services.CreateOrderInput) { in.Items[0].ProductID = "xyz" },
		"invalid status":   func(in *services.CreateOrderInput) { in.Status = "Lost" },
		"lowercase status": func(in *services.CreateOrderInput) { in.Status = "pending" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := valid()
			mutate(&in)
			_, err := f.service.CreateOrder(context.Background(), f.user, in)
			assert.ErrorIs(t, err, services.ErrBadRequest)
		})
	}

	in := valid()
	in.Items[0].ProductID = primitive.NewObjectID().Hex()
	_, err := f.service.CreateOrder(context.Background(), f.user, in)
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = f.service.CreateOrder(context.Background(), nil, valid())
	assert.ErrorIs(t, err, services.ErrUnauthorized)

	assert.Empty(t, f.publisher.Events())
}

func TestOrderService_CreateOrderPrunesCart(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)

	require.NoError(t, f.store.Carts.AddItem(ctx, f.user.UserID, f.widget.ID, 2))
	require.NoError(t, f.store.Carts.AddItem(ctx, f.user.UserID, f.gadget.ID, 1))

	_, err := f.service.CreateOrder(ctx, f.user, services.CreateOrderInput{
		Items:           []services.OrderLineInput{{ProductID: f.widget.ID.Hex(), Quantity: 2}},
		PaymentMethod:   models.PaymentMethodCOD,
		ShippingDetails: shipping(),
	})
	require.NoError(t, err)

	cart, err := f.store.Carts.GetByUserID(ctx, f.user.UserID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, f.gadget.ID, cart.Items[0].ProductID)
}

func TestOrderService_PublishFailureDoesNotFailCheckout(t *testing.T) {
	f := newOrderFixture(t)
	f.publisher.err = errors.New("broker down")

	order, err := f.service.CreateOrder(context.Background(), f.user, services.CreateOrderInput{
		Items:           []services.OrderLineInput{{ProductID: f.widget.ID.Hex(), Quantity: 1}},
		PaymentMethod:   models.PaymentMethodCOD,
		ShippingDetails: shipping(),
	})
	require.NoError(t, err)
	assert.False(t, order.ID.IsZero())
}

func TestOrderService_OrdersAreScopedToTheirOwner(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)

	order, err := f.service.CreateOrder(ctx, f.user, services.CreateOrderInput{
		Items:           []services.OrderLineInput{{ProductID: f.widget.ID.Hex(), Quantity: 1}},
		PaymentMethod:   models.PaymentMethodCOD,
		ShippingDetails: shipping(),
	})
	require.NoError(t, err)

	stranger := userPrincipal(primitive.NewObjectID())
	_, err = f.service.GetOrderForUser(ctx, stranger, order.ID.Hex())
	assert.ErrorIs(t, err, services.ErrNotFound)

	orders, err := f.service.ListOrdersForUser(ctx, stranger)
	require.NoError(t, err)
	assert.Empty(t, orders)

	orders, err = f.service.ListOrdersForUser(ctx, f.user)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	_, err = f.service.ListAllOrders(ctx, f.user)
	assert.ErrorIs(t, err, services.ErrForbidden)
	all, err := f.service.ListAllOrders(ctx, adminPrincipal())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	admin := adminPrincipal()

	order, err := f.service.CreateOrder(ctx, f.user, services.CreateOrderInput{
		Items:           []services.OrderLineInput{{ProductID: f.widget.ID.Hex(), Quantity: 1}},
		PaymentMethod:   models.PaymentMethodCOD,
		ShippingDetails: shipping(),
	})
	require.NoError(t, err)

	_, err = f.service.UpdateOrderStatus(ctx, admin, order.ID.Hex(), "Teleported")
	assert.ErrorIs(t, err, services.ErrBadRequest)
	unchanged, err := f.service.GetOrder(ctx, admin, order.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, unchanged.Status)

	_, err = f.service.UpdateOrderStatus(ctx, f.user, order.ID.Hex(), models.OrderStatusShipped)
	assert.ErrorIs(t, err, services.ErrForbidden)

	updated, err := f.service.UpdateOrderStatus(ctx, admin, order.ID.Hex(), models.OrderStatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, updated.Status)

	back, err := f.service.UpdateOrderStatus(ctx, admin, order.ID.Hex(), models.OrderStatusPending)
	require.NoError(t, err, "transitions are not enforced")
	assert.Equal(t, models.OrderStatusPending, back.Status)

	_, err = f.service.UpdateOrderStatus(ctx, admin, primitive.NewObjectID().Hex(), models.OrderStatusShipped)
	assert.ErrorIs(t, err, services.ErrNotFound)

	events := f.publisher.Events()
	require.Len(t, events, 3)
	assert.Equal(t, models.OrderEventStatusChanged, events[1].Type)
	assert.Equal(t, models.OrderStatusDelivered, events[1].Status)
}

func TestOrderService_ListOrderEvents(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	orderID := primitive.NewObjectID().Hex()

	require.NoError(t, f.store.OrderEvents.Save(ctx, &models.OrderEvent{MessageID: "m-1", Type: models.OrderEventCreated, OrderID: orderID}))

	events, err := f.service.ListOrderEvents(ctx, adminPrincipal(), orderID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "m-1", events[0].MessageID)

	_, err = f.service.ListOrderEvents(ctx, f.user, orderID)
	assert.ErrorIs(t, err, services.ErrForbidden)
}
