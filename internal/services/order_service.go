package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/repositories"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/telemetry"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
)

// EventPublisher sends order events to the message bus.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event models.OrderEvent) error
}

// OrderLineInput is one requested order line.
type OrderLineInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderInput is a checkout submission. Either Items is set, or the
// single-line form ProductID/Quantity is used together with an explicit Status.
type CreateOrderInput struct {
	Items           []OrderLineInput        `json:"items"`
	ProductID       string                  `json:"productId"`
	Quantity        *int                    `json:"quantity"`
	PaymentMethod   string                  `json:"paymentMethod"`
	ShippingDetails *models.ShippingDetails `json:"shippingDetails"`
	Status          string                  `json:"status"`
}

func (in *CreateOrderInput) isLegacy() bool {
	return len(in.Items) == 0 && in.ProductID != ""
}

// lines returns the requested lines with repeated products merged.
func (in *CreateOrderInput) lines() ([]OrderLineInput, error) {
	if in.isLegacy() {
		if in.Quantity == nil {
			return nil, badRequest("quantity is required")
		}
		return []OrderLineInput{{ProductID: in.ProductID, Quantity: *in.Quantity}}, nil
	}
	if len(in.Items) == 0 {
		return nil, badRequest("items are required")
	}
	merged := make([]OrderLineInput, 0, len(in.Items))
	index := make(map[string]int, len(in.Items))
	for _, item := range in.Items {
		key := strings.ToLower(strings.TrimSpace(item.ProductID))
		if i, ok := index[key]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[key] = len(merged)
		merged = append(merged, item)
	}
	return merged, nil
}

// OrderService handles checkout and order management.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	cartRepo    repositories.CartRepository
	eventRepo   repositories.OrderEventRepository
	publisher   EventPublisher
}

// NewOrderService creates a new OrderService. publisher may be nil, in which
// case order events are only logged.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository,
	cartRepo repositories.CartRepository, eventRepo repositories.OrderEventRepository, publisher EventPublisher) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		eventRepo:   eventRepo,
		publisher:   publisher,
	}
}

func (s *OrderService) checkSubmission(in *CreateOrderInput) error {
	var missing []string
	if in.isLegacy() {
		if in.Quantity == nil {
			missing = append(missing, "quantity")
		}
		if in.Status == "" {
			missing = append(missing, "status")
		}
	} else if len(in.Items) == 0 {
		missing = append(missing, "items")
	}
	if in.PaymentMethod == "" {
		missing = append(missing, "paymentMethod")
	}
	if in.ShippingDetails == nil {
		missing = append(missing, "shippingDetails")
	}
	if len(missing) > 0 {
		return badRequest("missing required fields: %s", strings.Join(missing, ", "))
	}

	if in.PaymentMethod != models.PaymentMethodCOD && in.PaymentMethod != models.PaymentMethodOnline {
		return badRequest("paymentMethod must be %q or %q", models.PaymentMethodCOD, models.PaymentMethodOnline)
	}
	if in.Status == "" {
		in.Status = models.OrderStatusPending
	}
	if !models.IsValidOrderStatus(in.Status) {
		return badRequest("invalid order status %q", in.Status)
	}
	if err := validate.Struct(in.ShippingDetails); err != nil {
		return validationError(err)
	}
	return nil
}

// CreateOrder turns a checkout submission into an order. Each line records the
// product's current price. The ordered products are then removed from the
// caller's cart and an order.created event is published.
func (s *OrderService) CreateOrder(ctx context.Context, principal *models.Principal, in CreateOrderInput) (*models.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.CreateOrder")
	defer span.End()

	if principal == nil {
		return nil, fmt.Errorf("%w: login required", ErrUnauthorized)
	}
	if err := s.checkSubmission(&in); err != nil {
		return nil, err
	}
	lines, err := in.lines()
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		pid, err := ParseID("product", line.ProductID)
		if err != nil {
			return nil, err
		}
		if line.Quantity < 1 {
			return nil, badRequest("quantity for product %s must be at least 1", line.ProductID)
		}
		product, err := s.productRepo.GetByID(ctx, pid)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, notFound("product %s", line.ProductID)
			}
			return nil, internal("get product", err)
		}
		price := decimal.NewFromFloat(product.Price)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, models.OrderItem{
			ProductID: pid,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})
	}

	order := &models.Order{
		UserID:          principal.UserID,
		Items:           items,
		Total:           total.Round(2).InexactFloat64(),
		PaymentMethod:   in.PaymentMethod,
		ShippingDetails: *in.ShippingDetails,
		Status:          in.Status,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, internal("create order", err)
	}
	span.SetAttributes(attribute.String("order.id", order.ID.Hex()), attribute.Int("order.lines", len(items)))
	telemetry.OrdersCreated.WithLabelValues(order.PaymentMethod).Inc()

	ordered := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		ordered = append(ordered, item.ProductID)
	}
	if err := s.cartRepo.RemoveItems(ctx, principal.UserID, ordered); err != nil {
		slog.WarnContext(ctx, "failed to prune cart after checkout", "order_id", order.ID.Hex(), "error", err)
	}

	s.publish(ctx, models.OrderEventCreated, order)
	return order, nil
}

func (s *OrderService) publish(ctx context.Context, eventType string, order *models.Order) {
	event := models.OrderEvent{
		MessageID:  uuid.NewString(),
		Type:       eventType,
		OrderID:    order.ID.Hex(),
		UserID:     order.UserID.Hex(),
		Status:     order.Status,
		Total:      order.Total,
		OccurredAt: time.Now().UTC(),
	}
	if s.publisher == nil {
		slog.DebugContext(ctx, "no event publisher configured, skipping order event", "type", eventType, "order_id", event.OrderID)
		return
	}
	if err := s.publisher.PublishOrderEvent(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish order event", "type", eventType, "order_id", event.OrderID, "error", err)
	}
}

// ListOrdersForUser returns the caller's orders, newest first.
func (s *OrderService) ListOrdersForUser(ctx context.Context, principal *models.Principal) ([]models.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.ListOrdersForUser")
	defer span.End()

	if principal == nil {
		return nil, fmt.Errorf("%w: login required", ErrUnauthorized)
	}
	orders, err := s.orderRepo.GetByUserID(ctx, principal.UserID)
	if err != nil {
		return nil, internal("list orders", err)
	}
	return orders, nil
}

func (s *OrderService) getOrder(ctx context.Context, id string) (*models.Order, error) {
	oid, err := ParseID("order", id)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.GetByID(ctx, oid)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("order %s", id)
		}
		return nil, internal("get order", err)
	}
	return order, nil
}

// GetOrderForUser returns one of the caller's orders. Orders of other users
// are reported as not found.
func (s *OrderService) GetOrderForUser(ctx context.Context, principal *models.Principal, id string) (*models.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.GetOrderForUser")
	defer span.End()

	if principal == nil {
		return nil, fmt.Errorf("%w: login required", ErrUnauthorized)
	}
	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !principal.CanActFor(order.UserID) {
		return nil, notFound("order %s", id)
	}
	return order, nil
}

// ListAllOrders returns every order for the back office.
func (s *OrderService) ListAllOrders(ctx context.Context, principal *models.Principal) ([]models.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.ListAllOrders")
	defer span.End()

	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		return nil, internal("list all orders", err)
	}
	return orders, nil
}

// GetOrder returns any order for the back office.
func (s *OrderService) GetOrder(ctx context.Context, principal *models.Principal, id string) (*models.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.GetOrder")
	defer span.End()

	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	return s.getOrder(ctx, id)
}

// UpdateOrderStatus sets an order's status. Any status may follow any other.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, principal *models.Principal, id, status string) (*models.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.UpdateOrderStatus")
	defer span.End()

	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	oid, err := ParseID("order", id)
	if err != nil {
		return nil, err
	}
	if !models.IsValidOrderStatus(status) {
		return nil, badRequest("invalid order status %q", status)
	}
	if err := s.orderRepo.UpdateStatus(ctx, oid, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("order %s", id)
		}
		return nil, internal("update order status", err)
	}

	order, err := s.getOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, models.OrderEventStatusChanged, order)
	return order, nil
}

// ListOrderEvents returns the audit trail recorded for an order.
func (s *OrderService) ListOrderEvents(ctx context.Context, principal *models.Principal, id string) ([]models.OrderEvent, error) {
	ctx, span := tracer.Start(ctx, "OrderService.ListOrderEvents")
	defer span.End()

	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	if _, err := ParseID("order", id); err != nil {
		return nil, err
	}
	events, err := s.eventRepo.GetByOrderID(ctx, id)
	if err != nil {
		return nil, internal("list order events", err)
	}
	return events, nil
}
