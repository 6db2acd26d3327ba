package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/repositories"
	"github.com/sahilvr03/scl-E-commerce-sub000/internal/telemetry"

	amqp "github.com/streadway/amqp"
)

// DeliverySource hands out order event deliveries.
type DeliverySource interface {
	Consume() (<-chan amqp.Delivery, error)
}

// OrderEventWorker records every order event it receives as an audit entry.
type OrderEventWorker struct {
	source DeliverySource
	repo   repositories.OrderEventRepository
	log    *slog.Logger
	done   chan struct{}
	now    func() time.Time
}

// NewOrderEventWorker creates a worker reading from source.
func NewOrderEventWorker(source DeliverySource, repo repositories.OrderEventRepository, log *slog.Logger) *OrderEventWorker {
	return &OrderEventWorker{
		source: source,
		repo:   repo,
		log:    log.With("component", "order_event_worker"),
		done:   make(chan struct{}),
		now:    time.Now,
	}
}

// Start begins consuming in a goroutine until Stop is called, ctx is done or
// the delivery channel closes.
func (w *OrderEventWorker) Start(ctx context.Context) error {
	msgs, err := w.source.Consume()
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	go func() {
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					w.log.Info("delivery channel closed")
					return
				}
				w.process(ctx, msg)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	w.log.Info("order event worker started")
	return nil
}

// Stop ends the consume loop.
func (w *OrderEventWorker) Stop() { close(w.done) }

func (w *OrderEventWorker) process(ctx context.Context, msg amqp.Delivery) {
	var event models.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil || event.OrderID == "" {
		w.log.Error("malformed order event, dead-lettering", "delivery_tag", msg.DeliveryTag, "error", err)
		telemetry.OrderEventsProcessed.WithLabelValues("unknown", "malformed").Inc()
		_ = msg.Nack(false, false)
		return
	}
	if event.MessageID == "" {
		event.MessageID = msg.MessageId
	}
	event.ReceivedAt = w.now().UTC()

	log := w.log.With("order_id", event.OrderID, "type", event.Type)
	err := w.repo.Save(ctx, &event)
	switch {
	case err == nil:
		telemetry.OrderEventsProcessed.WithLabelValues(event.Type, "stored").Inc()
		log.Info("order event recorded", "status", event.Status)
		_ = msg.Ack(false)
	case errors.Is(err, repositories.ErrDuplicate):
		telemetry.OrderEventsProcessed.WithLabelValues(event.Type, "duplicate").Inc()
		log.Info("order event already recorded, skipping")
		_ = msg.Ack(false)
	default:
		telemetry.OrderEventsProcessed.WithLabelValues(event.Type, "error").Inc()
		log.Error("failed to record order event", "error", err)
		_ = msg.Nack(false, !msg.Redelivered)
	}
}
