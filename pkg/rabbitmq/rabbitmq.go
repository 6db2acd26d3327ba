package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sahilvr03/scl-E-commerce-sub000/internal/models"

	amqp "github.com/streadway/amqp"
)

const (
	// OrderEventsQueue receives every order event.
	OrderEventsQueue = "order_events"
	dlxExchange      = "order_events.dlx"
	dlqQueue         = "order_events.dlq"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex // serializes publishes on the shared channel
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Prefetch int
}

// NewClient connects to RabbitMQ, opens a channel and declares the order
// events queue with its dead-letter queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := setupQueues(ch, cfg.Prefetch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	slog.Info("rabbitmq connected", "queue", OrderEventsQueue)
	return &Client{conn: conn, channel: ch}, nil
}

func setupQueues(ch *amqp.Channel, prefetch int) error {
	if err := ch.ExchangeDeclare(dlxExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare %s: %w", dlxExchange, err)
	}
	if _, err := ch.QueueDeclare(dlqQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare %s: %w", dlqQueue, err)
	}
	if err := ch.QueueBind(dlqQueue, OrderEventsQueue, dlxExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind %s: %w", dlqQueue, err)
	}
	if _, err := ch.QueueDeclare(OrderEventsQueue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    dlxExchange,
		"x-dead-letter-routing-key": OrderEventsQueue,
	}); err != nil {
		return fmt.Errorf("failed to declare %s: %w", OrderEventsQueue, err)
	}
	if prefetch <= 0 {
		prefetch = 10
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}
	return nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing RabbitMQ client: %v", errs)
	}
	return nil
}

// PublishOrderEvent publishes event as persistent JSON on the order events queue.
func (c *Client) PublishOrderEvent(ctx context.Context, event models.OrderEvent) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.channel.Publish("", OrderEventsQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    event.MessageID,
		Type:         event.Type,
		Timestamp:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	slog.DebugContext(ctx, "order event published", "type", event.Type, "order_id", event.OrderID)
	return nil
}

// Consume registers a manual-ack consumer on the order events queue.
func (c *Client) Consume() (<-chan amqp.Delivery, error) {
	if c.channel == nil {
		return nil, fmt.Errorf("RabbitMQ channel is not available for consumption")
	}
	msgs, err := c.channel.Consume(OrderEventsQueue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register consumer: %w", err)
	}
	return msgs, nil
}
