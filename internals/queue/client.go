// Package queue wraps the RabbitMQ broker behind small publish/consume
// ports.
package queue

import (
	"context"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Named channels. All are declared durable so messages survive a broker
// restart.
const (
	OrderData         = "order_data"
	DriverUpdates     = "driver_updates"
	TrackingUpdates   = "tracking_updates"
	RouteOptimization = "route_optimization"
	AgentWorkflow     = "agent_workflow"
)

var queues = []string{OrderData, DriverUpdates, TrackingUpdates, RouteOptimization, AgentWorkflow}

// Delivery is one consumed message. Exactly one of Ack or Reject must be
// called; Reject drops the message without requeue.
type Delivery struct {
	Body   []byte
	Ack    func() error
	Reject func() error
}

type Consumer interface {
	Consume(ctx context.Context, queue string) (<-chan Delivery, error)
}

type Publisher interface {
	Publish(ctx context.Context, queue string, body []byte) error
}

// Conn is a consumable connection. The pipeline owns the retry policy around
// establishing one; the client itself does not reconnect.
type Conn interface {
	Consumer
	Close() error
}

type Client struct {
	conn *amqp.Connection

	mu sync.Mutex // serializes publishes; amqp channels are not publish-safe concurrently
	ch *amqp.Channel
}

// Dial connects to the broker and declares every named queue.
func Dial(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("queue: dial %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("queue: open channel: %w", err)
	}
	for _, q := range queues {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			conn.Close()
			return nil, fmt.Errorf("queue: declare %s: %w", q, err)
		}
	}
	return &Client{conn: conn, ch: ch}, nil
}

// Publish sends a persistent message to the named queue.
func (c *Client) Publish(ctx context.Context, queue string, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.ch.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("queue: publish to %s: %w", queue, err)
	}
	return nil
}

// Consume delivers messages from the named queue until the context is
// cancelled or the connection drops; the returned channel closes either way.
// Auto-ack is off: each Delivery must be acked or rejected explicitly.
func (c *Client) Consume(ctx context.Context, queue string) (<-chan Delivery, error) {
	msgs, err := c.ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("queue: consume %s: %w", queue, err)
	}

	out := make(chan Delivery)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					return
				}
				d := Delivery{
					Body:   m.Body,
					Ack:    func() error { return m.Ack(false) },
					Reject: func() error { return m.Nack(false, false) },
				}
				select {
				case out <- d:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}
