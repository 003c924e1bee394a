package queue

import (
	"context"
	"fmt"
	"sync"
)

// PublisherCloser is what the Redialer manages: a publisher with a
// connection to tear down.
type PublisherCloser interface {
	Publisher
	Close() error
}

// Redialer is a Publisher that dials lazily and drops its connection after
// a failed publish, so enqueues recover as soon as the broker does. Broker
// outages degrade individual requests, never the publisher itself.
type Redialer struct {
	dial func() (PublisherCloser, error)

	mu  sync.Mutex
	cur PublisherCloser
}

func NewRedialer(dial func() (PublisherCloser, error)) *Redialer {
	return &Redialer{dial: dial}
}

func (r *Redialer) Publish(ctx context.Context, queue string, body []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cur == nil {
		p, err := r.dial()
		if err != nil {
			return fmt.Errorf("queue: connect for publish: %w", err)
		}
		r.cur = p
	}

	err := r.cur.Publish(ctx, queue, body)
	if err == nil {
		return nil
	}

	// Dead connections surface here; retry once on a fresh one.
	_ = r.cur.Close()
	r.cur = nil
	p, derr := r.dial()
	if derr != nil {
		return err
	}
	r.cur = p
	if err := r.cur.Publish(ctx, queue, body); err != nil {
		_ = r.cur.Close()
		r.cur = nil
		return err
	}
	return nil
}

func (r *Redialer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cur == nil {
		return nil
	}
	err := r.cur.Close()
	r.cur = nil
	return err
}
