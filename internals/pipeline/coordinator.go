// Package pipeline owns the consumer loops that turn queue batches into
// shared fleet state.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thebowwman/fleetflow/internals/cluster"
	"github.com/thebowwman/fleetflow/internals/domain"
	"github.com/thebowwman/fleetflow/internals/queue"
	"github.com/thebowwman/fleetflow/internals/route"
	"github.com/thebowwman/fleetflow/internals/state"
	"github.com/thebowwman/fleetflow/internals/stats"
)

// Broadcast kinds attached to snapshot updates.
const (
	KindOrdersProcessed = "orders_processed"
	KindDriverUpdate    = "driver_update"
	KindTrackingUpdate  = "tracking_update"
)

// DialFunc establishes a broker connection. Each consumer loop dials its
// own, so one dropped connection never stalls the other sources.
type DialFunc func(ctx context.Context) (queue.Conn, error)

// NotifyFunc receives every committed snapshot version.
type NotifyFunc func(kind string, snap domain.Snapshot)

// Coordinator runs one supervised consumer loop per source queue. A loop
// cycles Disconnected -> Connecting -> Consuming and falls back to
// Disconnected on any error, retrying after a fixed delay until the context
// is cancelled.
type Coordinator struct {
	dial   DialFunc
	store  *state.Store
	fleet  *stats.Engine
	notify NotifyFunc
	log    *slog.Logger

	// RetryDelay is the fixed backoff between reconnect attempts.
	RetryDelay time.Duration

	drops sync.Map // queue name -> *atomic.Int64
}

func New(dial DialFunc, store *state.Store, fleet *stats.Engine, notify NotifyFunc, log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{
		dial:       dial,
		store:      store,
		fleet:      fleet,
		notify:     notify,
		log:        log,
		RetryDelay: 5 * time.Second,
	}
}

// Run blocks until ctx is cancelled and all consumer loops have exited.
func (c *Coordinator) Run(ctx context.Context) {
	sources := []struct {
		queue  string
		handle func([]byte) error
	}{
		{queue.OrderData, c.handleOrderBatch},
		{queue.DriverUpdates, c.handleDriverBatch},
		{queue.TrackingUpdates, c.handleTrackingBatch},
	}

	var wg sync.WaitGroup
	for _, src := range sources {
		src := src
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.consume(ctx, src.queue, src.handle)
		}()
	}
	wg.Wait()
}

// Dropped reports how many messages from the named queue were rejected.
func (c *Coordinator) Dropped(queueName string) int64 {
	if v, ok := c.drops.Load(queueName); ok {
		return v.(*atomic.Int64).Load()
	}
	return 0
}

func (c *Coordinator) dropCounter(queueName string) *atomic.Int64 {
	v, _ := c.drops.LoadOrStore(queueName, new(atomic.Int64))
	return v.(*atomic.Int64)
}

func (c *Coordinator) consume(ctx context.Context, queueName string, handle func([]byte) error) {
	dropped := c.dropCounter(queueName)
	for ctx.Err() == nil {
		conn, err := c.dial(ctx)
		if err != nil {
			c.log.Error("broker connect failed", "queue", queueName, "err", err)
			c.sleep(ctx)
			continue
		}
		deliveries, err := conn.Consume(ctx, queueName)
		if err != nil {
			conn.Close()
			c.log.Error("consume setup failed", "queue", queueName, "err", err)
			c.sleep(ctx)
			continue
		}
		c.log.Info("consuming", "queue", queueName)

		for d := range deliveries {
			if err := handle(d.Body); err != nil {
				// Deliberate drop-without-requeue: a malformed batch must
				// never stall the channel.
				n := dropped.Add(1)
				c.log.Warn("dropping message", "queue", queueName, "dropped_total", n, "err", err)
				_ = d.Reject()
				continue
			}
			_ = d.Ack()
		}

		conn.Close()
		if ctx.Err() == nil {
			c.log.Warn("consume stream closed, reconnecting", "queue", queueName)
			c.sleep(ctx)
		}
	}
}

func (c *Coordinator) sleep(ctx context.Context) {
	t := time.NewTimer(c.RetryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

func (c *Coordinator) broadcast(kind string) {
	if c.notify != nil {
		c.notify(kind, c.store.Snapshot())
	}
}

type orderBatch struct {
	Orders []domain.Order `json:"orders"`
}

func (c *Coordinator) handleOrderBatch(body []byte) error {
	var batch orderBatch
	if err := json.Unmarshal(body, &batch); err != nil {
		return fmt.Errorf("decode order batch: %w", err)
	}
	if batch.Orders == nil {
		return errors.New("order batch: missing orders")
	}

	orders := batch.Orders
	for i := range orders {
		code, ok := domain.SlotCode(orders[i].DeliveryTimeSlot)
		if !ok {
			return fmt.Errorf("order %s: unknown delivery_time_slot %q", orders[i].OrderID, orders[i].DeliveryTimeSlot)
		}
		if !orders[i].FiniteFeatures() {
			return fmt.Errorf("order %s: non-finite numeric field", orders[i].OrderID)
		}
		orders[i].SlotCode = code
		orders[i].Cluster = domain.NoCluster
	}

	clustered, k := cluster.Assign(orders)
	routes := route.Build(clustered)
	c.store.ReplaceOrders(clustered, routes)
	c.log.Info("processed order batch", "orders", len(clustered), "k", k, "routes", len(routes))
	c.broadcast(KindOrdersProcessed)
	return nil
}

type driverBatch struct {
	Drivers []domain.Driver `json:"drivers"`
}

func (c *Coordinator) handleDriverBatch(body []byte) error {
	var batch driverBatch
	if err := json.Unmarshal(body, &batch); err != nil {
		return fmt.Errorf("decode driver batch: %w", err)
	}
	if batch.Drivers == nil {
		return errors.New("driver batch: missing drivers")
	}

	// Pending counts come from whatever order set is current; the two
	// streams are not synchronized.
	fleetStats := c.fleet.Compute(batch.Drivers, c.store.Orders())
	c.store.ReplaceDrivers(batch.Drivers, fleetStats)
	c.log.Info("processed driver batch", "drivers", len(batch.Drivers), "available", fleetStats.AvailableDrivers)
	c.broadcast(KindDriverUpdate)
	return nil
}

type trackingBatch struct {
	Tracking map[string]domain.TrackingRecord `json:"tracking_data"`
}

func (c *Coordinator) handleTrackingBatch(body []byte) error {
	var batch trackingBatch
	if err := json.Unmarshal(body, &batch); err != nil {
		return fmt.Errorf("decode tracking batch: %w", err)
	}
	if batch.Tracking == nil {
		return errors.New("tracking batch: missing tracking_data")
	}

	c.store.ReplaceTracking(batch.Tracking)
	c.broadcast(KindTrackingUpdate)
	return nil
}
