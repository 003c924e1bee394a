// datagen publishes synthetic order, driver, and tracking batches to the
// broker on fixed intervals, and services agent-workflow requests. It stands
// in for real upstream systems during development.
package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/thebowwman/fleetflow/internals/config"
	"github.com/thebowwman/fleetflow/internals/gen"
	"github.com/thebowwman/fleetflow/internals/queue"
)

const (
	orderInterval    = 30 * time.Second
	driverInterval   = 15 * time.Second
	trackingInterval = 10 * time.Second
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := queue.Dial(cfg.AMQPURL())
	if err != nil {
		log.Fatal(err)
	}
	defer client.Close()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	g := gen.New(rng, time.Now)

	publish := func(queueName string, msg any, desc string) {
		body, err := json.Marshal(msg)
		if err != nil {
			logger.Error("marshal failed", "queue", queueName, "err", err)
			return
		}
		if err := client.Publish(ctx, queueName, body); err != nil {
			logger.Error("publish failed", "queue", queueName, "err", err)
			return
		}
		logger.Info("published", "queue", queueName, "what", desc)
	}

	go serveWorkflows(ctx, client, rng, logger)

	// Initial burst so the dashboard has data before the first tick.
	publish(queue.OrderData, g.OrderBatch(30+rng.Intn(41)), "orders")
	publish(queue.DriverUpdates, g.DriverBatch(10), "drivers")

	orders := time.NewTicker(orderInterval)
	drivers := time.NewTicker(driverInterval)
	tracking := time.NewTicker(trackingInterval)
	defer orders.Stop()
	defer drivers.Stop()
	defer tracking.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping data simulation")
			return
		case <-orders.C:
			publish(queue.OrderData, g.OrderBatch(30+rng.Intn(41)), "orders")
		case <-drivers.C:
			publish(queue.DriverUpdates, g.DriverBatch(10), "drivers")
		case <-tracking.C:
			publish(queue.TrackingUpdates, g.TrackingBatch(3+rng.Intn(4)), "tracking")
		}
	}
}

// serveWorkflows consumes agent-workflow requests and answers them with a
// canned completion after a short simulated processing delay.
func serveWorkflows(ctx context.Context, client *queue.Client, rng *rand.Rand, logger *slog.Logger) {
	deliveries, err := client.Consume(ctx, queue.AgentWorkflow)
	if err != nil {
		logger.Error("workflow consume failed", "err", err)
		return
	}
	for d := range deliveries {
		var req struct {
			WorkflowType string `json:"workflow_type"`
		}
		if err := json.Unmarshal(d.Body, &req); err != nil {
			logger.Warn("dropping malformed workflow request", "err", err)
			_ = d.Reject()
			continue
		}
		if req.WorkflowType == "" {
			req.WorkflowType = "delivery_planning"
		}
		logger.Info("processing workflow", "type", req.WorkflowType)

		select {
		case <-ctx.Done():
			_ = d.Reject()
			return
		case <-time.After(2*time.Second + time.Duration(rng.Intn(3000))*time.Millisecond):
		}

		logger.Info("completed workflow", "id", "WF-"+uuid.NewString()[:8], "type", req.WorkflowType)
		_ = d.Ack()
	}
}
