package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thebowwman/fleetflow/internals/api"
	"github.com/thebowwman/fleetflow/internals/config"
	"github.com/thebowwman/fleetflow/internals/hub"
	"github.com/thebowwman/fleetflow/internals/pipeline"
	"github.com/thebowwman/fleetflow/internals/queue"
	"github.com/thebowwman/fleetflow/internals/state"
	"github.com/thebowwman/fleetflow/internals/stats"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := state.NewStore()
	broadcaster := hub.New()
	fleet := stats.NewEngine(rand.New(rand.NewSource(time.Now().UnixNano())))

	dial := func(ctx context.Context) (queue.Conn, error) {
		return queue.Dial(cfg.AMQPURL())
	}
	coordinator := pipeline.New(dial, store, fleet, broadcaster.Broadcast, logger)
	coordinator.RetryDelay = cfg.RetryDelay

	pipelineDone := make(chan struct{})
	go func() {
		coordinator.Run(ctx)
		close(pipelineDone)
	}()

	// The API publishes over its own connection so a consumer reconnect
	// never blocks request handling; the redialer reconnects after broker
	// outages so enqueue endpoints recover without a restart.
	publisher := queue.NewRedialer(func() (queue.PublisherCloser, error) {
		return queue.Dial(cfg.AMQPURL())
	})
	defer publisher.Close()

	r := gin.Default()
	api.RegisterRoutes(r, &api.API{Store: store, Pub: publisher, Hub: broadcaster, Log: logger})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	<-pipelineDone
}
