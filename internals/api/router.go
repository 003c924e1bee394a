package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/thebowwman/fleetflow/internals/hub"
	"github.com/thebowwman/fleetflow/internals/queue"
	"github.com/thebowwman/fleetflow/internals/state"
)

// API bundles the collaborators the handlers need.
type API struct {
	Store *state.Store
	Pub   queue.Publisher
	Hub   *hub.Hub
	Log   *slog.Logger
}

func RegisterRoutes(r *gin.Engine, a *API) {
	if a.Log == nil {
		a.Log = slog.Default()
	}

	r.GET("/healthz", func(c *gin.Context) { c.Status(200) })

	api := r.Group("/api")
	{
		api.GET("/dashboard-data", a.handleDashboardData)
		api.POST("/optimize-routes", a.handleOptimizeRoutes)
		api.POST("/agent-workflow", a.handleAgentWorkflow)
		api.POST("/multi-hop-delivery", a.handleMultiHopDelivery)
		api.GET("/ws", a.handleWS)
	}
}
