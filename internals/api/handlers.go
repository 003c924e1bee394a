package api

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thebowwman/fleetflow/internals/queue"
)

type statusResp struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Current snapshot, same shape as the websocket payload's data field.
func (a *API) handleDashboardData(c *gin.Context) {
	c.JSON(http.StatusOK, a.Store.Snapshot())
}

// enqueue validates the request shape and forwards it; no processing happens
// here.
func (a *API) enqueue(c *gin.Context, queueName, msgType string, extra map[string]any) {
	var payload map[string]any
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, statusResp{Status: "error", Message: "bad json"})
		return
	}

	msg := map[string]any{
		"type":       msgType,
		"request_id": uuid.NewString(),
		"data":       payload,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range extra {
		msg[k] = v
	}
	body, err := json.Marshal(msg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, statusResp{Status: "error", Message: err.Error()})
		return
	}

	if err := a.Pub.Publish(c.Request.Context(), queueName, body); err != nil {
		a.Log.Error("enqueue failed", "queue", queueName, "err", err)
		c.JSON(http.StatusInternalServerError, statusResp{Status: "error", Message: "failed to reach message queue"})
		return
	}
	c.JSON(http.StatusOK, statusResp{Status: "success", Message: msgType + " queued"})
}

func (a *API) handleOptimizeRoutes(c *gin.Context) {
	a.enqueue(c, queue.RouteOptimization, "route_optimization", nil)
}

func (a *API) handleAgentWorkflow(c *gin.Context) {
	var probe struct {
		WorkflowType string `json:"workflow_type"`
	}
	raw, err := c.GetRawData()
	if err != nil || json.Unmarshal(raw, &probe) != nil {
		c.JSON(http.StatusBadRequest, statusResp{Status: "error", Message: "bad json"})
		return
	}
	workflowType := probe.WorkflowType
	if workflowType == "" {
		workflowType = "delivery_planning"
	}

	var payload map[string]any
	_ = json.Unmarshal(raw, &payload)
	body, err := json.Marshal(map[string]any{
		"type":          "agent_workflow",
		"workflow_type": workflowType,
		"request_id":    uuid.NewString(),
		"data":          payload,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, statusResp{Status: "error", Message: err.Error()})
		return
	}
	if err := a.Pub.Publish(c.Request.Context(), queue.AgentWorkflow, body); err != nil {
		a.Log.Error("enqueue failed", "queue", queue.AgentWorkflow, "err", err)
		c.JSON(http.StatusInternalServerError, statusResp{Status: "error", Message: "failed to reach message queue"})
		return
	}
	c.JSON(http.StatusOK, statusResp{Status: "success", Message: "agent workflow triggered"})
}

type multiHopReq struct {
	Packages  int    `json:"packages"`
	Priority  string `json:"priority"`
	Algorithm string `json:"algorithm"`
}

type networkNode struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// Mock multi-hop planner: fabricates a small hub network for the dashboard
// visualization. No routing happens here.
func (a *API) handleMultiHopDelivery(c *gin.Context) {
	req := multiHopReq{Packages: 5, Priority: "time", Algorithm: "astar"}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, statusResp{Status: "error", Message: "bad json"})
		return
	}

	nodes := []networkNode{
		{ID: "warehouse", Type: "warehouse", X: 50, Y: 250},
		{ID: "hub1", Type: "hub", X: 200, Y: 150},
		{ID: "hub2", Type: "hub", X: 200, Y: 350},
	}
	customers := req.Packages
	if customers > 10 {
		customers = 10
	}
	for i := 0; i < customers; i++ {
		nodes = append(nodes, networkNode{
			ID:   fmt.Sprintf("customer%d", i+1),
			Type: "customer",
			X:    500 + (i%4)*80,
			Y:    80 + (i/4)*70,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"network": gin.H{
			"nodes":            nodes,
			"packages":         req.Packages,
			"optimized_routes": []any{},
			"total_cost":       50 + rand.Float64()*100,
			"total_time":       2 + rand.Float64()*6,
			"total_distance":   20 + rand.Float64()*80,
		},
		"algorithm": req.Algorithm,
		"priority":  req.Priority,
	})
}
