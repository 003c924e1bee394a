package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebowwman/fleetflow/internals/domain"
	"github.com/thebowwman/fleetflow/internals/hub"
	"github.com/thebowwman/fleetflow/internals/state"
)

type fakePub struct {
	queue string
	body  []byte
	err   error
}

func (f *fakePub) Publish(_ context.Context, queue string, body []byte) error {
	f.queue = queue
	f.body = body
	return f.err
}

func newTestRouter(pub *fakePub) (*gin.Engine, *state.Store) {
	gin.SetMode(gin.TestMode)
	store := state.NewStore()
	r := gin.New()
	RegisterRoutes(r, &API{Store: store, Pub: pub, Hub: hub.New()})
	return r, store
}

func TestDashboardData(t *testing.T) {
	r, store := newTestRouter(&fakePub{})
	store.ReplaceOrders([]domain.Order{{OrderID: "ORD-001"}}, []domain.Route{{ClusterID: "CLU-00"}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/dashboard-data", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.Len(t, snap.Orders, 1)
	assert.Equal(t, "ORD-001", snap.Orders[0].OrderID)
	assert.Equal(t, "CLU-00", snap.Clusters[0].ClusterID)
}

func TestOptimizeRoutesEnqueues(t *testing.T) {
	pub := &fakePub{}
	r, _ := newTestRouter(pub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/optimize-routes", strings.NewReader(`{"region":"nyc"}`))
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "route_optimization", pub.queue)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(pub.body, &msg))
	assert.Equal(t, "route_optimization", msg["type"])
	assert.NotEmpty(t, msg["request_id"])
	assert.Equal(t, map[string]any{"region": "nyc"}, msg["data"])
}

func TestOptimizeRoutesBadJSON(t *testing.T) {
	pub := &fakePub{}
	r, _ := newTestRouter(pub)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/optimize-routes", strings.NewReader("{oops")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, pub.queue)
}

func TestOptimizeRoutesBrokerDown(t *testing.T) {
	r, _ := newTestRouter(&fakePub{err: errors.New("broker unreachable")})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/optimize-routes", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAgentWorkflowDefaultsType(t *testing.T) {
	pub := &fakePub{}
	r, _ := newTestRouter(pub)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/agent-workflow", strings.NewReader(`{}`)))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "agent_workflow", pub.queue)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(pub.body, &msg))
	assert.Equal(t, "delivery_planning", msg["workflow_type"])
}

func TestMultiHopDelivery(t *testing.T) {
	r, _ := newTestRouter(&fakePub{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/multi-hop-delivery", strings.NewReader(`{"packages":6,"algorithm":"dijkstra"}`)))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Status    string `json:"status"`
		Algorithm string `json:"algorithm"`
		Network   struct {
			Nodes    []networkNode `json:"nodes"`
			Packages int           `json:"packages"`
		} `json:"network"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "dijkstra", resp.Algorithm)
	assert.Equal(t, 6, resp.Network.Packages)
	// warehouse + 2 hubs + 6 customers
	assert.Len(t, resp.Network.Nodes, 9)
}
