package route

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thebowwman/fleetflow/internals/domain"
)

func TestDuration(t *testing.T) {
	assert.Equal(t, 30, Duration(0, 0))
	assert.Equal(t, 38, Duration(1, 0))
	// volume term truncates: 2*1.7 = 3.4 -> 3
	assert.Equal(t, 30+8*4+3, Duration(4, 1.7))
	assert.GreaterOrEqual(t, Duration(1, 0.01), 30)
}

func TestWindowRoundRobin(t *testing.T) {
	for i := 0; i < 14; i++ {
		assert.Equal(t, domain.TimeSlots[i%6], Window(i), "index %d", i)
	}
}

func TestBuildAggregatesPerCluster(t *testing.T) {
	orders := []domain.Order{
		{OrderID: "ORD-001", Latitude: 40.0, Longitude: -73.0, Volume: 0.5, Weight: 2, Cluster: 0},
		{OrderID: "ORD-002", Latitude: 41.0, Longitude: -74.0, Volume: 0.3, Weight: 4, Cluster: 0},
		{OrderID: "ORD-003", Latitude: 42.0, Longitude: -75.0, Volume: 0.2, Weight: 1, Cluster: 2},
	}

	routes := Build(orders)
	require.Len(t, routes, 2)

	r0 := routes[0]
	assert.Equal(t, "CLU-00", r0.ClusterID)
	assert.Equal(t, 2, r0.OrderCount)
	assert.InDelta(t, 40.5, r0.CentroidLat, 1e-9)
	assert.InDelta(t, -73.5, r0.CentroidLon, 1e-9)
	assert.InDelta(t, 0.8, r0.TotalVolume, 1e-9)
	assert.InDelta(t, 6.0, r0.TotalWeight, 1e-9)
	assert.Equal(t, []string{"ORD-001", "ORD-002"}, r0.OrderIDs)
	assert.Equal(t, 30+8*2+1, r0.EstimatedDuration)
	assert.Equal(t, domain.TimeSlots[0], r0.TimeWindow)

	r2 := routes[1]
	assert.Equal(t, "CLU-02", r2.ClusterID)
	assert.Equal(t, 1, r2.OrderCount)
	assert.Equal(t, domain.TimeSlots[2], r2.TimeWindow)
}

func TestBuildSkipsUnclusteredOrders(t *testing.T) {
	orders := []domain.Order{
		{OrderID: "ORD-001", Cluster: domain.NoCluster},
		{OrderID: "ORD-002", Cluster: domain.NoCluster},
	}
	assert.Empty(t, Build(orders))
}

func TestBuildCoversBatchExactlyOnce(t *testing.T) {
	var orders []domain.Order
	for i := 0; i < 24; i++ {
		orders = append(orders, domain.Order{
			OrderID: fmt.Sprintf("ORD-%03d", i+1),
			Volume:  0.1,
			Cluster: i % 4,
		})
	}

	routes := Build(orders)
	require.Len(t, routes, 4)

	total := 0
	seen := map[string]bool{}
	for _, r := range routes {
		total += r.OrderCount
		for _, id := range r.OrderIDs {
			assert.False(t, seen[id], "duplicate %s", id)
			seen[id] = true
		}
	}
	assert.Equal(t, len(orders), total)
	assert.Len(t, seen, len(orders))
}
