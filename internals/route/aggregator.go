// Package route reduces clustered orders into per-route summaries.
package route

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/thebowwman/fleetflow/internals/domain"
)

const (
	baseMinutes    = 30 // dispatch overhead
	minutesPerStop = 8
	volumeFactor   = 2
)

// Duration estimates route time in minutes from stop count and load volume.
// A coarse proxy, not a travel-time model.
func Duration(orderCount int, totalVolume float64) int {
	return baseMinutes + minutesPerStop*orderCount + int(volumeFactor*totalVolume)
}

// Window assigns a delivery band round-robin by cluster index.
func Window(clusterIndex int) string {
	return domain.TimeSlots[clusterIndex%len(domain.TimeSlots)]
}

// Build produces one route per distinct cluster index present in the batch,
// ordered by index. Orders without a cluster assignment are skipped. Member
// IDs keep batch encounter order.
func Build(orders []domain.Order) []domain.Route {
	type group struct {
		lats, lons []float64
		volume     float64
		weight     float64
		ids        []string
	}
	groups := map[int]*group{}
	for _, o := range orders {
		if o.Cluster < 0 {
			continue
		}
		g, ok := groups[o.Cluster]
		if !ok {
			g = &group{}
			groups[o.Cluster] = g
		}
		g.lats = append(g.lats, o.Latitude)
		g.lons = append(g.lons, o.Longitude)
		g.volume += o.Volume
		g.weight += o.Weight
		g.ids = append(g.ids, o.OrderID)
	}

	indexes := make([]int, 0, len(groups))
	for idx := range groups {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	routes := make([]domain.Route, 0, len(indexes))
	for _, idx := range indexes {
		g := groups[idx]
		routes = append(routes, domain.Route{
			ClusterID:         fmt.Sprintf("CLU-%02d", idx),
			CentroidLat:       stat.Mean(g.lats, nil),
			CentroidLon:       stat.Mean(g.lons, nil),
			OrderCount:        len(g.ids),
			TotalVolume:       g.volume,
			TotalWeight:       g.weight,
			OrderIDs:          g.ids,
			EstimatedDuration: Duration(len(g.ids), g.volume),
			TimeWindow:        Window(idx),
		})
	}
	return routes
}
