// Package stats derives fleet-level counters from driver and order
// snapshots.
package stats

import (
	"math/rand"

	"github.com/thebowwman/fleetflow/internals/domain"
)

// Engine computes FleetStats. The rand source feeds the placeholder
// counters only; inject a seeded source for reproducible output.
type Engine struct {
	rng *rand.Rand
}

func NewEngine(rng *rand.Rand) *Engine {
	return &Engine{rng: rng}
}

// Compute counts driver availability and pending orders, and fills the
// remaining counters with bounded synthetic values. Those placeholders carry
// no behavioral contract beyond their ranges; real telemetry should derive
// them from completed-order records instead.
func (e *Engine) Compute(drivers []domain.Driver, orders []domain.Order) domain.FleetStats {
	s := domain.FleetStats{
		TotalDrivers:        len(drivers),
		CompletedDeliveries: 200 + e.rng.Intn(100),
		AvgDeliveryTime:     25 + e.rng.Intn(10),
		EfficiencyScore:     80 + e.rng.Intn(15),
	}
	for _, d := range drivers {
		switch d.Status {
		case domain.DriverAvailable:
			s.AvailableDrivers++
		case domain.DriverOnRoute:
			s.ActiveRoutes++
		}
	}
	for _, o := range orders {
		if o.Status == domain.OrderPending {
			s.PendingOrders++
		}
	}
	return s
}
