// Package state holds the process-wide fleet snapshot shared between the
// pipeline, the broadcaster, and API readers.
package state

import (
	"sync"

	"github.com/thebowwman/fleetflow/internals/domain"
)

// Store is the single shared-state container. Compound updates (orders with
// their clusters, drivers with their stats) happen under one lock so readers
// never observe halves of different batches.
type Store struct {
	mu   sync.RWMutex
	snap domain.Snapshot
}

func NewStore() *Store {
	return &Store{snap: domain.Snapshot{
		Orders:   []domain.Order{},
		Clusters: []domain.Route{},
		Routes:   []domain.Route{},
		Drivers:  []domain.Driver{},
		Tracking: map[string]domain.TrackingRecord{},
	}}
}

// ReplaceOrders swaps in a new order set together with the routes clustered
// from it.
func (s *Store) ReplaceOrders(orders []domain.Order, clusters []domain.Route) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Orders = orders
	s.snap.Clusters = clusters
}

// ReplaceDrivers swaps in a new driver list together with the stats computed
// from it.
func (s *Store) ReplaceDrivers(drivers []domain.Driver, stats domain.FleetStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Drivers = drivers
	s.snap.Stats = stats
}

func (s *Store) ReplaceTracking(tracking map[string]domain.TrackingRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Tracking = tracking
}

// Orders returns the current order set. The driver pipeline reads this when
// recomputing stats; it may be from an earlier, unrelated order batch.
func (s *Store) Orders() []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Orders
}

// Snapshot returns a consistent copy of the full state. Slices and the
// tracking map are copied so the caller cannot race a later replace; element
// structs are value copies already.
func (s *Store) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := domain.Snapshot{
		Orders:   copySlice(s.snap.Orders),
		Clusters: copySlice(s.snap.Clusters),
		Routes:   copySlice(s.snap.Routes),
		Drivers:  copySlice(s.snap.Drivers),
		Stats:    s.snap.Stats,
		Tracking: make(map[string]domain.TrackingRecord, len(s.snap.Tracking)),
	}
	for k, v := range s.snap.Tracking {
		snap.Tracking[k] = v
	}
	return snap
}

// copySlice always returns a non-nil slice so empty state marshals as []
// rather than null.
func copySlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
