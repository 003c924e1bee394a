package stats

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thebowwman/fleetflow/internals/domain"
)

func newTestEngine() *Engine {
	return NewEngine(rand.New(rand.NewSource(1)))
}

func driversWithStatuses(statuses ...string) []domain.Driver {
	out := make([]domain.Driver, len(statuses))
	for i, s := range statuses {
		out[i] = domain.Driver{DriverID: "DRV-01", Status: s}
	}
	return out
}

func TestComputeCountsDriverStatuses(t *testing.T) {
	drivers := driversWithStatuses(
		domain.DriverAvailable, domain.DriverAvailable, domain.DriverAvailable, domain.DriverAvailable,
		domain.DriverOnRoute, domain.DriverOnRoute, domain.DriverOnRoute,
		domain.DriverOffline, domain.DriverOffline, domain.DriverOffline,
	)

	s := newTestEngine().Compute(drivers, nil)
	assert.Equal(t, 10, s.TotalDrivers)
	assert.Equal(t, 4, s.AvailableDrivers)
	assert.Equal(t, 3, s.ActiveRoutes)
	assert.Equal(t, 0, s.PendingOrders)
}

func TestComputeAvailablePlusRestEqualsTotal(t *testing.T) {
	all := []string{domain.DriverAvailable, domain.DriverOnRoute, domain.DriverBreak, domain.DriverOffline}
	drivers := make([]domain.Driver, 0, 37)
	for i := 0; i < 37; i++ {
		drivers = append(drivers, domain.Driver{Status: all[i%len(all)]})
	}

	s := newTestEngine().Compute(drivers, nil)
	notAvailable := 0
	for _, d := range drivers {
		if d.Status != domain.DriverAvailable {
			notAvailable++
		}
	}
	assert.Equal(t, s.TotalDrivers, s.AvailableDrivers+notAvailable)
}

func TestComputePendingOrders(t *testing.T) {
	orders := []domain.Order{
		{Status: domain.OrderPending},
		{Status: domain.OrderDelivered},
		{Status: domain.OrderPending},
		{Status: domain.OrderInTransit},
	}
	s := newTestEngine().Compute(nil, orders)
	assert.Equal(t, 2, s.PendingOrders)
}

func TestComputePlaceholderRanges(t *testing.T) {
	e := newTestEngine()
	for i := 0; i < 50; i++ {
		s := e.Compute(nil, nil)
		assert.GreaterOrEqual(t, s.CompletedDeliveries, 200)
		assert.Less(t, s.CompletedDeliveries, 300)
		assert.GreaterOrEqual(t, s.AvgDeliveryTime, 25)
		assert.Less(t, s.AvgDeliveryTime, 35)
		assert.GreaterOrEqual(t, s.EfficiencyScore, 80)
		assert.Less(t, s.EfficiencyScore, 95)
	}
}
