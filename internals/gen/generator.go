// Package gen fabricates order, driver, and tracking batches shaped like
// real queue traffic. Everything here is simulation: values are plausible,
// not meaningful.
package gen

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/thebowwman/fleetflow/internals/domain"
)

// Manhattan-ish center the simulation scatters around.
const (
	centerLat = 40.7589
	centerLon = -73.9851
	jitter    = 0.1
)

var (
	packageSizes = []string{"Small", "Medium", "Large"}
	priorities   = []string{domain.PriorityHigh, domain.PriorityMedium, domain.PriorityLow}
	orderStates  = []string{domain.OrderPending, domain.OrderAssigned, domain.OrderInTransit, domain.OrderDelivered}
	driverStates = []string{domain.DriverAvailable, domain.DriverOnRoute, domain.DriverBreak, domain.DriverOffline}
	vehicleTypes = []string{"Van", "Truck", "Motorcycle"}

	driverNames = []string{
		"Alice Johnson", "Bob Smith", "Carol Brown", "David Wilson",
		"Eva Davis", "Frank Miller", "Grace Lee", "Henry Chen",
		"Iris Garcia", "Jack Taylor",
	}
)

type OrderBatch struct {
	Type      string         `json:"type"`
	Orders    []domain.Order `json:"orders"`
	Timestamp string         `json:"timestamp"`
	BatchID   string         `json:"batch_id"`
}

type DriverBatch struct {
	Type      string          `json:"type"`
	Drivers   []domain.Driver `json:"drivers"`
	Timestamp string          `json:"timestamp"`
}

type TrackingBatch struct {
	Type      string                           `json:"type"`
	Tracking  map[string]domain.TrackingRecord `json:"tracking_data"`
	Timestamp string                           `json:"timestamp"`
}

// Generator produces synthetic batches. Inject a seeded rand and a fixed
// clock for reproducible output in tests.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

func New(rng *rand.Rand, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{rng: rng, now: now}
}

func (g *Generator) point() (float64, float64) {
	return centerLat + (g.rng.Float64()-0.5)*jitter, centerLon + (g.rng.Float64()-0.5)*jitter
}

func (g *Generator) phone() string {
	return fmt.Sprintf("+1-%d-%d-%d", 100+g.rng.Intn(900), 100+g.rng.Intn(900), 1000+g.rng.Intn(9000))
}

func (g *Generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

func (g *Generator) OrderBatch(n int) OrderBatch {
	now := g.now()
	orders := make([]domain.Order, 0, n)
	for i := 0; i < n; i++ {
		lat, lon := g.point()
		orders = append(orders, domain.Order{
			OrderID:          fmt.Sprintf("ORD-%03d", i+1),
			Latitude:         lat,
			Longitude:        lon,
			DeliveryTimeSlot: g.pick(domain.TimeSlots),
			PackageSize:      g.pick(packageSizes),
			Priority:         g.pick(priorities),
			Volume:           0.1 + g.rng.Float64()*0.5,
			Weight:           1 + g.rng.Float64()*10,
			Status:           g.pick(orderStates),
			CreatedAt:        now.Format(time.RFC3339),
			CustomerID:       fmt.Sprintf("CUST-%04d", 1000+g.rng.Intn(9000)),
			DeliveryAddress:  fmt.Sprintf("%d Main St, New York, NY", 100+g.rng.Intn(900)),
			Phone:            g.phone(),
			Cluster:          domain.NoCluster,
		})
	}
	return OrderBatch{
		Type:      "order_batch",
		Orders:    orders,
		Timestamp: now.Format(time.RFC3339),
		BatchID:   fmt.Sprintf("BATCH-%d", now.Unix()),
	}
}

func (g *Generator) DriverBatch(n int) DriverBatch {
	now := g.now()
	drivers := make([]domain.Driver, 0, n)
	for i := 0; i < n; i++ {
		lat, lon := g.point()
		drivers = append(drivers, domain.Driver{
			DriverID:              fmt.Sprintf("DRV-%02d", i+1),
			Name:                  driverNames[i%len(driverNames)],
			Status:                g.pick(driverStates),
			CurrentLoadVolume:     g.rng.Float64() * 8,
			VehicleCapacityVolume: 10,
			CurrentLoadWeight:     g.rng.Float64() * 800,
			VehicleCapacityWeight: 1000,
			DeliveriesToday:       g.rng.Intn(16),
			Rating:                float64(40+g.rng.Intn(11)) / 10,
			VehicleType:           g.pick(vehicleTypes),
			CurrentLocation:       domain.GeoPoint{Latitude: lat, Longitude: lon},
			LastUpdate:            now.Format(time.RFC3339),
			Phone:                 g.phone(),
		})
	}
	return DriverBatch{Type: "driver_status_update", Drivers: drivers, Timestamp: now.Format(time.RFC3339)}
}

func (g *Generator) TrackingBatch(activeRoutes int) TrackingBatch {
	now := g.now()
	tracking := make(map[string]domain.TrackingRecord, activeRoutes)
	for i := 0; i < activeRoutes; i++ {
		routeID := fmt.Sprintf("RTE-%02d", i+1)
		lat, lon := g.point()
		tracking[routeID] = domain.TrackingRecord{
			RouteID:          routeID,
			DriverID:         fmt.Sprintf("DRV-%02d", i+1),
			CurrentLatitude:  lat,
			CurrentLongitude: lon,
			Progress:         g.rng.Float64(),
			Status:           domain.OrderInTransit,
			NextDelivery:     fmt.Sprintf("ORD-%03d", 1+g.rng.Intn(50)),
			ETA:              now.Add(time.Duration(10+g.rng.Intn(111)) * time.Minute).Format("15:04"),
			Speed:            15 + g.rng.Float64()*30,
			FuelLevel:        0.2 + g.rng.Float64()*0.8,
			Temperature:      -5 + g.rng.Float64()*40,
			LastUpdate:       now.Format(time.RFC3339),
		}
	}
	return TrackingBatch{Type: "tracking_update", Tracking: tracking, Timestamp: now.Format(time.RFC3339)}
}
