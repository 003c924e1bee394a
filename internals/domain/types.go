package domain

import "math"

// Order statuses as they appear on the wire.
const (
	OrderPending   = "Pending"
	OrderAssigned  = "Assigned"
	OrderInTransit = "In Transit"
	OrderDelivered = "Delivered"
)

// Driver statuses.
const (
	DriverAvailable = "Available"
	DriverOnRoute   = "On Route"
	DriverBreak     = "Break"
	DriverOffline   = "Offline"
)

// Priorities.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// TimeSlots are the six delivery bands, in order. The position in this list
// is significant: band i carries numeric code i+1, and routes are assigned a
// window by cluster index modulo len(TimeSlots).
var TimeSlots = []string{
	"09:00-11:00",
	"11:00-13:00",
	"13:00-15:00",
	"15:00-17:00",
	"17:00-19:00",
	"19:00-21:00",
}

// SlotCode maps a delivery time slot to its numeric code 1..6.
func SlotCode(slot string) (int, bool) {
	for i, s := range TimeSlots {
		if s == slot {
			return i + 1, true
		}
	}
	return 0, false
}

// NoCluster marks an order that has not been through clustering.
const NoCluster = -1

type Order struct {
	OrderID          string  `json:"order_id"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	DeliveryTimeSlot string  `json:"delivery_time_slot"`
	SlotCode         int     `json:"delivery_time_numeric,omitempty"`
	PackageSize      string  `json:"package_size"`
	Priority         string  `json:"priority"`
	Volume           float64 `json:"volume"`
	Weight           float64 `json:"weight"`
	Status           string  `json:"status"`
	CreatedAt        string  `json:"created_at"`
	CustomerID       string  `json:"customer_id"`
	DeliveryAddress  string  `json:"delivery_address"`
	Phone            string  `json:"phone"`
	Cluster          int     `json:"cluster_id"`
}

// FiniteFeatures reports whether every numeric field that feeds clustering
// or aggregation is a finite number. The clustering engine has undefined
// behavior on NaN/Inf, so callers must reject orders failing this check.
func (o Order) FiniteFeatures() bool {
	for _, v := range []float64{o.Latitude, o.Longitude, o.Volume, o.Weight} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Driver struct {
	DriverID              string   `json:"driver_id"`
	Name                  string   `json:"name"`
	Status                string   `json:"status"`
	CurrentLoadVolume     float64  `json:"current_load_volume"`
	VehicleCapacityVolume float64  `json:"vehicle_capacity_volume"`
	CurrentLoadWeight     float64  `json:"current_load_weight"`
	VehicleCapacityWeight float64  `json:"vehicle_capacity_weight"`
	DeliveriesToday       int      `json:"deliveries_today"`
	Rating                float64  `json:"rating"`
	VehicleType           string   `json:"vehicle_type"`
	CurrentLocation       GeoPoint `json:"current_location"`
	LastUpdate            string   `json:"last_update"`
	Phone                 string   `json:"phone"`
}

// Route summarizes one cluster of orders. Produced fresh on every clustering
// run and immutable afterwards.
type Route struct {
	ClusterID         string   `json:"cluster_id"`
	CentroidLat       float64  `json:"centroid_lat"`
	CentroidLon       float64  `json:"centroid_lon"`
	OrderCount        int      `json:"order_count"`
	TotalVolume       float64  `json:"total_volume"`
	TotalWeight       float64  `json:"total_weight"`
	OrderIDs          []string `json:"order_ids"`
	EstimatedDuration int      `json:"estimated_duration"`
	TimeWindow        string   `json:"time_window"`
}

type TrackingRecord struct {
	RouteID          string  `json:"route_id"`
	DriverID         string  `json:"driver_id"`
	CurrentLatitude  float64 `json:"current_latitude"`
	CurrentLongitude float64 `json:"current_longitude"`
	Progress         float64 `json:"progress"`
	Status           string  `json:"status"`
	NextDelivery     string  `json:"next_delivery"`
	ETA              string  `json:"eta"`
	Speed            float64 `json:"speed"`
	FuelLevel        float64 `json:"fuel_level"`
	Temperature      float64 `json:"temperature"`
	LastUpdate       string  `json:"last_update"`
}

type FleetStats struct {
	TotalDrivers        int `json:"total_drivers"`
	AvailableDrivers    int `json:"available_drivers"`
	ActiveRoutes        int `json:"active_routes"`
	PendingOrders       int `json:"pending_orders"`
	CompletedDeliveries int `json:"completed_deliveries"`
	AvgDeliveryTime     int `json:"avg_delivery_time"`
	EfficiencyScore     int `json:"efficiency_score"`
}

// Snapshot is the full broadcastable state. Routes is kept alongside
// Clusters for wire compatibility with existing dashboards; only Clusters is
// populated by the pipeline.
type Snapshot struct {
	Orders   []Order                   `json:"orders"`
	Clusters []Route                   `json:"clusters"`
	Routes   []Route                   `json:"routes"`
	Drivers  []Driver                  `json:"drivers"`
	Stats    FleetStats                `json:"stats"`
	Tracking map[string]TrackingRecord `json:"tracking"`
}
