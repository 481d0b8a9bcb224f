package domain

import "errors"

// Trip request validation errors.
var (
	ErrNilRoute            = errors.New("route must not be nil")
	ErrNegativeCargoWeight = errors.New("cargo weight must not be negative")
	ErrNegativeCargoRate   = errors.New("cargo rate per kilometer must not be negative")
)

// TripRequest describes the inputs of one trip: the route to traverse,
// the cargo load and the contracted rate. Immutable after construction.
type TripRequest struct {
	route          *Route
	cargoWeight    float64
	cargoRatePerKm float64
}

// NewTripRequest validates and creates a trip request.
func NewTripRequest(route *Route, cargoWeight, cargoRatePerKm float64) (*TripRequest, error) {
	if route == nil {
		return nil, ErrNilRoute
	}
	if cargoWeight < 0 {
		return nil, ErrNegativeCargoWeight
	}
	if cargoRatePerKm < 0 {
		return nil, ErrNegativeCargoRate
	}
	return &TripRequest{
		route:          route,
		cargoWeight:    cargoWeight,
		cargoRatePerKm: cargoRatePerKm,
	}, nil
}

// Route returns the route to traverse.
func (r *TripRequest) Route() *Route { return r.route }

// CargoWeight returns the cargo load.
func (r *TripRequest) CargoWeight() float64 { return r.cargoWeight }

// CargoRatePerKm returns the contracted rate per kilometer.
func (r *TripRequest) CargoRatePerKm() float64 { return r.cargoRatePerKm }

// ProjectedGrossRevenue returns the revenue of a fully completed trip
// before costs.
func (r *TripRequest) ProjectedGrossRevenue() float64 {
	return r.route.TotalDistanceKm() * r.cargoRatePerKm
}

// TripResult is the computed outcome of one trip. Business-rule failures
// (capacity rejection, fuel exhaustion, breakdown) are encoded here as
// Completed=false plus a descriptive event, never as a Go error.
//
// Currency figures are rounded to 2 decimal places; physical quantities
// (distance, damage) are unrounded.
type TripResult struct {
	Completed      bool    // trip covered the full route distance
	RequiresRepair bool    // durability below 65% of max after the trip
	RequiresRefuel bool    // fuel level below 25 after the trip
	Revenue        float64 // full projected revenue, pro-rated on partial trips
	RepairCost     float64 // (maxDurability - currentDurability) * repair rate
	FuelCost       float64 // fuel consumed * fuel price
	DistanceKm     float64 // distance actually travelled
	DamageTaken    float64 // cumulative mechanical damage
	Events         []string // human-readable trip log, in occurrence order
}

// NetProfit returns revenue minus repair and fuel costs.
func (r *TripResult) NetProfit() float64 {
	return r.Revenue - r.RepairCost - r.FuelCost
}
