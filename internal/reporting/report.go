// Package reporting produces fleet operations reports from stored
// trips, train state and route state.
package reporting

import "time"

// Report represents the fleet operations report structure.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	TrainCount  int
	RouteCount  int

	// Fleet Summary
	FleetSummary FleetSummary

	// Per train/route pair metrics (sorted by train_name, route_name)
	PairMetrics []PairMetricRow

	// Track condition per segment (sorted by route_name, segment order)
	RouteWear []RouteWearRow

	// Trains due for servicing (sorted by train_name)
	Servicing []ServicingRow
}

// FleetSummary contains fleet-wide totals.
type FleetSummary struct {
	TotalTrips      int
	CompletionRate  float64
	TotalRevenue    float64
	TotalNetProfit  float64
	TotalDistanceKm float64
	DateRangeStart  int64 // Unix ms
	DateRangeEnd    int64 // Unix ms
}

// PairMetricRow represents one row in the train/route metrics table.
type PairMetricRow struct {
	TrainName                string
	RouteName                string
	TotalTrips               int
	CompletionRate           float64
	NetProfitMean            float64
	NetProfitMedian          float64
	NetProfitP10             float64
	NetProfitP90             float64
	MaxConsecutiveIncomplete int
}

// RouteWearRow represents the current condition of one segment.
type RouteWearRow struct {
	RouteName          string
	SegmentName        string
	DistanceKm         float64
	WearLevel          float64
	EffectiveRoughness float64
	NeedsMaintenance   bool
}

// ServicingRow flags a train for depot attention.
type ServicingRow struct {
	TrainName     string
	DurabilityPct float64 // current / max, in [0, 1]
	FuelLevel     float64
	NeedsRepair   bool
	NeedsRefuel   bool
}
