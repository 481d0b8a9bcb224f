package domain

// FleetAggregate holds fleet-level statistics computed over a set of
// trip records, typically one train/route pair or the whole fleet.
type FleetAggregate struct {
	TrainName string // empty for fleet-wide aggregates
	RouteName string // empty for fleet-wide aggregates

	// Counts
	TotalTrips     int
	CompletedTrips int
	CompletionRate float64

	// Net profit distribution
	NetProfitMean   float64
	NetProfitMedian float64
	NetProfitP10    float64
	NetProfitP90    float64
	NetProfitMin    float64
	NetProfitMax    float64
	NetProfitStddev float64

	// Totals
	TotalRevenue    float64
	TotalRepairCost float64
	TotalFuelCost   float64
	TotalNetProfit  float64
	TotalDistanceKm float64

	// Wear and tear
	MeanDamageTaken float64

	// MaxConsecutiveIncomplete is the longest run of trips that did not
	// complete, in execution order.
	MaxConsecutiveIncomplete int
}
