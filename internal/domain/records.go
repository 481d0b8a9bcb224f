package domain

// TripRecord is the persisted form of one executed trip.
// Corresponds to the trip_records table in PostgreSQL.
type TripRecord struct {
	TripID     string // deterministic hash, see idhash
	TrainName  string // executing train
	RouteName  string // traversed route
	ExecutedAt int64  // Unix timestamp in milliseconds
	Seed       int64  // random source seed used for the trip

	// Request
	CargoWeight    float64 // cargo load
	CargoRatePerKm float64 // contracted rate

	// Outcome
	Completed      bool
	RequiresRepair bool
	RequiresRefuel bool
	Revenue        float64
	RepairCost     float64
	FuelCost       float64
	NetProfit      float64
	DistanceKm     float64
	DamageTaken    float64
	Events         []string // trip log in occurrence order
}

// TrainRecord is a persisted snapshot of mutable train state.
// Corresponds to the trains table in PostgreSQL. Attached parts are
// stored by catalog name in attachment order.
type TrainRecord struct {
	Name              string
	BaseSpeed         float64
	BaseMaxDurability float64
	BaseCargoCapacity float64
	BaseFuelPerKm     float64
	CurrentDurability float64
	FuelLevel         float64
	PartNames         []string
	UpdatedAt         int64 // Unix timestamp in milliseconds
}

// SegmentRecord is a persisted snapshot of one route segment.
// Stored as part of the owning RouteRecord.
type SegmentRecord struct {
	Name       string  `json:"name"`
	DistanceKm float64 `json:"distance_km"`
	Roughness  float64 `json:"roughness"`
	WearLevel  float64 `json:"wear_level"`
}

// RouteRecord is a persisted snapshot of mutable route state.
// Corresponds to the routes table in PostgreSQL; segments are stored as
// an ordered JSONB document.
type RouteRecord struct {
	Name      string
	Segments  []SegmentRecord
	UpdatedAt int64 // Unix timestamp in milliseconds
}

// SegmentWearPoint is one wear telemetry sample, taken per segment after
// each trip. Corresponds to the segment_wear table in ClickHouse.
type SegmentWearPoint struct {
	RouteName          string  // owning route
	SegmentName        string  // sampled segment
	TripID             string  // trip that produced the sample
	RecordedAt         int64   // Unix timestamp in milliseconds
	WearLevel          float64 // wear level after the trip
	EffectiveRoughness float64 // effective roughness after the trip
}
