package simulation

import (
	"context"
	"time"

	"rail-freight-lab/internal/domain"
	"rail-freight-lab/internal/idhash"
	"rail-freight-lab/internal/rng"
	"rail-freight-lab/internal/storage"
)

// Runner executes store-backed trips: it rehydrates train and route
// state, runs the engine with a per-trip seeded random source, and
// persists the trip record, the updated snapshots and the segment wear
// telemetry.
type Runner struct {
	trainStore storage.TrainStore
	routeStore storage.RouteStore
	tripStore  storage.TripRecordStore
	wearStore  storage.SegmentWearStore
	now        func() time.Time
}

// RunnerOptions contains configuration for creating a Runner.
// TrainStore and RouteStore are required; TripStore and WearStore may be
// nil when persistence of outcomes is not wanted.
type RunnerOptions struct {
	TrainStore storage.TrainStore
	RouteStore storage.RouteStore
	TripStore  storage.TripRecordStore
	WearStore  storage.SegmentWearStore

	// Now is an injectable clock for deterministic trip IDs in tests.
	Now func() time.Time
}

// NewRunner creates a trip runner.
func NewRunner(opts RunnerOptions) *Runner {
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Runner{
		trainStore: opts.TrainStore,
		routeStore: opts.RouteStore,
		tripStore:  opts.TripStore,
		wearStore:  opts.WearStore,
		now:        now,
	}
}

// Run executes one trip of the named train over the named route.
// Steps:
//  1. Load and rehydrate the train
//  2. Load and rehydrate the route
//  3. Build the trip request
//  4. Execute the trip with a source seeded from seed
//  5. Build the TripRecord (deterministic trip ID)
//  6. Persist the trip record
//  7. Persist the updated train and route snapshots
//  8. Persist per-segment wear telemetry
func (r *Runner) Run(ctx context.Context, trainName, routeName string, cargoWeight, ratePerKm float64, seed int64) (*domain.TripRecord, error) {
	// 1. Load and rehydrate the train
	trainRec, err := r.trainStore.GetByName(ctx, trainName)
	if err != nil {
		return nil, err // propagates storage.ErrNotFound
	}
	train, err := domain.NewTrainFromRecord(*trainRec)
	if err != nil {
		return nil, err
	}

	// 2. Load and rehydrate the route
	routeRec, err := r.routeStore.GetByName(ctx, routeName)
	if err != nil {
		return nil, err
	}
	route, err := domain.NewRouteFromRecord(*routeRec)
	if err != nil {
		return nil, err
	}

	// 3. Build the trip request
	req, err := domain.NewTripRequest(route, cargoWeight, ratePerKm)
	if err != nil {
		return nil, err
	}

	// 4. Execute the trip
	engine := NewEngine(rng.NewSeededSource(seed))
	result, err := engine.ExecuteTrip(ctx, train, req)
	if err != nil {
		return nil, err
	}

	// 5. Build the trip record
	executedAt := r.now().UnixMilli()
	record := &domain.TripRecord{
		TripID:         idhash.ComputeTripID(trainName, routeName, executedAt, cargoWeight),
		TrainName:      trainName,
		RouteName:      routeName,
		ExecutedAt:     executedAt,
		Seed:           seed,
		CargoWeight:    cargoWeight,
		CargoRatePerKm: ratePerKm,
		Completed:      result.Completed,
		RequiresRepair: result.RequiresRepair,
		RequiresRefuel: result.RequiresRefuel,
		Revenue:        result.Revenue,
		RepairCost:     result.RepairCost,
		FuelCost:       result.FuelCost,
		NetProfit:      result.NetProfit(),
		DistanceKm:     result.DistanceKm,
		DamageTaken:    result.DamageTaken,
		Events:         result.Events,
	}

	// 6. Persist the trip record
	if r.tripStore != nil {
		if err := r.tripStore.Insert(ctx, record); err != nil {
			return nil, err
		}
	}

	// 7. Persist the updated train and route snapshots
	trainSnap := train.Snapshot()
	trainSnap.UpdatedAt = executedAt
	if err := r.trainStore.Update(ctx, &trainSnap); err != nil {
		return nil, err
	}

	routeSnap := route.Snapshot()
	routeSnap.UpdatedAt = executedAt
	if err := r.routeStore.Update(ctx, &routeSnap); err != nil {
		return nil, err
	}

	// 8. Persist per-segment wear telemetry
	if r.wearStore != nil {
		points := make([]*domain.SegmentWearPoint, 0, route.SegmentCount())
		for _, seg := range route.Segments() {
			points = append(points, &domain.SegmentWearPoint{
				RouteName:          routeName,
				SegmentName:        seg.Name(),
				TripID:             record.TripID,
				RecordedAt:         executedAt,
				WearLevel:          seg.WearLevel(),
				EffectiveRoughness: seg.EffectiveRoughness(),
			})
		}
		if err := r.wearStore.InsertBulk(ctx, points); err != nil {
			return nil, err
		}
	}

	return record, nil
}
