package metrics

import (
	"context"
	"errors"

	"rail-freight-lab/internal/domain"
	"rail-freight-lab/internal/storage"
)

// ErrNoTrips is returned when no trips are available for aggregation.
var ErrNoTrips = errors.New("no trips available for aggregation")

// Aggregator computes fleet aggregates from trip records.
type Aggregator struct {
	tripStore storage.TripRecordStore
}

// NewAggregator creates a new metrics aggregator.
func NewAggregator(tripStore storage.TripRecordStore) *Aggregator {
	return &Aggregator{tripStore: tripStore}
}

// ComputeForTrainRoute computes the aggregate over all trips of one
// train/route pair. Returns ErrNoTrips if none exist.
func (a *Aggregator) ComputeForTrainRoute(ctx context.Context, trainName, routeName string) (*domain.FleetAggregate, error) {
	trips, err := a.tripStore.GetByTrainRoute(ctx, trainName, routeName)
	if err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		return nil, ErrNoTrips
	}

	agg := computeFromTrips(trips)
	agg.TrainName = trainName
	agg.RouteName = routeName
	return agg, nil
}

// ComputeFleet computes the aggregate over every recorded trip.
// Returns ErrNoTrips if the store is empty.
func (a *Aggregator) ComputeFleet(ctx context.Context) (*domain.FleetAggregate, error) {
	trips, err := a.tripStore.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		return nil, ErrNoTrips
	}

	return computeFromTrips(trips), nil
}
