// Package storage defines the persistence interfaces of the lab.
// Implementations live in the memory, postgres and clickhouse
// subpackages; callers depend only on these interfaces.
package storage

import (
	"context"

	"rail-freight-lab/internal/domain"
)

// TripRecordStore provides access to trip_records storage. Append-only.
type TripRecordStore interface {
	// Insert adds a new trip. Returns ErrDuplicateKey if trip_id exists.
	Insert(ctx context.Context, t *domain.TripRecord) error

	// GetByID retrieves a trip by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, tripID string) (*domain.TripRecord, error)

	// GetByTrainRoute retrieves all trips for a train/route combination,
	// ordered by executed_at ASC, trip_id ASC.
	GetByTrainRoute(ctx context.Context, trainName, routeName string) ([]*domain.TripRecord, error)

	// GetAll retrieves all trips, ordered by executed_at ASC, trip_id ASC.
	GetAll(ctx context.Context) ([]*domain.TripRecord, error)
}

// TrainStore provides access to train state snapshots.
type TrainStore interface {
	// Insert adds a new train. Returns ErrDuplicateKey if name exists.
	Insert(ctx context.Context, t *domain.TrainRecord) error

	// GetByName retrieves a train by name. Returns ErrNotFound if not exists.
	GetByName(ctx context.Context, name string) (*domain.TrainRecord, error)

	// Update overwrites the state of an existing train.
	// Returns ErrNotFound if the train does not exist.
	Update(ctx context.Context, t *domain.TrainRecord) error

	// List retrieves all trains, ordered by name ASC.
	List(ctx context.Context) ([]*domain.TrainRecord, error)
}

// RouteStore provides access to route state snapshots.
type RouteStore interface {
	// Insert adds a new route. Returns ErrDuplicateKey if name exists.
	Insert(ctx context.Context, r *domain.RouteRecord) error

	// GetByName retrieves a route by name. Returns ErrNotFound if not exists.
	GetByName(ctx context.Context, name string) (*domain.RouteRecord, error)

	// Update overwrites the state of an existing route.
	// Returns ErrNotFound if the route does not exist.
	Update(ctx context.Context, r *domain.RouteRecord) error

	// List retrieves all routes, ordered by name ASC.
	List(ctx context.Context) ([]*domain.RouteRecord, error)
}

// SegmentWearStore provides access to segment wear telemetry. Append-only.
type SegmentWearStore interface {
	// InsertBulk adds multiple wear points.
	InsertBulk(ctx context.Context, points []*domain.SegmentWearPoint) error

	// GetByRoute retrieves all points for a route, ordered by recorded_at ASC.
	GetByRoute(ctx context.Context, routeName string) ([]*domain.SegmentWearPoint, error)

	// GetByRouteSegment retrieves all points for one segment of a route,
	// ordered by recorded_at ASC.
	GetByRouteSegment(ctx context.Context, routeName, segmentName string) ([]*domain.SegmentWearPoint, error)
}
