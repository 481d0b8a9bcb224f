package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"rail-freight-lab/internal/domain"
	"rail-freight-lab/internal/storage"
)

// TripRecordStore implements storage.TripRecordStore using PostgreSQL.
type TripRecordStore struct {
	pool *Pool
}

// NewTripRecordStore creates a new TripRecordStore.
func NewTripRecordStore(pool *Pool) *TripRecordStore {
	return &TripRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TripRecordStore = (*TripRecordStore)(nil)

const tripRecordColumns = `
	trip_id, train_name, route_name, executed_at, seed,
	cargo_weight, cargo_rate_per_km,
	completed, requires_repair, requires_refuel,
	revenue, repair_cost, fuel_cost, net_profit,
	distance_km, damage_taken, events
`

// Insert adds a new trip. Returns ErrDuplicateKey if trip_id exists.
func (s *TripRecordStore) Insert(ctx context.Context, t *domain.TripRecord) error {
	query := `
		INSERT INTO trip_records (` + tripRecordColumns + `)
		VALUES (
			$1, $2, $3, $4, $5,
			$6, $7,
			$8, $9, $10,
			$11, $12, $13, $14,
			$15, $16, $17
		)
	`

	_, err := s.pool.Exec(ctx, query,
		t.TripID, t.TrainName, t.RouteName, t.ExecutedAt, t.Seed,
		t.CargoWeight, t.CargoRatePerKm,
		t.Completed, t.RequiresRepair, t.RequiresRefuel,
		t.Revenue, t.RepairCost, t.FuelCost, t.NetProfit,
		t.DistanceKm, t.DamageTaken, t.Events,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trip record: %w", err)
	}
	return nil
}

// GetByID retrieves a trip by its ID. Returns ErrNotFound if not exists.
func (s *TripRecordStore) GetByID(ctx context.Context, tripID string) (*domain.TripRecord, error) {
	query := `
		SELECT ` + tripRecordColumns + `
		FROM trip_records
		WHERE trip_id = $1
	`

	row := s.pool.QueryRow(ctx, query, tripID)
	t, err := scanTripRecord(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get trip record by id: %w", err)
	}
	return t, nil
}

// GetByTrainRoute retrieves all trips for a train/route combination.
func (s *TripRecordStore) GetByTrainRoute(ctx context.Context, trainName, routeName string) ([]*domain.TripRecord, error) {
	query := `
		SELECT ` + tripRecordColumns + `
		FROM trip_records
		WHERE train_name = $1 AND route_name = $2
		ORDER BY executed_at ASC, trip_id ASC
	`

	rows, err := s.pool.Query(ctx, query, trainName, routeName)
	if err != nil {
		return nil, fmt.Errorf("get trip records by train/route: %w", err)
	}
	defer rows.Close()

	return scanTripRecords(rows)
}

// GetAll retrieves all trips.
func (s *TripRecordStore) GetAll(ctx context.Context) ([]*domain.TripRecord, error) {
	query := `
		SELECT ` + tripRecordColumns + `
		FROM trip_records
		ORDER BY executed_at ASC, trip_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all trip records: %w", err)
	}
	defer rows.Close()

	return scanTripRecords(rows)
}

// scanTripRecord scans a single row into a TripRecord.
func scanTripRecord(row pgx.Row) (*domain.TripRecord, error) {
	var t domain.TripRecord

	err := row.Scan(
		&t.TripID, &t.TrainName, &t.RouteName, &t.ExecutedAt, &t.Seed,
		&t.CargoWeight, &t.CargoRatePerKm,
		&t.Completed, &t.RequiresRepair, &t.RequiresRefuel,
		&t.Revenue, &t.RepairCost, &t.FuelCost, &t.NetProfit,
		&t.DistanceKm, &t.DamageTaken, &t.Events,
	)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// scanTripRecords scans multiple rows into a slice of TripRecord.
func scanTripRecords(rows pgx.Rows) ([]*domain.TripRecord, error) {
	var trips []*domain.TripRecord

	for rows.Next() {
		var t domain.TripRecord

		err := rows.Scan(
			&t.TripID, &t.TrainName, &t.RouteName, &t.ExecutedAt, &t.Seed,
			&t.CargoWeight, &t.CargoRatePerKm,
			&t.Completed, &t.RequiresRepair, &t.RequiresRefuel,
			&t.Revenue, &t.RepairCost, &t.FuelCost, &t.NetProfit,
			&t.DistanceKm, &t.DamageTaken, &t.Events,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trip record row: %w", err)
		}

		trips = append(trips, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trip record rows: %w", err)
	}

	return trips, nil
}
