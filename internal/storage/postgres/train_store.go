package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"rail-freight-lab/internal/domain"
	"rail-freight-lab/internal/storage"
)

// TrainStore implements storage.TrainStore using PostgreSQL.
// Installed parts are stored by catalog name in a text[] column.
type TrainStore struct {
	pool *Pool
}

// NewTrainStore creates a new TrainStore.
func NewTrainStore(pool *Pool) *TrainStore {
	return &TrainStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TrainStore = (*TrainStore)(nil)

const trainColumns = `
	name, base_speed, base_max_durability, base_cargo_capacity, base_fuel_per_km,
	current_durability, fuel_level, part_names, updated_at
`

// Insert adds a new train. Returns ErrDuplicateKey if name exists.
func (s *TrainStore) Insert(ctx context.Context, t *domain.TrainRecord) error {
	query := `
		INSERT INTO trains (` + trainColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.pool.Exec(ctx, query,
		t.Name, t.BaseSpeed, t.BaseMaxDurability, t.BaseCargoCapacity, t.BaseFuelPerKm,
		t.CurrentDurability, t.FuelLevel, t.PartNames, t.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert train: %w", err)
	}
	return nil
}

// GetByName retrieves a train by name. Returns ErrNotFound if not exists.
func (s *TrainStore) GetByName(ctx context.Context, name string) (*domain.TrainRecord, error) {
	query := `
		SELECT ` + trainColumns + `
		FROM trains
		WHERE name = $1
	`

	row := s.pool.QueryRow(ctx, query, name)
	t, err := scanTrain(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get train by name: %w", err)
	}
	return t, nil
}

// Update overwrites the state of an existing train.
func (s *TrainStore) Update(ctx context.Context, t *domain.TrainRecord) error {
	query := `
		UPDATE trains SET
			base_speed = $2,
			base_max_durability = $3,
			base_cargo_capacity = $4,
			base_fuel_per_km = $5,
			current_durability = $6,
			fuel_level = $7,
			part_names = $8,
			updated_at = $9
		WHERE name = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		t.Name, t.BaseSpeed, t.BaseMaxDurability, t.BaseCargoCapacity, t.BaseFuelPerKm,
		t.CurrentDurability, t.FuelLevel, t.PartNames, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update train: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// List retrieves all trains, ordered by name ASC.
func (s *TrainStore) List(ctx context.Context) ([]*domain.TrainRecord, error) {
	query := `
		SELECT ` + trainColumns + `
		FROM trains
		ORDER BY name ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list trains: %w", err)
	}
	defer rows.Close()

	var trains []*domain.TrainRecord
	for rows.Next() {
		t, err := scanTrain(rows)
		if err != nil {
			return nil, fmt.Errorf("scan train row: %w", err)
		}
		trains = append(trains, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate train rows: %w", err)
	}

	return trains, nil
}

// scanTrain scans a single row into a TrainRecord.
func scanTrain(row pgx.Row) (*domain.TrainRecord, error) {
	var t domain.TrainRecord

	err := row.Scan(
		&t.Name, &t.BaseSpeed, &t.BaseMaxDurability, &t.BaseCargoCapacity, &t.BaseFuelPerKm,
		&t.CurrentDurability, &t.FuelLevel, &t.PartNames, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
