package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"rail-freight-lab/internal/domain"
	"rail-freight-lab/internal/storage"
)

// RouteStore implements storage.RouteStore using PostgreSQL.
// The ordered segment list is stored as a JSONB document; segment order
// is load-bearing and arrays preserve it.
type RouteStore struct {
	pool *Pool
}

// NewRouteStore creates a new RouteStore.
func NewRouteStore(pool *Pool) *RouteStore {
	return &RouteStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RouteStore = (*RouteStore)(nil)

// Insert adds a new route. Returns ErrDuplicateKey if name exists.
func (s *RouteStore) Insert(ctx context.Context, r *domain.RouteRecord) error {
	segments, err := json.Marshal(r.Segments)
	if err != nil {
		return fmt.Errorf("marshal route segments: %w", err)
	}

	query := `
		INSERT INTO routes (name, segments, updated_at)
		VALUES ($1, $2, $3)
	`

	_, err = s.pool.Exec(ctx, query, r.Name, segments, r.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert route: %w", err)
	}
	return nil
}

// GetByName retrieves a route by name. Returns ErrNotFound if not exists.
func (s *RouteStore) GetByName(ctx context.Context, name string) (*domain.RouteRecord, error) {
	query := `
		SELECT name, segments, updated_at
		FROM routes
		WHERE name = $1
	`

	row := s.pool.QueryRow(ctx, query, name)
	r, err := scanRoute(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get route by name: %w", err)
	}
	return r, nil
}

// Update overwrites the state of an existing route.
func (s *RouteStore) Update(ctx context.Context, r *domain.RouteRecord) error {
	segments, err := json.Marshal(r.Segments)
	if err != nil {
		return fmt.Errorf("marshal route segments: %w", err)
	}

	query := `
		UPDATE routes SET segments = $2, updated_at = $3
		WHERE name = $1
	`

	tag, err := s.pool.Exec(ctx, query, r.Name, segments, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update route: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// List retrieves all routes, ordered by name ASC.
func (s *RouteStore) List(ctx context.Context) ([]*domain.RouteRecord, error) {
	query := `
		SELECT name, segments, updated_at
		FROM routes
		ORDER BY name ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list routes: %w", err)
	}
	defer rows.Close()

	var routes []*domain.RouteRecord
	for rows.Next() {
		r, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("scan route row: %w", err)
		}
		routes = append(routes, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate route rows: %w", err)
	}

	return routes, nil
}

// scanRoute scans a single row into a RouteRecord.
func scanRoute(row pgx.Row) (*domain.RouteRecord, error) {
	var (
		r        domain.RouteRecord
		segments []byte
	)

	if err := row.Scan(&r.Name, &segments, &r.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(segments, &r.Segments); err != nil {
		return nil, fmt.Errorf("unmarshal route segments: %w", err)
	}

	return &r, nil
}
