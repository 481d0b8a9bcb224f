package clickhouse

import (
	"context"
	"fmt"

	"rail-freight-lab/internal/domain"
	"rail-freight-lab/internal/storage"
)

// SegmentWearStore implements storage.SegmentWearStore using ClickHouse.
// MergeTree does not enforce uniqueness; telemetry rows are trusted to
// be unique per (trip_id, segment_name) by construction.
type SegmentWearStore struct {
	conn *Conn
}

// NewSegmentWearStore creates a new SegmentWearStore.
func NewSegmentWearStore(conn *Conn) *SegmentWearStore {
	return &SegmentWearStore{conn: conn}
}

// Compile-time interface check.
var _ storage.SegmentWearStore = (*SegmentWearStore)(nil)

// InsertBulk adds multiple wear points.
func (s *SegmentWearStore) InsertBulk(ctx context.Context, points []*domain.SegmentWearPoint) error {
	if len(points) == 0 {
		return nil
	}

	for _, p := range points {
		if p == nil || p.RouteName == "" || p.SegmentName == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO segment_wear (
			route_name, segment_name, trip_id, recorded_at, wear_level, effective_roughness
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		err = batch.Append(
			p.RouteName, p.SegmentName, p.TripID,
			uint64(p.RecordedAt), p.WearLevel, p.EffectiveRoughness,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRoute retrieves all points for a route, ordered by recorded_at ASC.
func (s *SegmentWearStore) GetByRoute(ctx context.Context, routeName string) ([]*domain.SegmentWearPoint, error) {
	query := `
		SELECT route_name, segment_name, trip_id, recorded_at, wear_level, effective_roughness
		FROM segment_wear
		WHERE route_name = ?
		ORDER BY recorded_at ASC
	`

	rows, err := s.conn.Query(ctx, query, routeName)
	if err != nil {
		return nil, fmt.Errorf("query by route: %w", err)
	}
	defer rows.Close()

	return scanWearPoints(rows)
}

// GetByRouteSegment retrieves all points for one segment of a route,
// ordered by recorded_at ASC.
func (s *SegmentWearStore) GetByRouteSegment(ctx context.Context, routeName, segmentName string) ([]*domain.SegmentWearPoint, error) {
	query := `
		SELECT route_name, segment_name, trip_id, recorded_at, wear_level, effective_roughness
		FROM segment_wear
		WHERE route_name = ? AND segment_name = ?
		ORDER BY recorded_at ASC
	`

	rows, err := s.conn.Query(ctx, query, routeName, segmentName)
	if err != nil {
		return nil, fmt.Errorf("query by route/segment: %w", err)
	}
	defer rows.Close()

	return scanWearPoints(rows)
}

// chRows is the subset of driver.Rows the scanners need.
type chRows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// scanWearPoints scans multiple rows into a slice.
func scanWearPoints(rows chRows) ([]*domain.SegmentWearPoint, error) {
	var points []*domain.SegmentWearPoint

	for rows.Next() {
		var p domain.SegmentWearPoint
		var recordedAt uint64

		err := rows.Scan(
			&p.RouteName, &p.SegmentName, &p.TripID,
			&recordedAt, &p.WearLevel, &p.EffectiveRoughness,
		)
		if err != nil {
			return nil, fmt.Errorf("scan segment wear row: %w", err)
		}

		p.RecordedAt = int64(recordedAt)
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate segment wear rows: %w", err)
	}

	return points, nil
}
