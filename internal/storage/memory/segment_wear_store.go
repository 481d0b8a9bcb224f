package memory

import (
	"context"
	"sort"
	"sync"

	"rail-freight-lab/internal/domain"
	"rail-freight-lab/internal/storage"
)

// SegmentWearStore is an in-memory implementation of storage.SegmentWearStore.
// Wear telemetry is append-only; duplicates are not checked.
type SegmentWearStore struct {
	mu   sync.RWMutex
	data []*domain.SegmentWearPoint
}

// NewSegmentWearStore creates a new in-memory segment wear store.
func NewSegmentWearStore() *SegmentWearStore {
	return &SegmentWearStore{}
}

// InsertBulk adds multiple wear points.
func (s *SegmentWearStore) InsertBulk(_ context.Context, points []*domain.SegmentWearPoint) error {
	if len(points) == 0 {
		return nil
	}

	for _, p := range points {
		if p == nil || p.RouteName == "" || p.SegmentName == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range points {
		pointCopy := *p
		s.data = append(s.data, &pointCopy)
	}

	return nil
}

// GetByRoute retrieves all points for a route, ordered by recorded_at ASC.
func (s *SegmentWearStore) GetByRoute(_ context.Context, routeName string) ([]*domain.SegmentWearPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SegmentWearPoint
	for _, p := range s.data {
		if p.RouteName == routeName {
			pointCopy := *p
			result = append(result, &pointCopy)
		}
	}

	sortWearPoints(result)
	return result, nil
}

// GetByRouteSegment retrieves all points for one segment of a route,
// ordered by recorded_at ASC.
func (s *SegmentWearStore) GetByRouteSegment(_ context.Context, routeName, segmentName string) ([]*domain.SegmentWearPoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SegmentWearPoint
	for _, p := range s.data {
		if p.RouteName == routeName && p.SegmentName == segmentName {
			pointCopy := *p
			result = append(result, &pointCopy)
		}
	}

	sortWearPoints(result)
	return result, nil
}

func sortWearPoints(points []*domain.SegmentWearPoint) {
	sort.Slice(points, func(i, j int) bool {
		return points[i].RecordedAt < points[j].RecordedAt
	})
}

var _ storage.SegmentWearStore = (*SegmentWearStore)(nil)
