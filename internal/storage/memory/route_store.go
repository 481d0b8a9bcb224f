package memory

import (
	"context"
	"sort"
	"sync"

	"rail-freight-lab/internal/domain"
	"rail-freight-lab/internal/storage"
)

// RouteStore is an in-memory implementation of storage.RouteStore.
type RouteStore struct {
	mu   sync.RWMutex
	data map[string]*domain.RouteRecord // keyed by name
}

// NewRouteStore creates a new in-memory route store.
func NewRouteStore() *RouteStore {
	return &RouteStore{
		data: make(map[string]*domain.RouteRecord),
	}
}

func copyRoute(r *domain.RouteRecord) *domain.RouteRecord {
	routeCopy := *r
	if r.Segments != nil {
		routeCopy.Segments = append([]domain.SegmentRecord(nil), r.Segments...)
	}
	return &routeCopy
}

// Insert adds a new route. Returns ErrDuplicateKey if name exists.
func (s *RouteStore) Insert(_ context.Context, r *domain.RouteRecord) error {
	if r == nil || r.Name == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.Name]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[r.Name] = copyRoute(r)
	return nil
}

// GetByName retrieves a route by name. Returns ErrNotFound if not exists.
func (s *RouteStore) GetByName(_ context.Context, name string) (*domain.RouteRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.data[name]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return copyRoute(r), nil
}

// Update overwrites the state of an existing route.
func (s *RouteStore) Update(_ context.Context, r *domain.RouteRecord) error {
	if r == nil || r.Name == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[r.Name]; !exists {
		return storage.ErrNotFound
	}

	s.data[r.Name] = copyRoute(r)
	return nil
}

// List retrieves all routes, ordered by name ASC.
func (s *RouteStore) List(_ context.Context) ([]*domain.RouteRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.RouteRecord, 0, len(s.data))
	for _, r := range s.data {
		result = append(result, copyRoute(r))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result, nil
}

var _ storage.RouteStore = (*RouteStore)(nil)
