package memory

import (
	"context"
	"sort"
	"sync"

	"rail-freight-lab/internal/domain"
	"rail-freight-lab/internal/storage"
)

// TripRecordStore is an in-memory implementation of storage.TripRecordStore.
type TripRecordStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TripRecord // keyed by trip_id
}

// NewTripRecordStore creates a new in-memory trip record store.
func NewTripRecordStore() *TripRecordStore {
	return &TripRecordStore{
		data: make(map[string]*domain.TripRecord),
	}
}

func copyTrip(t *domain.TripRecord) *domain.TripRecord {
	tripCopy := *t
	if t.Events != nil {
		tripCopy.Events = append([]string(nil), t.Events...)
	}
	return &tripCopy
}

// Insert adds a new trip. Returns ErrDuplicateKey if trip_id exists.
func (s *TripRecordStore) Insert(_ context.Context, t *domain.TripRecord) error {
	if t == nil || t.TripID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.TripID]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[t.TripID] = copyTrip(t)
	return nil
}

// GetByID retrieves a trip by its ID. Returns ErrNotFound if not exists.
func (s *TripRecordStore) GetByID(_ context.Context, tripID string) (*domain.TripRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.data[tripID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return copyTrip(t), nil
}

// GetByTrainRoute retrieves all trips for a train/route combination,
// ordered by executed_at ASC, trip_id ASC.
func (s *TripRecordStore) GetByTrainRoute(_ context.Context, trainName, routeName string) ([]*domain.TripRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TripRecord
	for _, t := range s.data {
		if t.TrainName == trainName && t.RouteName == routeName {
			result = append(result, copyTrip(t))
		}
	}

	sortTrips(result)
	return result, nil
}

// GetAll retrieves all trips, ordered by executed_at ASC, trip_id ASC.
func (s *TripRecordStore) GetAll(_ context.Context) ([]*domain.TripRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.TripRecord, 0, len(s.data))
	for _, t := range s.data {
		result = append(result, copyTrip(t))
	}

	sortTrips(result)
	return result, nil
}

func sortTrips(trips []*domain.TripRecord) {
	sort.Slice(trips, func(i, j int) bool {
		if trips[i].ExecutedAt != trips[j].ExecutedAt {
			return trips[i].ExecutedAt < trips[j].ExecutedAt
		}
		return trips[i].TripID < trips[j].TripID
	})
}

var _ storage.TripRecordStore = (*TripRecordStore)(nil)
