package memory

import (
	"context"
	"sort"
	"sync"

	"rail-freight-lab/internal/domain"
	"rail-freight-lab/internal/storage"
)

// TrainStore is an in-memory implementation of storage.TrainStore.
type TrainStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TrainRecord // keyed by name
}

// NewTrainStore creates a new in-memory train store.
func NewTrainStore() *TrainStore {
	return &TrainStore{
		data: make(map[string]*domain.TrainRecord),
	}
}

func copyTrain(t *domain.TrainRecord) *domain.TrainRecord {
	trainCopy := *t
	if t.PartNames != nil {
		trainCopy.PartNames = append([]string(nil), t.PartNames...)
	}
	return &trainCopy
}

// Insert adds a new train. Returns ErrDuplicateKey if name exists.
func (s *TrainStore) Insert(_ context.Context, t *domain.TrainRecord) error {
	if t == nil || t.Name == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.Name]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[t.Name] = copyTrain(t)
	return nil
}

// GetByName retrieves a train by name. Returns ErrNotFound if not exists.
func (s *TrainStore) GetByName(_ context.Context, name string) (*domain.TrainRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, exists := s.data[name]
	if !exists {
		return nil, storage.ErrNotFound
	}

	return copyTrain(t), nil
}

// Update overwrites the state of an existing train.
func (s *TrainStore) Update(_ context.Context, t *domain.TrainRecord) error {
	if t == nil || t.Name == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[t.Name]; !exists {
		return storage.ErrNotFound
	}

	s.data[t.Name] = copyTrain(t)
	return nil
}

// List retrieves all trains, ordered by name ASC.
func (s *TrainStore) List(_ context.Context) ([]*domain.TrainRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.TrainRecord, 0, len(s.data))
	for _, t := range s.data {
		result = append(result, copyTrain(t))
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result, nil
}

var _ storage.TrainStore = (*TrainStore)(nil)
