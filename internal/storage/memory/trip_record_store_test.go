package memory

import (
	"context"
	"errors"
	"testing"

	"rail-freight-lab/internal/domain"
	"rail-freight-lab/internal/storage"
)

func TestTripRecordStore_InsertAndGet(t *testing.T) {
	store := NewTripRecordStore()
	ctx := context.Background()

	trip := &domain.TripRecord{
		TripID:     "trip1",
		TrainName:  "Nomad",
		RouteName:  "Steppe",
		ExecutedAt: 1000,
		Seed:       42,
		Completed:  true,
		Revenue:    4400.00,
		NetProfit:  4193.24,
		Events:     []string{"Segment 'river bend' requires maintenance."},
	}

	if err := store.Insert(ctx, trip); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "trip1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if got.Revenue != 4400.00 {
		t.Errorf("Revenue mismatch: got %f, want %f", got.Revenue, 4400.00)
	}
	if len(got.Events) != 1 {
		t.Errorf("Expected 1 event, got %d", len(got.Events))
	}
}

func TestTripRecordStore_DuplicateKey(t *testing.T) {
	store := NewTripRecordStore()
	ctx := context.Background()

	trip := &domain.TripRecord{TripID: "trip1", TrainName: "Nomad", RouteName: "Steppe"}

	if err := store.Insert(ctx, trip); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, trip)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestTripRecordStore_NotFound(t *testing.T) {
	store := NewTripRecordStore()
	ctx := context.Background()

	_, err := store.GetByID(ctx, "nonexistent")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestTripRecordStore_GetByTrainRoute(t *testing.T) {
	store := NewTripRecordStore()
	ctx := context.Background()

	trips := []*domain.TripRecord{
		{TripID: "t3", TrainName: "Nomad", RouteName: "Steppe", ExecutedAt: 3000},
		{TripID: "t1", TrainName: "Nomad", RouteName: "Steppe", ExecutedAt: 1000},
		{TripID: "t2", TrainName: "Nomad", RouteName: "Coastal", ExecutedAt: 2000},
		{TripID: "t4", TrainName: "Scout", RouteName: "Steppe", ExecutedAt: 4000},
	}
	for _, trip := range trips {
		if err := store.Insert(ctx, trip); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	result, err := store.GetByTrainRoute(ctx, "Nomad", "Steppe")
	if err != nil {
		t.Fatalf("GetByTrainRoute failed: %v", err)
	}

	if len(result) != 2 {
		t.Fatalf("Expected 2 trips, got %d", len(result))
	}
	if result[0].TripID != "t1" || result[1].TripID != "t3" {
		t.Errorf("Results not ordered by executed_at: %s, %s", result[0].TripID, result[1].TripID)
	}
}

func TestTripRecordStore_GetAllOrdersByTimeThenID(t *testing.T) {
	store := NewTripRecordStore()
	ctx := context.Background()

	trips := []*domain.TripRecord{
		{TripID: "b", TrainName: "Nomad", RouteName: "Steppe", ExecutedAt: 1000},
		{TripID: "a", TrainName: "Nomad", RouteName: "Steppe", ExecutedAt: 1000},
		{TripID: "c", TrainName: "Nomad", RouteName: "Steppe", ExecutedAt: 500},
	}
	for _, trip := range trips {
		if err := store.Insert(ctx, trip); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	all, err := store.GetAll(ctx)
	if err != nil {
		t.Fatalf("GetAll failed: %v", err)
	}

	want := []string{"c", "a", "b"}
	for i, id := range want {
		if all[i].TripID != id {
			t.Errorf("Position %d: expected %s, got %s", i, id, all[i].TripID)
		}
	}
}

func TestTripRecordStore_CopyOnRead(t *testing.T) {
	store := NewTripRecordStore()
	ctx := context.Background()

	trip := &domain.TripRecord{
		TripID:    "trip1",
		TrainName: "Nomad",
		RouteName: "Steppe",
		Events:    []string{"original"},
	}
	if err := store.Insert(ctx, trip); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, _ := store.GetByID(ctx, "trip1")
	got.Events[0] = "mutated"
	got.Revenue = 999

	again, _ := store.GetByID(ctx, "trip1")
	if again.Events[0] != "original" {
		t.Error("Stored events slice was mutated through a read copy")
	}
	if again.Revenue != 0 {
		t.Error("Stored record was mutated through a read copy")
	}
}

func TestTripRecordStore_InvalidInput(t *testing.T) {
	store := NewTripRecordStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil, got %v", err)
	}

	if err := store.Insert(ctx, &domain.TripRecord{TripID: ""}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty ID, got %v", err)
	}
}
