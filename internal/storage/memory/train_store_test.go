package memory

import (
	"context"
	"errors"
	"testing"

	"rail-freight-lab/internal/domain"
	"rail-freight-lab/internal/storage"
)

func TestTrainStore_InsertAndGet(t *testing.T) {
	store := NewTrainStore()
	ctx := context.Background()

	train := &domain.TrainRecord{
		Name:              "Nomad",
		BaseSpeed:         90,
		BaseMaxDurability: 100,
		BaseCargoCapacity: 60,
		BaseFuelPerKm:     0.18,
		CurrentDurability: 125,
		FuelLevel:         100,
		PartNames:         []string{"Reinforced Wheels"},
	}

	if err := store.Insert(ctx, train); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByName(ctx, "Nomad")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}

	if got.BaseSpeed != 90 {
		t.Errorf("BaseSpeed mismatch: got %f, want %f", got.BaseSpeed, 90.0)
	}
	if len(got.PartNames) != 1 || got.PartNames[0] != "Reinforced Wheels" {
		t.Errorf("PartNames mismatch: %v", got.PartNames)
	}
}

func TestTrainStore_DuplicateKey(t *testing.T) {
	store := NewTrainStore()
	ctx := context.Background()

	train := &domain.TrainRecord{Name: "Nomad", BaseSpeed: 90}

	if err := store.Insert(ctx, train); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, train)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestTrainStore_Update(t *testing.T) {
	store := NewTrainStore()
	ctx := context.Background()

	train := &domain.TrainRecord{Name: "Nomad", CurrentDurability: 100, FuelLevel: 100}
	if err := store.Insert(ctx, train); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	train.CurrentDurability = 58.6
	train.FuelLevel = 63.28
	if err := store.Update(ctx, train); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, _ := store.GetByName(ctx, "Nomad")
	if got.CurrentDurability != 58.6 {
		t.Errorf("CurrentDurability not updated: got %f", got.CurrentDurability)
	}
	if got.FuelLevel != 63.28 {
		t.Errorf("FuelLevel not updated: got %f", got.FuelLevel)
	}
}

func TestTrainStore_UpdateMissing(t *testing.T) {
	store := NewTrainStore()
	ctx := context.Background()

	err := store.Update(ctx, &domain.TrainRecord{Name: "ghost"})
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestTrainStore_ListOrdered(t *testing.T) {
	store := NewTrainStore()
	ctx := context.Background()

	for _, name := range []string{"Scout", "Nomad", "Hauler"} {
		if err := store.Insert(ctx, &domain.TrainRecord{Name: name}); err != nil {
			t.Fatalf("Insert(%s) failed: %v", name, err)
		}
	}

	list, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	want := []string{"Hauler", "Nomad", "Scout"}
	if len(list) != len(want) {
		t.Fatalf("Expected %d trains, got %d", len(want), len(list))
	}
	for i, name := range want {
		if list[i].Name != name {
			t.Errorf("Position %d: expected %s, got %s", i, name, list[i].Name)
		}
	}
}
