package domain

import (
	"errors"
	"math"
	"testing"
)

func mustTrain(t *testing.T, name string, speed, durability, capacity, fuelPerKm float64) *Train {
	t.Helper()
	tr, err := NewTrain(name, speed, durability, capacity, fuelPerKm)
	if err != nil {
		t.Fatalf("NewTrain(%s) failed: %v", name, err)
	}
	return tr
}

func TestNewTrain_Validation(t *testing.T) {
	cases := []struct {
		name      string
		trainName string
		speed     float64
		dur       float64
		cap       float64
		fuel      float64
		wantErr   error
	}{
		{"empty name", "", 90, 100, 60, 0.18, ErrEmptyName},
		{"zero speed", "t", 0, 100, 60, 0.18, ErrNonPositiveSpeed},
		{"zero durability", "t", 90, 0, 60, 0.18, ErrNonPositiveDurability},
		{"negative capacity", "t", 90, 100, -1, 0.18, ErrNegativeCargoCapacity},
		{"zero fuel rate", "t", 90, 100, 60, 0, ErrNonPositiveFuelRate},
	}

	for _, tc := range cases {
		_, err := NewTrain(tc.trainName, tc.speed, tc.dur, tc.cap, tc.fuel)
		if !errors.Is(err, tc.wantErr) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestNewTrain_InitialState(t *testing.T) {
	tr := mustTrain(t, "Nomad", 90, 100, 60, 0.18)

	if tr.CurrentDurability() != 100 {
		t.Errorf("expected full durability 100, got %f", tr.CurrentDurability())
	}
	if tr.FuelLevel() != FuelTankCapacity {
		t.Errorf("expected full tank %f, got %f", FuelTankCapacity, tr.FuelLevel())
	}
	if tr.CargoCapacity() != 60 {
		t.Errorf("expected capacity 60, got %f", tr.CargoCapacity())
	}
}

func TestTrain_DerivedStatsWithParts(t *testing.T) {
	// Scenario: base 100 speed / 120 durability / 50 capacity / 0.2 fuel,
	// TurboEngine + CargoPods.
	tr := mustTrain(t, "Builder", 100, 120, 50, 0.2)

	if err := tr.AddPart(&PartTurboEngine); err != nil {
		t.Fatalf("AddPart failed: %v", err)
	}
	if err := tr.AddPart(&PartCargoPods); err != nil {
		t.Fatalf("AddPart failed: %v", err)
	}

	if got := tr.EffectiveSpeed(); math.Abs(got-113.28) > 1e-6 {
		t.Errorf("expected effective speed 113.28, got %f", got)
	}
	if got := tr.CargoCapacity(); got != 70 {
		t.Errorf("expected cargo capacity 70, got %f", got)
	}
	if got := tr.EffectiveFuelPerKilometer(); math.Abs(got-0.17654) > 1e-6 {
		t.Errorf("expected fuel per km 0.17654, got %f", got)
	}
}

func TestTrain_PartAttachmentIsCommutative(t *testing.T) {
	parts := []*TrainPart{&PartTurboEngine, &PartCargoPods, &PartReinforcedWheels, &PartLightAlloyFrame}

	forward := mustTrain(t, "fwd", 90, 100, 60, 0.18)
	for _, p := range parts {
		if err := forward.AddPart(p); err != nil {
			t.Fatalf("AddPart failed: %v", err)
		}
	}

	backward := mustTrain(t, "bwd", 90, 100, 60, 0.18)
	for i := len(parts) - 1; i >= 0; i-- {
		if err := backward.AddPart(parts[i]); err != nil {
			t.Fatalf("AddPart failed: %v", err)
		}
	}

	if math.Abs(forward.EffectiveSpeed()-backward.EffectiveSpeed()) > 1e-9 {
		t.Errorf("effective speed depends on attachment order: %f vs %f",
			forward.EffectiveSpeed(), backward.EffectiveSpeed())
	}
	if math.Abs(forward.EffectiveFuelPerKilometer()-backward.EffectiveFuelPerKilometer()) > 1e-9 {
		t.Errorf("fuel per km depends on attachment order: %f vs %f",
			forward.EffectiveFuelPerKilometer(), backward.EffectiveFuelPerKilometer())
	}
	if forward.MaxDurability() != backward.MaxDurability() {
		t.Errorf("max durability depends on attachment order")
	}
}

func TestTrain_AddPartClampsDurabilityDown(t *testing.T) {
	tr := mustTrain(t, "t", 90, 100, 60, 0.18)

	// LightAlloyFrame shrinks max durability below current
	if err := tr.AddPart(&PartLightAlloyFrame); err != nil {
		t.Fatalf("AddPart failed: %v", err)
	}

	if tr.MaxDurability() != 85 {
		t.Errorf("expected max durability 85, got %f", tr.MaxDurability())
	}
	if tr.CurrentDurability() != 85 {
		t.Errorf("current durability must clamp to new max, got %f", tr.CurrentDurability())
	}

	if err := tr.AddPart(nil); !errors.Is(err, ErrNilPart) {
		t.Errorf("expected ErrNilPart, got %v", err)
	}
}

func TestTrain_DurabilityStaysInBounds(t *testing.T) {
	tr := mustTrain(t, "t", 90, 100, 60, 0.18)

	if err := tr.ApplyDamage(250); err != nil {
		t.Fatalf("ApplyDamage failed: %v", err)
	}
	if tr.CurrentDurability() != 0 {
		t.Errorf("durability must floor at 0, got %f", tr.CurrentDurability())
	}

	if err := tr.Repair(1e6); err != nil {
		t.Fatalf("Repair failed: %v", err)
	}
	if tr.CurrentDurability() != tr.MaxDurability() {
		t.Errorf("durability must cap at max, got %f", tr.CurrentDurability())
	}

	if err := tr.ApplyDamage(-1); !errors.Is(err, ErrNegativeAmount) {
		t.Errorf("expected ErrNegativeAmount, got %v", err)
	}
	if err := tr.Repair(-1); !errors.Is(err, ErrNegativeAmount) {
		t.Errorf("expected ErrNegativeAmount, got %v", err)
	}
}

func TestTrain_FuelOperations(t *testing.T) {
	tr := mustTrain(t, "t", 90, 100, 60, 0.18)

	if err := tr.ConsumeFuel(40); err != nil {
		t.Fatalf("ConsumeFuel failed: %v", err)
	}
	if tr.FuelLevel() != 60 {
		t.Errorf("expected fuel 60, got %f", tr.FuelLevel())
	}

	if err := tr.ConsumeFuel(500); err != nil {
		t.Fatalf("ConsumeFuel failed: %v", err)
	}
	if tr.FuelLevel() != 0 {
		t.Errorf("fuel must floor at 0, got %f", tr.FuelLevel())
	}

	tr.RefuelToFull()
	if tr.FuelLevel() != FuelTankCapacity {
		t.Errorf("expected full tank after refuel, got %f", tr.FuelLevel())
	}

	if err := tr.ConsumeFuel(-1); !errors.Is(err, ErrNegativeAmount) {
		t.Errorf("expected ErrNegativeAmount, got %v", err)
	}
}

func TestTrain_SnapshotRoundTrip(t *testing.T) {
	tr := mustTrain(t, "Nomad", 90, 100, 60, 0.18)
	if err := tr.AddPart(&PartReinforcedWheels); err != nil {
		t.Fatalf("AddPart failed: %v", err)
	}
	if err := tr.ApplyDamage(30); err != nil {
		t.Fatalf("ApplyDamage failed: %v", err)
	}
	if err := tr.ConsumeFuel(25); err != nil {
		t.Fatalf("ConsumeFuel failed: %v", err)
	}

	rebuilt, err := NewTrainFromRecord(tr.Snapshot())
	if err != nil {
		t.Fatalf("NewTrainFromRecord failed: %v", err)
	}

	if rebuilt.CurrentDurability() != tr.CurrentDurability() {
		t.Errorf("durability mismatch: %f vs %f", rebuilt.CurrentDurability(), tr.CurrentDurability())
	}
	if rebuilt.FuelLevel() != tr.FuelLevel() {
		t.Errorf("fuel mismatch: %f vs %f", rebuilt.FuelLevel(), tr.FuelLevel())
	}
	if rebuilt.MaxDurability() != tr.MaxDurability() {
		t.Errorf("max durability mismatch: %f vs %f", rebuilt.MaxDurability(), tr.MaxDurability())
	}
	if len(rebuilt.Parts()) != 1 {
		t.Errorf("expected 1 part after rebuild, got %d", len(rebuilt.Parts()))
	}
}

func TestNewTrainFromRecord_UnknownPart(t *testing.T) {
	rec := TrainRecord{
		Name:              "ghost",
		BaseSpeed:         90,
		BaseMaxDurability: 100,
		BaseCargoCapacity: 60,
		BaseFuelPerKm:     0.18,
		CurrentDurability: 100,
		FuelLevel:         100,
		PartNames:         []string{"WarpDrive"},
	}

	_, err := NewTrainFromRecord(rec)
	if !errors.Is(err, ErrUnknownPart) {
		t.Errorf("expected ErrUnknownPart, got %v", err)
	}
}

func TestPartByName(t *testing.T) {
	for _, name := range CatalogPartNames() {
		p, err := PartByName(name)
		if err != nil {
			t.Fatalf("PartByName(%s) failed: %v", name, err)
		}
		if p.Name != name {
			t.Errorf("catalog name mismatch: %s vs %s", p.Name, name)
		}
	}

	if _, err := PartByName("WarpDrive"); !errors.Is(err, ErrUnknownPart) {
		t.Errorf("expected ErrUnknownPart, got %v", err)
	}
}
