package domain

import "errors"

// Train construction errors.
var (
	ErrNonPositiveSpeed      = errors.New("base speed must be greater than zero")
	ErrNonPositiveDurability = errors.New("base max durability must be greater than zero")
	ErrNegativeCargoCapacity = errors.New("base cargo capacity must not be negative")
	ErrNonPositiveFuelRate   = errors.New("base fuel per kilometer must be greater than zero")
	ErrNilPart               = errors.New("part must not be nil")
)

// FuelTankCapacity is the fuel level a train is refueled to.
const FuelTankCapacity = 100.0

// Train is the mutable vehicle: base stats fixed at construction, a list
// of attached parts, and the durability/fuel state the simulation engine
// mutates during a trip.
//
// Durability always stays within [0, maxDurability] and fuel never drops
// below zero; every mutator clamps.
type Train struct {
	name               string
	baseSpeed          float64
	baseMaxDurability  float64
	baseCargoCapacity  float64
	baseFuelPerKm      float64
	currentDurability  float64
	fuelLevel          float64
	parts              []TrainPart
}

// NewTrain creates a train with full durability and a full tank.
func NewTrain(name string, baseSpeed, baseMaxDurability, baseCargoCapacity, baseFuelPerKm float64) (*Train, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if baseSpeed <= 0 {
		return nil, ErrNonPositiveSpeed
	}
	if baseMaxDurability <= 0 {
		return nil, ErrNonPositiveDurability
	}
	if baseCargoCapacity < 0 {
		return nil, ErrNegativeCargoCapacity
	}
	if baseFuelPerKm <= 0 {
		return nil, ErrNonPositiveFuelRate
	}

	t := &Train{
		name:              name,
		baseSpeed:         baseSpeed,
		baseMaxDurability: baseMaxDurability,
		baseCargoCapacity: baseCargoCapacity,
		baseFuelPerKm:     baseFuelPerKm,
		fuelLevel:         FuelTankCapacity,
	}
	t.currentDurability = t.MaxDurability()
	return t, nil
}

// Name returns the train name.
func (t *Train) Name() string { return t.name }

// BaseSpeed returns the unmodified speed.
func (t *Train) BaseSpeed() float64 { return t.baseSpeed }

// CurrentDurability returns the remaining structural health.
func (t *Train) CurrentDurability() float64 { return t.currentDurability }

// FuelLevel returns the remaining fuel.
func (t *Train) FuelLevel() float64 { return t.fuelLevel }

// Parts returns a copy of the attached parts in attachment order.
func (t *Train) Parts() []TrainPart {
	out := make([]TrainPart, len(t.parts))
	copy(out, t.parts)
	return out
}

// MaxDurability folds the additive durability boosts over the base value.
func (t *Train) MaxDurability() float64 {
	max := t.baseMaxDurability
	for _, p := range t.parts {
		max += p.DurabilityBoost
	}
	return max
}

// EffectiveSpeed folds the speed multipliers over the base speed.
// Attachment order does not change the product.
func (t *Train) EffectiveSpeed() float64 {
	speed := t.baseSpeed
	for _, p := range t.parts {
		speed *= p.SpeedMultiplier
	}
	return speed
}

// CargoCapacity folds the additive cargo boosts over the base capacity.
func (t *Train) CargoCapacity() float64 {
	cap := t.baseCargoCapacity
	for _, p := range t.parts {
		cap += p.CargoCapacityBoost
	}
	return cap
}

// EffectiveFuelPerKilometer folds the fuel-efficiency multipliers over
// the base consumption rate.
func (t *Train) EffectiveFuelPerKilometer() float64 {
	rate := t.baseFuelPerKm
	for _, p := range t.parts {
		rate *= p.FuelEfficiencyMultiplier
	}
	return rate
}

// AddPart attaches a part. A part that shrinks max durability clamps the
// current durability down immediately.
func (t *Train) AddPart(p *TrainPart) error {
	if p == nil {
		return ErrNilPart
	}
	t.parts = append(t.parts, *p)
	t.clampDurability()
	return nil
}

// ConsumeFuel lowers the fuel level by amount, floored at zero.
func (t *Train) ConsumeFuel(amount float64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	t.fuelLevel -= amount
	if t.fuelLevel < 0 {
		t.fuelLevel = 0
	}
	return nil
}

// RefuelToFull resets the fuel level to the tank capacity.
func (t *Train) RefuelToFull() {
	t.fuelLevel = FuelTankCapacity
}

// ApplyDamage lowers the current durability by amount, floored at zero.
func (t *Train) ApplyDamage(amount float64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	t.currentDurability -= amount
	if t.currentDurability < 0 {
		t.currentDurability = 0
	}
	return nil
}

// Repair raises the current durability by amount, capped at max.
func (t *Train) Repair(amount float64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	t.currentDurability += amount
	t.clampDurability()
	return nil
}

// clampDurability keeps currentDurability within [0, MaxDurability].
func (t *Train) clampDurability() {
	max := t.MaxDurability()
	if t.currentDurability > max {
		t.currentDurability = max
	}
	if t.currentDurability < 0 {
		t.currentDurability = 0
	}
}

// Snapshot returns a persistable copy of the train state. Attached parts
// are recorded by catalog name.
func (t *Train) Snapshot() TrainRecord {
	names := make([]string, len(t.parts))
	for i, p := range t.parts {
		names[i] = p.Name
	}
	return TrainRecord{
		Name:              t.name,
		BaseSpeed:         t.baseSpeed,
		BaseMaxDurability: t.baseMaxDurability,
		BaseCargoCapacity: t.baseCargoCapacity,
		BaseFuelPerKm:     t.baseFuelPerKm,
		CurrentDurability: t.currentDurability,
		FuelLevel:         t.fuelLevel,
		PartNames:         names,
	}
}

// NewTrainFromRecord rebuilds a train from a persisted snapshot.
// Part names are resolved through the catalog.
func NewTrainFromRecord(rec TrainRecord) (*Train, error) {
	t, err := NewTrain(rec.Name, rec.BaseSpeed, rec.BaseMaxDurability, rec.BaseCargoCapacity, rec.BaseFuelPerKm)
	if err != nil {
		return nil, err
	}
	for _, name := range rec.PartNames {
		p, err := PartByName(name)
		if err != nil {
			return nil, err
		}
		if err := t.AddPart(p); err != nil {
			return nil, err
		}
	}

	t.currentDurability = rec.CurrentDurability
	t.clampDurability()

	t.fuelLevel = rec.FuelLevel
	if t.fuelLevel < 0 {
		t.fuelLevel = 0
	}
	return t, nil
}
