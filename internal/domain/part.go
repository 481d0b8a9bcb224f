package domain

// PartType is the categorical tag of an upgrade part. It carries no
// behavior; all part effects live in the numeric deltas.
type PartType string

// Part type constants.
const (
	PartTypeEngine  PartType = "ENGINE"
	PartTypeWagon   PartType = "WAGON"
	PartTypeCargo   PartType = "CARGO"
	PartTypeChassis PartType = "CHASSIS"
)

// TrainPart is an immutable modifier bundle attached to a train.
// Durability and cargo boosts compose additively into the train's derived
// stats; speed and fuel-efficiency multipliers compose multiplicatively.
// Parts are catalog constants and are never mutated.
type TrainPart struct {
	Name                     string   // catalog name, unique
	Type                     PartType // categorical tag
	DurabilityBoost          float64  // added to max durability (may be negative)
	SpeedMultiplier          float64  // multiplied into effective speed
	CargoCapacityBoost       float64  // added to cargo capacity
	FuelEfficiencyMultiplier float64  // multiplied into fuel per kilometer
	Cost                     float64  // purchase price
}
