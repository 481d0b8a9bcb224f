package domain

import "errors"

// ErrUnknownPart is returned when a part name is not in the catalog.
var ErrUnknownPart = errors.New("unknown part name")

// Predefined upgrade parts. The catalog is the reference set used by the
// entry points and by persistence rehydration; trains accept any
// TrainPart value, catalog or not.
var (
	PartReinforcedWheels = TrainPart{
		Name:                     "ReinforcedWheels",
		Type:                     PartTypeChassis,
		DurabilityBoost:          25,
		SpeedMultiplier:          0.97,
		CargoCapacityBoost:       0,
		FuelEfficiencyMultiplier: 1.02,
		Cost:                     900,
	}

	PartTurboEngine = TrainPart{
		Name:                     "TurboEngine",
		Type:                     PartTypeEngine,
		DurabilityBoost:          0,
		SpeedMultiplier:          1.18,
		CargoCapacityBoost:       0,
		FuelEfficiencyMultiplier: 0.91,
		Cost:                     2400,
	}

	PartCargoPods = TrainPart{
		Name:                     "CargoPods",
		Type:                     PartTypeCargo,
		DurabilityBoost:          0,
		SpeedMultiplier:          0.96,
		CargoCapacityBoost:       20,
		FuelEfficiencyMultiplier: 0.97,
		Cost:                     1500,
	}

	PartLightAlloyFrame = TrainPart{
		Name:                     "LightAlloyFrame",
		Type:                     PartTypeWagon,
		DurabilityBoost:          -15,
		SpeedMultiplier:          1.06,
		CargoCapacityBoost:       0,
		FuelEfficiencyMultiplier: 0.94,
		Cost:                     1100,
	}
)

// catalog indexes the predefined parts by name.
var catalog = map[string]*TrainPart{
	PartReinforcedWheels.Name: &PartReinforcedWheels,
	PartTurboEngine.Name:      &PartTurboEngine,
	PartCargoPods.Name:        &PartCargoPods,
	PartLightAlloyFrame.Name:  &PartLightAlloyFrame,
}

// PartByName resolves a catalog part by its name.
// Returns ErrUnknownPart if the name is not in the catalog.
func PartByName(name string) (*TrainPart, error) {
	p, ok := catalog[name]
	if !ok {
		return nil, ErrUnknownPart
	}
	return p, nil
}

// CatalogPartNames returns the catalog part names in stable order.
func CatalogPartNames() []string {
	return []string{
		PartReinforcedWheels.Name,
		PartTurboEngine.Name,
		PartCargoPods.Name,
		PartLightAlloyFrame.Name,
	}
}
