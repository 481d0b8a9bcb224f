// Package simulation executes trips: a train traverses a route segment
// by segment, consuming fuel, taking mechanical damage and wearing the
// track down, until the route ends or fuel/durability runs out.
//
// All randomness flows through the injected rng.Source, so a trip is a
// pure function of (train state, route state, random sequence).
package simulation

import (
	"context"
	"errors"
	"fmt"
	"math"

	"rail-freight-lab/internal/domain"
	"rail-freight-lab/internal/rng"
)

// Engine precondition errors. These mark caller mistakes, never trip
// outcomes; business-rule failures are encoded in the TripResult.
var (
	ErrNilTrain   = errors.New("train must not be nil")
	ErrNilRequest = errors.New("trip request must not be nil")
)

// Simulation coefficients.
const (
	// fuelPricePerUnit converts consumed fuel units into currency.
	fuelPricePerUnit = 1.8

	// damagePerRoughKm is the raw mechanical damage per kilometer at
	// effective roughness 1.
	damagePerRoughKm = 0.28

	// Damage randomness: factor drawn in [0.9, 1.15).
	damageRandomBase = 0.9
	damageRandomSpan = 0.25

	// cargoLoadCoeff scales damage with relative cargo load.
	cargoLoadCoeff = 0.35

	// Track wear per crossed segment: base plus a cargo-weight term,
	// scaled by a factor drawn in [0.7, 1.3).
	baseWearPerSegment = 0.004
	wearCargoDivisor   = 20000.0
	wearRandomBase     = 0.7
	wearRandomSpan     = 0.6

	// maintenanceWearThreshold triggers a maintenance-needed event.
	maintenanceWearThreshold = 0.8

	// repairCostPerPoint converts lost durability into currency.
	repairCostPerPoint = 3.4

	// Post-trip servicing flags.
	repairFlagRatio = 0.65
	refuelFlagLevel = 25.0

	// completionToleranceKm guards the floating-point distance sum.
	completionToleranceKm = 0.001
)

// Trip event text.
const (
	eventCargoAboveCapacity = "Cargo is above train capacity."
	eventTrainBroken        = "Train is broken and can not continue."
)

// Engine executes trips against a single random source.
type Engine struct {
	random rng.Source
}

// NewEngine creates an engine. random must not be nil; production code
// passes a seeded source, tests a scripted one.
func NewEngine(random rng.Source) *Engine {
	return &Engine{random: random}
}

// ExecuteTrip runs one trip of train over the requested route.
//
// The engine mutates the train (fuel, durability) and the route's
// segments (wear) in place; the caller owns both exclusively for the
// duration of the call. Two random reads occur per processed segment,
// damage factor first, wear factor second.
//
// Steps:
//  1. Capacity gate: overweight cargo is rejected before any traversal
//  2. Per segment: fuel check, fuel burn, damage, distance, track wear,
//     maintenance alert, breakdown check
//  3. Completion by distance within tolerance
//  4. Revenue, pro-rated on partial trips
//  5. Repair cost from durability lost, regardless of completion
func (e *Engine) ExecuteTrip(_ context.Context, train *domain.Train, req *domain.TripRequest) (*domain.TripResult, error) {
	if train == nil {
		return nil, ErrNilTrain
	}
	if req == nil {
		return nil, ErrNilRequest
	}

	// 1. Capacity gate
	if req.CargoWeight() > train.CargoCapacity() {
		return &domain.TripResult{
			Events: []string{eventCargoAboveCapacity},
		}, nil
	}

	var (
		distanceTravelled float64
		damageTaken       float64
		fuelCost          float64
		events            []string
	)

	route := req.Route()

	// 2. Traverse segments in order
	for _, seg := range route.Segments() {
		// 2a. Fuel check: stop before entering a segment the train
		// cannot cross
		fuelRequired := seg.DistanceKm() * train.EffectiveFuelPerKilometer()
		if train.FuelLevel() < fuelRequired {
			events = append(events, fmt.Sprintf("Out of fuel near segment '%s'.", seg.Name()))
			break
		}

		// 2b. Burn fuel and accrue its cost
		if err := train.ConsumeFuel(fuelRequired); err != nil {
			return nil, err
		}
		fuelCost += fuelRequired * fuelPricePerUnit

		// 2c. Mechanical damage: track roughness scaled by randomness
		// and relative cargo load
		raw := seg.DistanceKm() * seg.EffectiveRoughness() * damagePerRoughKm
		randomFactor := damageRandomBase + e.random.Fraction()*damageRandomSpan
		loadFactor := 1 + (req.CargoWeight()/math.Max(1, train.CargoCapacity()))*cargoLoadCoeff
		damage := raw * randomFactor * loadFactor
		if err := train.ApplyDamage(damage); err != nil {
			return nil, err
		}
		damageTaken += damage

		// 2d. Distance
		distanceTravelled += seg.DistanceKm()

		// 2e. Track wear left behind by the crossing
		wear := (baseWearPerSegment + req.CargoWeight()/wearCargoDivisor) *
			(wearRandomBase + e.random.Fraction()*wearRandomSpan)
		if err := seg.Degrade(wear); err != nil {
			return nil, err
		}

		// 2f. Maintenance alert, non-terminating
		if seg.WearLevel() >= maintenanceWearThreshold {
			events = append(events, fmt.Sprintf("Segment '%s' requires maintenance.", seg.Name()))
		}

		// 2g. Breakdown check
		if train.CurrentDurability() == 0 {
			events = append(events, eventTrainBroken)
			break
		}
	}

	// 3. Completion by distance within tolerance
	totalDistance := route.TotalDistanceKm()
	completed := math.Abs(distanceTravelled-totalDistance) <= completionToleranceKm

	// 4. Revenue: full when completed, pro-rated linearly otherwise.
	// totalDistance > 0 per the Route construction invariant.
	revenue := req.ProjectedGrossRevenue()
	if !completed {
		revenue *= distanceTravelled / totalDistance
	}

	// 5. Repair cost from durability lost, regardless of completion
	repairCost := (train.MaxDurability() - train.CurrentDurability()) * repairCostPerPoint

	return &domain.TripResult{
		Completed:      completed,
		RequiresRepair: train.CurrentDurability() < repairFlagRatio*train.MaxDurability(),
		RequiresRefuel: train.FuelLevel() < refuelFlagLevel,
		Revenue:        round2(revenue),
		RepairCost:     round2(repairCost),
		FuelCost:       round2(fuelCost),
		DistanceKm:     distanceTravelled,
		DamageTaken:    damageTaken,
		Events:         events,
	}, nil
}

// round2 rounds currency figures to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
