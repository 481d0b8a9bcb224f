package domain

import "errors"

// Validation errors shared by entity constructors and mutators.
var (
	ErrEmptyName           = errors.New("name must not be empty")
	ErrNonPositiveDistance = errors.New("distance must be greater than zero")
	ErrRoughnessOutOfRange = errors.New("roughness must be within [0, 1]")
	ErrWearOutOfRange      = errors.New("wear level must be within [0, 1]")
	ErrNegativeAmount      = errors.New("amount must not be negative")
)

// wearRoughnessCoeff controls how strongly accumulated wear raises a
// segment's effective roughness.
const wearRoughnessCoeff = 0.6

// RouteSegment is one leg of a route: fixed distance and base roughness,
// plus a mutable wear level. Wear raises effective roughness and thus the
// damage a train takes while crossing the segment.
//
// Wear is mutated only through Degrade and Maintain, which clamp the
// level to [0, 1] regardless of input magnitude.
type RouteSegment struct {
	name       string
	distanceKm float64
	roughness  float64 // base track difficulty in [0, 1]
	wearLevel  float64 // accumulated degradation in [0, 1]
}

// NewRouteSegment creates a segment with the given initial wear level.
// Pass 0 for a freshly laid track.
func NewRouteSegment(name string, distanceKm, roughness, initialWear float64) (*RouteSegment, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if distanceKm <= 0 {
		return nil, ErrNonPositiveDistance
	}
	if roughness < 0 || roughness > 1 {
		return nil, ErrRoughnessOutOfRange
	}
	if initialWear < 0 || initialWear > 1 {
		return nil, ErrWearOutOfRange
	}

	return &RouteSegment{
		name:       name,
		distanceKm: distanceKm,
		roughness:  roughness,
		wearLevel:  initialWear,
	}, nil
}

// Name returns the segment name.
func (s *RouteSegment) Name() string { return s.name }

// DistanceKm returns the segment length in kilometers.
func (s *RouteSegment) DistanceKm() float64 { return s.distanceKm }

// Roughness returns the base track difficulty in [0, 1].
func (s *RouteSegment) Roughness() float64 { return s.roughness }

// WearLevel returns the accumulated degradation in [0, 1].
func (s *RouteSegment) WearLevel() float64 { return s.wearLevel }

// Quality returns 1 - wearLevel.
func (s *RouteSegment) Quality() float64 { return 1 - s.wearLevel }

// EffectiveRoughness returns the base roughness raised by accumulated
// wear, clamped to [0, 1].
func (s *RouteSegment) EffectiveRoughness() float64 {
	return clamp01(s.roughness + s.wearLevel*wearRoughnessCoeff)
}

// Degrade raises the wear level by amount, clamped to [0, 1].
func (s *RouteSegment) Degrade(amount float64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	s.wearLevel = clamp01(s.wearLevel + amount)
	return nil
}

// Maintain lowers the wear level by amount, clamped to [0, 1].
func (s *RouteSegment) Maintain(amount float64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	s.wearLevel = clamp01(s.wearLevel - amount)
	return nil
}

// Snapshot returns a persistable copy of the segment state.
func (s *RouteSegment) Snapshot() SegmentRecord {
	return SegmentRecord{
		Name:       s.name,
		DistanceKm: s.distanceKm,
		Roughness:  s.roughness,
		WearLevel:  s.wearLevel,
	}
}

// clamp01 clamps v to [0, 1].
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
