// Package rng provides the randomness seam of the simulation engine.
// Production code injects a seeded source; tests inject a scripted one,
// which makes every trip a pure function of its inputs.
package rng

import (
	"errors"
	"math/rand"
)

// ErrFractionOutOfRange is returned when a scripted value is outside [0, 1).
var ErrFractionOutOfRange = errors.New("scripted fraction must be within [0, 1)")

// neutralFraction is replayed by a scripted source once its sequence is
// exhausted.
const neutralFraction = 0.5

// Source produces fractions in the half-open interval [0, 1).
type Source interface {
	// Fraction returns the next fraction in [0, 1).
	Fraction() float64
}

// SeededSource is a reproducible pseudo-random source: the same seed
// yields the same infinite sequence.
type SeededSource struct {
	rand *rand.Rand
}

// NewSeededSource creates a source for the given seed.
func NewSeededSource(seed int64) *SeededSource {
	return &SeededSource{rand: rand.New(rand.NewSource(seed))}
}

// Fraction returns the next pseudo-random fraction in [0, 1).
func (s *SeededSource) Fraction() float64 {
	return s.rand.Float64()
}

// ScriptedSource replays a fixed sequence of fractions and falls back to
// the neutral value 0.5 once the sequence is exhausted. It never fails
// mid-run, so a test may script only the reads it cares about.
type ScriptedSource struct {
	values []float64
	cursor int
}

// NewScriptedSource creates a source replaying the given values in order.
func NewScriptedSource(values ...float64) (*ScriptedSource, error) {
	for _, v := range values {
		if v < 0 || v >= 1 {
			return nil, ErrFractionOutOfRange
		}
	}

	owned := make([]float64, len(values))
	copy(owned, values)
	return &ScriptedSource{values: owned}, nil
}

// Fraction returns the next scripted value, or 0.5 when exhausted.
func (s *ScriptedSource) Fraction() float64 {
	if s.cursor >= len(s.values) {
		return neutralFraction
	}
	v := s.values[s.cursor]
	s.cursor++
	return v
}

// Remaining returns how many scripted values are left.
func (s *ScriptedSource) Remaining() int {
	if s.cursor >= len(s.values) {
		return 0
	}
	return len(s.values) - s.cursor
}

// Compile-time interface checks.
var (
	_ Source = (*SeededSource)(nil)
	_ Source = (*ScriptedSource)(nil)
)
