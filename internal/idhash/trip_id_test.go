package idhash

import "testing"

func TestComputeTripID_Deterministic(t *testing.T) {
	a := ComputeTripID("Nomad", "steppe", 1700000000000, 40)
	b := ComputeTripID("Nomad", "steppe", 1700000000000, 40)

	if a != b {
		t.Errorf("same inputs produced different IDs: %s vs %s", a, b)
	}
	if a == "" {
		t.Error("empty trip ID")
	}
}

func TestComputeTripID_InputSensitivity(t *testing.T) {
	base := ComputeTripID("Nomad", "steppe", 1700000000000, 40)

	variants := []string{
		ComputeTripID("Scout", "steppe", 1700000000000, 40),
		ComputeTripID("Nomad", "tundra", 1700000000000, 40),
		ComputeTripID("Nomad", "steppe", 1700000000001, 40),
		ComputeTripID("Nomad", "steppe", 1700000000000, 40.5),
	}

	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d collided with base ID", i)
		}
	}
}

func TestComputeTripID_NoDelimiterCollision(t *testing.T) {
	// The field separator must keep adjacent fields apart
	a := ComputeTripID("Nomad|x", "steppe", 1, 0)
	b := ComputeTripID("Nomad", "x|steppe", 1, 0)

	if a == b {
		t.Error("delimiter ambiguity produced colliding IDs")
	}
}
