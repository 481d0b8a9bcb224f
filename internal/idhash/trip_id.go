// Package idhash computes deterministic identifiers for persisted records.
package idhash

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

// ComputeTripID computes a deterministic trip_id.
// Formula: base58(SHA256(train_name|route_name|executed_at|cargo_weight)).
// The same trip inputs always yield the same ID, so re-running a batch
// against the same store surfaces duplicates instead of double-counting.
func ComputeTripID(trainName, routeName string, executedAt int64, cargoWeight float64) string {
	data := fmt.Sprintf("%s|%s|%d|%.6f",
		trainName,
		routeName,
		executedAt,
		cargoWeight,
	)

	hash := sha256.Sum256([]byte(data))
	return base58.Encode(hash[:])
}
