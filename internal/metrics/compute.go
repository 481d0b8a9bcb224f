// Package metrics computes fleet-level statistics from trip records.
package metrics

import (
	"math"
	"sort"

	"rail-freight-lab/internal/domain"
)

// computeFromTrips calculates all metrics from a slice of trips.
// Trips are sorted by ExecutedAt ASC, TripID ASC before computing
// order-dependent metrics (MaxConsecutiveIncomplete).
func computeFromTrips(trips []*domain.TripRecord) *domain.FleetAggregate {
	n := len(trips)
	if n == 0 {
		return &domain.FleetAggregate{}
	}

	// Sort trips deterministically by ExecutedAt ASC, TripID ASC
	sortedTrips := make([]*domain.TripRecord, n)
	copy(sortedTrips, trips)
	sort.Slice(sortedTrips, func(i, j int) bool {
		if sortedTrips[i].ExecutedAt != sortedTrips[j].ExecutedAt {
			return sortedTrips[i].ExecutedAt < sortedTrips[j].ExecutedAt
		}
		return sortedTrips[i].TripID < sortedTrips[j].TripID
	})

	completed := 0
	var totalRevenue, totalRepair, totalFuel, totalNet, totalDistance, totalDamage float64
	profits := make([]float64, n)
	for i, t := range sortedTrips {
		if t.Completed {
			completed++
		}
		totalRevenue += t.Revenue
		totalRepair += t.RepairCost
		totalFuel += t.FuelCost
		totalNet += t.NetProfit
		totalDistance += t.DistanceKm
		totalDamage += t.DamageTaken
		profits[i] = t.NetProfit
	}

	// Sort profits for percentile calculations
	sortedProfits := make([]float64, n)
	copy(sortedProfits, profits)
	sort.Float64s(sortedProfits)

	mean := computeMean(profits)

	return &domain.FleetAggregate{
		TotalTrips:     n,
		CompletedTrips: completed,
		CompletionRate: float64(completed) / float64(n),

		NetProfitMean:   mean,
		NetProfitMedian: computePercentile(sortedProfits, 0.50),
		NetProfitP10:    computePercentile(sortedProfits, 0.10),
		NetProfitP90:    computePercentile(sortedProfits, 0.90),
		NetProfitMin:    sortedProfits[0],
		NetProfitMax:    sortedProfits[n-1],
		NetProfitStddev: computeStddev(profits, mean),

		TotalRevenue:    totalRevenue,
		TotalRepairCost: totalRepair,
		TotalFuelCost:   totalFuel,
		TotalNetProfit:  totalNet,
		TotalDistanceKm: totalDistance,

		MeanDamageTaken: totalDamage / float64(n),

		MaxConsecutiveIncomplete: computeMaxConsecutiveIncomplete(sortedTrips),
	}
}

// computeMean calculates arithmetic mean.
func computeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// computeStddev calculates sample standard deviation (n-1 denominator).
func computeStddev(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// computePercentile uses linear interpolation.
// sorted must be pre-sorted ASC.
// p is percentile (0.10 = 10th percentile).
func computePercentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

// computeMaxConsecutiveIncomplete finds the longest streak of trips
// that did not complete. Trips must be in chronological order.
func computeMaxConsecutiveIncomplete(trips []*domain.TripRecord) int {
	maxStreak := 0
	currentStreak := 0

	for _, t := range trips {
		if !t.Completed {
			currentStreak++
			if currentStreak > maxStreak {
				maxStreak = currentStreak
			}
		} else {
			currentStreak = 0
		}
	}
	return maxStreak
}
