package reporting

import (
	"context"
	"sort"
	"time"

	"rail-freight-lab/internal/domain"
	"rail-freight-lab/internal/metrics"
	"rail-freight-lab/internal/storage"
)

// Servicing thresholds, matching the post-trip flags on TripResult.
const (
	repairThresholdRatio = 0.65
	refuelThresholdLevel = 25.0
	maintenanceWearLevel = 0.8
)

// Generator produces reports from stored data.
type Generator struct {
	tripStore  storage.TripRecordStore
	trainStore storage.TrainStore
	routeStore storage.RouteStore
	now        func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(
	tripStore storage.TripRecordStore,
	trainStore storage.TrainStore,
	routeStore storage.RouteStore,
) *Generator {
	return &Generator{
		tripStore:  tripStore,
		trainStore: trainStore,
		routeStore: routeStore,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces a complete fleet operations report.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	trips, err := g.tripStore.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	trains, err := g.trainStore.List(ctx)
	if err != nil {
		return nil, err
	}

	routes, err := g.routeStore.List(ctx)
	if err != nil {
		return nil, err
	}

	pairMetrics, err := g.generatePairMetrics(ctx, trips)
	if err != nil {
		return nil, err
	}

	wearRows, err := generateRouteWear(routes)
	if err != nil {
		return nil, err
	}

	servicing, err := generateServicing(trains)
	if err != nil {
		return nil, err
	}

	return &Report{
		GeneratedAt:  g.now(),
		TrainCount:   len(trains),
		RouteCount:   len(routes),
		FleetSummary: generateFleetSummary(trips),
		PairMetrics:  pairMetrics,
		RouteWear:    wearRows,
		Servicing:    servicing,
	}, nil
}

// generateFleetSummary computes fleet-wide totals.
// Trips arrive ordered by executed_at ASC from the store.
func generateFleetSummary(trips []*domain.TripRecord) FleetSummary {
	s := FleetSummary{TotalTrips: len(trips)}
	if len(trips) == 0 {
		return s
	}

	completed := 0
	for _, t := range trips {
		if t.Completed {
			completed++
		}
		s.TotalRevenue += t.Revenue
		s.TotalNetProfit += t.NetProfit
		s.TotalDistanceKm += t.DistanceKm
	}
	s.CompletionRate = float64(completed) / float64(len(trips))
	s.DateRangeStart = trips[0].ExecutedAt
	s.DateRangeEnd = trips[len(trips)-1].ExecutedAt

	return s
}

// generatePairMetrics computes one metrics row per train/route pair
// present in the trip log.
func (g *Generator) generatePairMetrics(ctx context.Context, trips []*domain.TripRecord) ([]PairMetricRow, error) {
	type pair struct {
		train string
		route string
	}
	seen := make(map[pair]struct{})
	var pairs []pair
	for _, t := range trips {
		p := pair{t.TrainName, t.RouteName}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		pairs = append(pairs, p)
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].train != pairs[j].train {
			return pairs[i].train < pairs[j].train
		}
		return pairs[i].route < pairs[j].route
	})

	agg := metrics.NewAggregator(g.tripStore)
	rows := make([]PairMetricRow, 0, len(pairs))
	for _, p := range pairs {
		a, err := agg.ComputeForTrainRoute(ctx, p.train, p.route)
		if err != nil {
			return nil, err
		}
		rows = append(rows, PairMetricRow{
			TrainName:                a.TrainName,
			RouteName:                a.RouteName,
			TotalTrips:               a.TotalTrips,
			CompletionRate:           a.CompletionRate,
			NetProfitMean:            a.NetProfitMean,
			NetProfitMedian:          a.NetProfitMedian,
			NetProfitP10:             a.NetProfitP10,
			NetProfitP90:             a.NetProfitP90,
			MaxConsecutiveIncomplete: a.MaxConsecutiveIncomplete,
		})
	}

	return rows, nil
}

// generateRouteWear lists the current condition of every segment.
// Segments are rehydrated so effective roughness reflects wear.
func generateRouteWear(routes []*domain.RouteRecord) ([]RouteWearRow, error) {
	var rows []RouteWearRow
	for _, rec := range routes {
		route, err := domain.NewRouteFromRecord(*rec)
		if err != nil {
			return nil, err
		}
		for _, seg := range route.Segments() {
			rows = append(rows, RouteWearRow{
				RouteName:          route.Name(),
				SegmentName:        seg.Name(),
				DistanceKm:         seg.DistanceKm(),
				WearLevel:          seg.WearLevel(),
				EffectiveRoughness: seg.EffectiveRoughness(),
				NeedsMaintenance:   seg.WearLevel() >= maintenanceWearLevel,
			})
		}
	}
	return rows, nil
}

// generateServicing flags trains below the repair or refuel thresholds.
func generateServicing(trains []*domain.TrainRecord) ([]ServicingRow, error) {
	var rows []ServicingRow
	for _, rec := range trains {
		train, err := domain.NewTrainFromRecord(*rec)
		if err != nil {
			return nil, err
		}

		maxDurability := train.MaxDurability()
		durabilityPct := 0.0
		if maxDurability > 0 {
			durabilityPct = train.CurrentDurability() / maxDurability
		}

		needsRepair := durabilityPct < repairThresholdRatio
		needsRefuel := train.FuelLevel() < refuelThresholdLevel
		if !needsRepair && !needsRefuel {
			continue
		}

		rows = append(rows, ServicingRow{
			TrainName:     train.Name(),
			DurabilityPct: durabilityPct,
			FuelLevel:     train.FuelLevel(),
			NeedsRepair:   needsRepair,
			NeedsRefuel:   needsRefuel,
		})
	}
	return rows, nil
}
