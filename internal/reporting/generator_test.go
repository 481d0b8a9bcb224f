package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"rail-freight-lab/internal/domain"
	"rail-freight-lab/internal/storage/memory"
)

func seedStores(t *testing.T) (*memory.TripRecordStore, *memory.TrainStore, *memory.RouteStore) {
	t.Helper()
	ctx := context.Background()

	trips := memory.NewTripRecordStore()
	for _, trip := range []*domain.TripRecord{
		{TripID: "t1", TrainName: "Nomad", RouteName: "Steppe", ExecutedAt: 1000, Completed: true, Revenue: 4400, NetProfit: 4193.24, DistanceKm: 200},
		{TripID: "t2", TrainName: "Nomad", RouteName: "Steppe", ExecutedAt: 2000, Completed: false, Revenue: 2000, NetProfit: 1800, DistanceKm: 400},
		{TripID: "t3", TrainName: "Scout", RouteName: "Coastal", ExecutedAt: 3000, Completed: true, Revenue: 900, NetProfit: 850, DistanceKm: 90},
	} {
		if err := trips.Insert(ctx, trip); err != nil {
			t.Fatalf("Seeding trip failed: %v", err)
		}
	}

	trains := memory.NewTrainStore()
	for _, train := range []*domain.TrainRecord{
		{Name: "Nomad", BaseSpeed: 90, BaseMaxDurability: 100, BaseCargoCapacity: 60, BaseFuelPerKm: 0.18, CurrentDurability: 40, FuelLevel: 15},
		{Name: "Scout", BaseSpeed: 80, BaseMaxDurability: 90, BaseCargoCapacity: 20, BaseFuelPerKm: 0.15, CurrentDurability: 90, FuelLevel: 80},
	} {
		if err := trains.Insert(ctx, train); err != nil {
			t.Fatalf("Seeding train failed: %v", err)
		}
	}

	routes := memory.NewRouteStore()
	for _, route := range []*domain.RouteRecord{
		{Name: "Steppe", Segments: []domain.SegmentRecord{
			{Name: "dry flats", DistanceKm: 120, Roughness: 0.7, WearLevel: 0.85},
			{Name: "river bend", DistanceKm: 80, Roughness: 0.5, WearLevel: 0.1},
		}},
		{Name: "Coastal", Segments: []domain.SegmentRecord{
			{Name: "cliff run", DistanceKm: 90, Roughness: 0.4, WearLevel: 0.02},
		}},
	} {
		if err := routes.Insert(ctx, route); err != nil {
			t.Fatalf("Seeding route failed: %v", err)
		}
	}

	return trips, trains, routes
}

func TestGenerator_Generate(t *testing.T) {
	trips, trains, routes := seedStores(t)

	gen := NewGenerator(trips, trains, routes).
		WithClock(func() time.Time { return time.UnixMilli(1_700_000_000_000).UTC() })

	report, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if report.TrainCount != 2 || report.RouteCount != 2 {
		t.Errorf("Expected 2 trains / 2 routes, got %d/%d", report.TrainCount, report.RouteCount)
	}

	// Fleet summary
	if report.FleetSummary.TotalTrips != 3 {
		t.Errorf("Expected 3 trips, got %d", report.FleetSummary.TotalTrips)
	}
	if report.FleetSummary.DateRangeStart != 1000 || report.FleetSummary.DateRangeEnd != 3000 {
		t.Errorf("Date range wrong: %d..%d",
			report.FleetSummary.DateRangeStart, report.FleetSummary.DateRangeEnd)
	}

	// Pair metrics sorted by train, route
	if len(report.PairMetrics) != 2 {
		t.Fatalf("Expected 2 pair rows, got %d", len(report.PairMetrics))
	}
	if report.PairMetrics[0].TrainName != "Nomad" || report.PairMetrics[1].TrainName != "Scout" {
		t.Errorf("Pair rows not sorted: %v", report.PairMetrics)
	}
	if report.PairMetrics[0].TotalTrips != 2 {
		t.Errorf("Expected 2 Nomad/Steppe trips, got %d", report.PairMetrics[0].TotalTrips)
	}
	if report.PairMetrics[0].CompletionRate != 0.5 {
		t.Errorf("Expected completion 0.5, got %f", report.PairMetrics[0].CompletionRate)
	}

	// Route wear: Coastal sorts first, worn Steppe segment flagged
	if len(report.RouteWear) != 3 {
		t.Fatalf("Expected 3 wear rows, got %d", len(report.RouteWear))
	}
	if report.RouteWear[0].RouteName != "Coastal" {
		t.Errorf("Wear rows not sorted by route: %v", report.RouteWear[0])
	}
	var flagged int
	for _, w := range report.RouteWear {
		if w.NeedsMaintenance {
			flagged++
			if w.SegmentName != "dry flats" {
				t.Errorf("Wrong segment flagged: %s", w.SegmentName)
			}
		}
	}
	if flagged != 1 {
		t.Errorf("Expected 1 flagged segment, got %d", flagged)
	}

	// Servicing: Nomad at 40% durability and 15 fuel, Scout healthy
	if len(report.Servicing) != 1 {
		t.Fatalf("Expected 1 servicing row, got %d", len(report.Servicing))
	}
	s := report.Servicing[0]
	if s.TrainName != "Nomad" || !s.NeedsRepair || !s.NeedsRefuel {
		t.Errorf("Unexpected servicing row: %+v", s)
	}
}

func TestGenerator_EmptyStores(t *testing.T) {
	gen := NewGenerator(memory.NewTripRecordStore(), memory.NewTrainStore(), memory.NewRouteStore())

	report, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if report.FleetSummary.TotalTrips != 0 {
		t.Errorf("Expected empty summary, got %d trips", report.FleetSummary.TotalTrips)
	}
	if len(report.PairMetrics) != 0 || len(report.RouteWear) != 0 || len(report.Servicing) != 0 {
		t.Error("Expected empty sections")
	}
}

func TestRenderMarkdown(t *testing.T) {
	trips, trains, routes := seedStores(t)

	gen := NewGenerator(trips, trains, routes).
		WithClock(func() time.Time { return time.UnixMilli(1_700_000_000_000).UTC() })
	report, err := gen.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	md := RenderMarkdown(report)

	for _, want := range []string{
		"# Fleet Operations Report",
		"## Fleet Summary",
		"## Train/Route Metrics",
		"| Nomad | Steppe | 2 |",
		"## Track Condition",
		"DUE",
		"## Servicing Queue",
		"| Nomad |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown missing %q", want)
		}
	}
}

func TestRenderCSV(t *testing.T) {
	rows := []PairMetricRow{
		{TrainName: "Nomad", RouteName: "Steppe", TotalTrips: 2, CompletionRate: 0.5,
			NetProfitMean: 2996.62, NetProfitMedian: 2996.62, NetProfitP10: 2039.32, NetProfitP90: 3953.92,
			MaxConsecutiveIncomplete: 1},
	}

	csv := RenderCSV(rows)

	lines := strings.Split(strings.TrimSpace(csv), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "train_name,route_name,") {
		t.Errorf("Unexpected header: %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Nomad,Steppe,2,0.500000,") {
		t.Errorf("Unexpected row: %s", lines[1])
	}
}
