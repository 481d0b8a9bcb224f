package metrics

import (
	"context"
	"errors"
	"testing"

	"rail-freight-lab/internal/domain"
	"rail-freight-lab/internal/storage/memory"
)

func TestAggregator_ComputeForTrainRoute(t *testing.T) {
	store := memory.NewTripRecordStore()
	ctx := context.Background()

	trips := []*domain.TripRecord{
		{TripID: "t1", TrainName: "Nomad", RouteName: "Steppe", ExecutedAt: 1000, Completed: true, NetProfit: 100},
		{TripID: "t2", TrainName: "Nomad", RouteName: "Steppe", ExecutedAt: 2000, Completed: false, NetProfit: -20},
		{TripID: "t3", TrainName: "Scout", RouteName: "Steppe", ExecutedAt: 3000, Completed: true, NetProfit: 50},
	}
	for _, trip := range trips {
		if err := store.Insert(ctx, trip); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	agg, err := NewAggregator(store).ComputeForTrainRoute(ctx, "Nomad", "Steppe")
	if err != nil {
		t.Fatalf("ComputeForTrainRoute failed: %v", err)
	}

	if agg.TrainName != "Nomad" || agg.RouteName != "Steppe" {
		t.Errorf("Aggregate not labeled: %s/%s", agg.TrainName, agg.RouteName)
	}
	if agg.TotalTrips != 2 {
		t.Errorf("Expected 2 trips, got %d", agg.TotalTrips)
	}
	if agg.CompletionRate != 0.5 {
		t.Errorf("Expected completion rate 0.5, got %f", agg.CompletionRate)
	}
	if agg.NetProfitMean != 40 {
		t.Errorf("Expected mean 40, got %f", agg.NetProfitMean)
	}
}

func TestAggregator_ComputeFleet(t *testing.T) {
	store := memory.NewTripRecordStore()
	ctx := context.Background()

	trips := []*domain.TripRecord{
		{TripID: "t1", TrainName: "Nomad", RouteName: "Steppe", ExecutedAt: 1000, Completed: true, NetProfit: 100},
		{TripID: "t2", TrainName: "Scout", RouteName: "Coastal", ExecutedAt: 2000, Completed: true, NetProfit: 60},
	}
	for _, trip := range trips {
		if err := store.Insert(ctx, trip); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	agg, err := NewAggregator(store).ComputeFleet(ctx)
	if err != nil {
		t.Fatalf("ComputeFleet failed: %v", err)
	}

	if agg.TrainName != "" || agg.RouteName != "" {
		t.Errorf("Fleet aggregate must not be labeled: %s/%s", agg.TrainName, agg.RouteName)
	}
	if agg.TotalTrips != 2 {
		t.Errorf("Expected 2 trips, got %d", agg.TotalTrips)
	}
	if agg.TotalNetProfit != 160 {
		t.Errorf("Expected total profit 160, got %f", agg.TotalNetProfit)
	}
}

func TestAggregator_NoTrips(t *testing.T) {
	store := memory.NewTripRecordStore()
	ctx := context.Background()

	agg := NewAggregator(store)

	if _, err := agg.ComputeFleet(ctx); !errors.Is(err, ErrNoTrips) {
		t.Errorf("Expected ErrNoTrips, got %v", err)
	}
	if _, err := agg.ComputeForTrainRoute(ctx, "Nomad", "Steppe"); !errors.Is(err, ErrNoTrips) {
		t.Errorf("Expected ErrNoTrips, got %v", err)
	}
}
