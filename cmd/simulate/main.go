// Package main provides a one-shot trip simulator: build a train and a
// route from flags, run a single trip, print the outcome.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"rail-freight-lab/internal/domain"
	"rail-freight-lab/internal/idhash"
	"rail-freight-lab/internal/rng"
	"rail-freight-lab/internal/simulation"
	"rail-freight-lab/internal/storage"
	"rail-freight-lab/internal/storage/memory"
	"rail-freight-lab/internal/storage/migrations"
	pgstore "rail-freight-lab/internal/storage/postgres"
)

func main() {
	// Train flags
	trainName := flag.String("train", "adhoc", "Train name")
	baseSpeed := flag.Float64("speed", 90, "Base speed")
	baseDurability := flag.Float64("durability", 100, "Base max durability")
	baseCapacity := flag.Float64("capacity", 60, "Base cargo capacity")
	baseFuelPerKm := flag.Float64("fuel-per-km", 0.18, "Base fuel consumption per km")
	fuelLevel := flag.Float64("fuel-level", domain.FuelTankCapacity, "Starting fuel level")
	currentDurability := flag.Float64("current-durability", -1, "Starting durability (-1 = full)")
	parts := flag.String("parts", "", "Comma-separated catalog part names to attach")

	// Route flags
	routeName := flag.String("route", "adhoc-route", "Route name")
	segments := flag.String("segments", "", "Segments as 'name:km:roughness[:wear];...' (required)")

	// Trip flags
	cargoWeight := flag.Float64("cargo", 0, "Cargo weight")
	ratePerKm := flag.Float64("rate", 0, "Cargo rate per kilometer")
	seed := flag.Int64("seed", 0, "Random seed (0 = time-based)")

	// Output
	outputJSON := flag.Bool("json", false, "Output as JSON")
	persist := flag.Bool("persist", false, "Persist the trip record to storage")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string (with --persist)")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[simulate] ", log.LstdFlags)

	if *segments == "" {
		logger.Fatal("--segments is required, e.g. 'plains:120:0.3;hills:80:0.7:0.1'")
	}

	// Create context with cancellation on interrupt is unnecessary here;
	// a single trip is CPU-bound and fast.
	ctx := context.Background()

	// Build the train
	train, err := buildTrain(*trainName, *baseSpeed, *baseDurability, *baseCapacity, *baseFuelPerKm,
		*fuelLevel, *currentDurability, *parts)
	if err != nil {
		logger.Fatalf("Invalid train: %v", err)
	}

	// Build the route
	route, err := buildRoute(*routeName, *segments)
	if err != nil {
		logger.Fatalf("Invalid route: %v", err)
	}

	req, err := domain.NewTripRequest(route, *cargoWeight, *ratePerKm)
	if err != nil {
		logger.Fatalf("Invalid trip request: %v", err)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	// Run the trip
	engine := simulation.NewEngine(rng.NewSeededSource(*seed))
	result, err := engine.ExecuteTrip(ctx, train, req)
	if err != nil {
		logger.Fatalf("Trip execution failed: %v", err)
	}

	executedAt := time.Now().UTC().UnixMilli()
	record := &domain.TripRecord{
		TripID:         idhash.ComputeTripID(*trainName, *routeName, executedAt, *cargoWeight),
		TrainName:      *trainName,
		RouteName:      *routeName,
		ExecutedAt:     executedAt,
		Seed:           *seed,
		CargoWeight:    *cargoWeight,
		CargoRatePerKm: *ratePerKm,
		Completed:      result.Completed,
		RequiresRepair: result.RequiresRepair,
		RequiresRefuel: result.RequiresRefuel,
		Revenue:        result.Revenue,
		RepairCost:     result.RepairCost,
		FuelCost:       result.FuelCost,
		NetProfit:      result.NetProfit(),
		DistanceKm:     result.DistanceKm,
		DamageTaken:    result.DamageTaken,
		Events:         result.Events,
	}

	// Persist if requested
	if *persist {
		tripStore, cleanup, err := createTripStore(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("Failed to create trip store: %v", err)
		}
		defer cleanup()

		if err := tripStore.Insert(ctx, record); err != nil {
			logger.Fatalf("Failed to persist trip record: %v", err)
		}
		logger.Printf("Persisted trip record %s", record.TripID)
	}

	// Output
	if *outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(record); err != nil {
			logger.Fatalf("Failed to encode result: %v", err)
		}
		return
	}

	printText(record, train, route)
}

// buildTrain constructs the train from flags. A negative durability flag
// means start at full health.
func buildTrain(name string, speed, durability, capacity, fuelPerKm, fuelLevel, currentDurability float64, parts string) (*domain.Train, error) {
	rec := domain.TrainRecord{
		Name:              name,
		BaseSpeed:         speed,
		BaseMaxDurability: durability,
		BaseCargoCapacity: capacity,
		BaseFuelPerKm:     fuelPerKm,
		CurrentDurability: currentDurability,
		FuelLevel:         fuelLevel,
	}
	for _, p := range strings.Split(parts, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			rec.PartNames = append(rec.PartNames, p)
		}
	}

	train, err := domain.NewTrainFromRecord(rec)
	if err != nil {
		return nil, err
	}
	if currentDurability < 0 {
		train.Repair(train.MaxDurability())
	}
	return train, nil
}

// buildRoute parses the segment spec 'name:km:roughness[:wear];...'.
func buildRoute(name, spec string) (*domain.Route, error) {
	var segs []*domain.RouteSegment
	for _, part := range strings.Split(spec, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		fields := strings.Split(part, ":")
		if len(fields) < 3 || len(fields) > 4 {
			return nil, fmt.Errorf("segment %q: want 'name:km:roughness[:wear]'", part)
		}

		distanceKm, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("segment %q: distance: %w", part, err)
		}
		roughness, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("segment %q: roughness: %w", part, err)
		}
		var wear float64
		if len(fields) == 4 {
			wear, err = strconv.ParseFloat(fields[3], 64)
			if err != nil {
				return nil, fmt.Errorf("segment %q: wear: %w", part, err)
			}
		}

		seg, err := domain.NewRouteSegment(fields[0], distanceKm, roughness, wear)
		if err != nil {
			return nil, fmt.Errorf("segment %q: %w", part, err)
		}
		segs = append(segs, seg)
	}

	return domain.NewRoute(name, segs)
}

// createTripStore returns the trip store for --persist: PostgreSQL when a
// DSN is given, in-memory (useful only for dry runs) otherwise.
func createTripStore(ctx context.Context, postgresDSN string) (storage.TripRecordStore, func(), error) {
	if postgresDSN == "" {
		return memory.NewTripRecordStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
	}
	return pgstore.NewTripRecordStore(pool), pool.Close, nil
}

// printText renders the trip outcome for humans.
func printText(record *domain.TripRecord, train *domain.Train, route *domain.Route) {
	status := "COMPLETED"
	if !record.Completed {
		status = "ABORTED"
	}

	fmt.Printf("Trip %s (%s over %s): %s\n", record.TripID, record.TrainName, record.RouteName, status)
	fmt.Printf("  Distance:    %.2f / %.2f km\n", record.DistanceKm, route.TotalDistanceKm())
	fmt.Printf("  Revenue:     %.2f\n", record.Revenue)
	fmt.Printf("  Fuel cost:   %.2f\n", record.FuelCost)
	fmt.Printf("  Repair cost: %.2f\n", record.RepairCost)
	fmt.Printf("  Net profit:  %.2f\n", record.NetProfit)
	fmt.Printf("  Damage:      %.2f (durability now %.2f/%.2f)\n",
		record.DamageTaken, train.CurrentDurability(), train.MaxDurability())
	fmt.Printf("  Fuel left:   %.2f\n", train.FuelLevel())
	if record.RequiresRepair {
		fmt.Println("  ! Train requires repair")
	}
	if record.RequiresRefuel {
		fmt.Println("  ! Train requires refuel")
	}
	for _, event := range record.Events {
		fmt.Printf("  * %s\n", event)
	}
}
