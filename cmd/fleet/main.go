// Package main provides the fleet campaign runner: execute a batch of
// trips for every train/route pair, service trains between trips, and
// write the fleet report.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"rail-freight-lab/internal/domain"
	"rail-freight-lab/internal/observability"
	"rail-freight-lab/internal/reporting"
	"rail-freight-lab/internal/simulation"
	"rail-freight-lab/internal/storage"
	chstore "rail-freight-lab/internal/storage/clickhouse"
	"rail-freight-lab/internal/storage/memory"
	"rail-freight-lab/internal/storage/migrations"
	pgstore "rail-freight-lab/internal/storage/postgres"
)

func main() {
	// Storage
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage")

	// Campaign
	tripsPerPair := flag.Int("trips", 10, "Trips to run per train/route pair")
	baseSeed := flag.Int64("seed", 42, "Base random seed; trip i uses seed+i")
	cargoFraction := flag.Float64("cargo-fraction", 0.8, "Cargo load as a fraction of train capacity")
	ratePerKm := flag.Float64("rate", 22, "Cargo rate per kilometer")
	service := flag.Bool("service", true, "Repair and refuel flagged trains between trips")
	seedDemo := flag.Bool("seed-demo", false, "Seed a demo fleet before running")

	// Output
	outputDir := flag.String("output-dir", "output", "Output directory for reports")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stderr, "[fleet] ", log.LstdFlags)

	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}
	if *tripsPerPair <= 0 {
		logger.Fatal("--trips must be greater than zero")
	}

	ctx := context.Background()

	// Create stores
	trainStore, routeStore, tripStore, wearStore, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	if *seedDemo {
		if err := seedDemoFleet(ctx, trainStore, routeStore); err != nil {
			logger.Fatalf("Failed to seed demo fleet: %v", err)
		}
		logger.Println("Demo fleet seeded")
	}

	trains, err := trainStore.List(ctx)
	if err != nil {
		logger.Fatalf("Failed to list trains: %v", err)
	}
	routes, err := routeStore.List(ctx)
	if err != nil {
		logger.Fatalf("Failed to list routes: %v", err)
	}
	if len(trains) == 0 || len(routes) == 0 {
		logger.Fatal("No trains or routes registered (use --seed-demo for a demo fleet)")
	}
	observability.UpdateFleetSizes(len(trains), len(routes))

	runner := simulation.NewRunner(simulation.RunnerOptions{
		TrainStore: trainStore,
		RouteStore: routeStore,
		TripStore:  tripStore,
		WearStore:  wearStore,
	})

	// Run the campaign
	var executed, completed, serviced int
	seed := *baseSeed
	for _, train := range trains {
		for _, route := range routes {
			for i := 0; i < *tripsPerPair; i++ {
				cargo := train.BaseCargoCapacity * *cargoFraction

				record, err := runner.Run(ctx, train.Name, route.Name, cargo, *ratePerKm, seed)
				seed++
				if err != nil {
					observability.RecordTripError()
					logger.Fatalf("Trip %s over %s failed: %v", train.Name, route.Name, err)
				}

				observability.RecordTrip(record.Completed, record.DistanceKm, record.NetProfit, record.DamageTaken)
				executed++
				if record.Completed {
					completed++
				}

				if *service && (record.RequiresRepair || record.RequiresRefuel) {
					if err := serviceTrain(ctx, trainStore, train.Name); err != nil {
						logger.Fatalf("Servicing %s failed: %v", train.Name, err)
					}
					serviced++
				}
			}
		}
	}
	logger.Printf("Campaign done: %d trips executed, %d completed, %d servicings", executed, completed, serviced)

	// Generate reports
	generator := reporting.NewGenerator(tripStore, trainStore, routeStore)
	report, err := generator.Generate(ctx)
	if err != nil {
		logger.Fatalf("Report generation failed: %v", err)
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		logger.Fatalf("Failed to create output dir: %v", err)
	}
	mdPath := filepath.Join(*outputDir, "FLEET_REPORT.md")
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		logger.Fatalf("Failed to write report: %v", err)
	}
	csvPath := filepath.Join(*outputDir, "PAIR_METRICS.csv")
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report.PairMetrics)), 0o644); err != nil {
		logger.Fatalf("Failed to write CSV: %v", err)
	}
	observability.DefaultMetrics.ReportsGenerated.Inc()

	fmt.Println("Fleet report generated:")
	fmt.Printf("  - %s\n", mdPath)
	fmt.Printf("  - %s\n", csvPath)
	fmt.Printf("Fleet net profit: %.2f over %d trips (%.0f%% completed)\n",
		report.FleetSummary.TotalNetProfit,
		report.FleetSummary.TotalTrips,
		report.FleetSummary.CompletionRate*100)
}

// createStores creates all required stores, running migrations in
// database mode.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool) (
	storage.TrainStore, storage.RouteStore, storage.TripRecordStore, storage.SegmentWearStore, func(), error) {

	if useMemory {
		return memory.NewTrainStore(), memory.NewRouteStore(),
			memory.NewTripRecordStore(), memory.NewSegmentWearStore(), func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, nil, nil, fmt.Errorf("run postgres migrations: %w", err)
	}

	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, nil, nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}
	return pgstore.NewTrainStore(pool), pgstore.NewRouteStore(pool),
		pgstore.NewTripRecordStore(pool), chstore.NewSegmentWearStore(chConn), cleanup, nil
}

// serviceTrain restores a flagged train to full durability and a full
// tank.
func serviceTrain(ctx context.Context, trains storage.TrainStore, name string) error {
	rec, err := trains.GetByName(ctx, name)
	if err != nil {
		return err
	}

	train, err := domain.NewTrainFromRecord(*rec)
	if err != nil {
		return err
	}
	if err := train.Repair(train.MaxDurability()); err != nil {
		return err
	}
	train.RefuelToFull()

	snap := train.Snapshot()
	snap.UpdatedAt = rec.UpdatedAt
	return trains.Update(ctx, &snap)
}

// seedDemoFleet registers a small demo fleet. Existing entries are kept.
func seedDemoFleet(ctx context.Context, trains storage.TrainStore, routes storage.RouteStore) error {
	demoTrains := []*domain.TrainRecord{
		{
			Name:              "Nomad",
			BaseSpeed:         90,
			BaseMaxDurability: 100,
			BaseCargoCapacity: 60,
			BaseFuelPerKm:     0.18,
			CurrentDurability: 125,
			FuelLevel:         domain.FuelTankCapacity,
			PartNames:         []string{domain.PartReinforcedWheels.Name},
		},
		{
			Name:              "Longhaul",
			BaseSpeed:         75,
			BaseMaxDurability: 140,
			BaseCargoCapacity: 90,
			BaseFuelPerKm:     0.26,
			CurrentDurability: 140,
			FuelLevel:         domain.FuelTankCapacity,
			PartNames:         []string{domain.PartCargoPods.Name, domain.PartTurboEngine.Name},
		},
		{
			Name:              "Scout",
			BaseSpeed:         110,
			BaseMaxDurability: 70,
			BaseCargoCapacity: 25,
			BaseFuelPerKm:     0.12,
			CurrentDurability: 55,
			FuelLevel:         domain.FuelTankCapacity,
			PartNames:         []string{domain.PartLightAlloyFrame.Name},
		},
	}
	for _, t := range demoTrains {
		if err := trains.Insert(ctx, t); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			return err
		}
	}

	demoRoutes := []*domain.RouteRecord{
		{
			Name: "Steppe",
			Segments: []domain.SegmentRecord{
				{Name: "dry flats", DistanceKm: 120, Roughness: 0.3},
				{Name: "river bend", DistanceKm: 80, Roughness: 0.7, WearLevel: 0.05},
			},
		},
		{
			Name: "Coastal",
			Segments: []domain.SegmentRecord{
				{Name: "cliff run", DistanceKm: 90, Roughness: 0.45},
				{Name: "salt marsh", DistanceKm: 60, Roughness: 0.85, WearLevel: 0.2},
				{Name: "harbor spur", DistanceKm: 30, Roughness: 0.2},
			},
		},
	}
	for _, r := range demoRoutes {
		if err := routes.Insert(ctx, r); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			return err
		}
	}

	return nil
}
