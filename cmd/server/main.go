// Package main provides the unified fleet server:
// - Trip execution over HTTP (POST /trips)
// - Fleet registry (trains, routes)
// - Reporting (scheduled + on demand)
// - Live trip stream over WebSocket (/ws)
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"rail-freight-lab/internal/domain"
	"rail-freight-lab/internal/metrics"
	"rail-freight-lab/internal/observability"
	"rail-freight-lab/internal/reporting"
	"rail-freight-lab/internal/simulation"
	"rail-freight-lab/internal/storage"
	chstore "rail-freight-lab/internal/storage/clickhouse"
	"rail-freight-lab/internal/storage/memory"
	"rail-freight-lab/internal/storage/migrations"
	pgstore "rail-freight-lab/internal/storage/postgres"
	"rail-freight-lab/internal/stream"
)

// Server holds all components of the unified service.
type Server struct {
	// Configuration
	addr           string
	postgresDSN    string
	clickhouseDSN  string
	useMemory      bool
	outputDir      string
	reportInterval time.Duration

	// Components
	stores     *allStores
	runner     *simulation.Runner
	aggregator *metrics.Aggregator
	generator  *reporting.Generator
	hub        *stream.Hub
	logger     *log.Logger

	// State
	mu            sync.Mutex
	started       time.Time
	lastTripAt    time.Time
	lastReportRun time.Time
	tripsExecuted int
	reportRuns    int
}

// allStores holds all storage implementations.
type allStores struct {
	trainStore storage.TrainStore
	routeStore storage.RouteStore
	tripStore  storage.TripRecordStore
	wearStore  storage.SegmentWearStore
}

func main() {
	// Load .env file if exists
	loadEnvFile()

	// Parse flags (env vars as defaults)
	addr := flag.String("addr", ":8080", "HTTP listen address")
	postgresDSN := flag.String("postgres-dsn", os.Getenv("POSTGRES_DSN"), "PostgreSQL connection string")
	clickhouseDSN := flag.String("clickhouse-dsn", os.Getenv("CLICKHOUSE_DSN"), "ClickHouse connection string")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL/ClickHouse")
	outputDir := flag.String("output-dir", "output", "Output directory for reports")
	reportInterval := flag.Duration("report-interval", 6*time.Hour, "Report generation interval (0 disables)")

	flag.Parse()

	// Setup logger
	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile)

	// Validate required flags
	if !*useMemory && (*postgresDSN == "" || *clickhouseDSN == "") {
		logger.Fatal("--postgres-dsn and --clickhouse-dsn are required (use --use-memory for in-memory storage)")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())

	// Create stores
	stores, cleanup, err := createStores(ctx, *postgresDSN, *clickhouseDSN, *useMemory, logger)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	// Create server
	server := &Server{
		addr:           *addr,
		postgresDSN:    *postgresDSN,
		clickhouseDSN:  *clickhouseDSN,
		useMemory:      *useMemory,
		outputDir:      *outputDir,
		reportInterval: *reportInterval,
		stores:         stores,
		runner: simulation.NewRunner(simulation.RunnerOptions{
			TrainStore: stores.trainStore,
			RouteStore: stores.routeStore,
			TripStore:  stores.tripStore,
			WearStore:  stores.wearStore,
		}),
		aggregator: metrics.NewAggregator(stores.tripStore),
		generator:  reporting.NewGenerator(stores.tripStore, stores.trainStore, stores.routeStore),
		hub:        stream.NewHub(logger),
		logger:     logger,
		started:    time.Now().UTC(),
	}

	// Channel to signal completion
	done := make(chan error, 1)

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		// Wait for second signal for immediate shutdown
		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	// Run the server
	err = server.Run(ctx)
	done <- err
	cancel()

	if err != nil && err != context.Canceled {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStores creates all required stores. In database mode the schema
// migrations run before the stores are handed out.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string, useMemory bool, logger *log.Logger) (*allStores, func(), error) {
	if useMemory {
		stores := &allStores{
			trainStore: memory.NewTrainStore(),
			routeStore: memory.NewRouteStore(),
			tripStore:  memory.NewTripRecordStore(),
			wearStore:  memory.NewSegmentWearStore(),
		}
		return stores, func() {}, nil
	}

	// PostgreSQL for fleet state and trip records
	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run postgres migrations: %w", err)
	}

	// ClickHouse for wear telemetry
	chConn, err := migrations.RunClickhouseMigrations(ctx, clickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run clickhouse migrations: %w", err)
	}

	logger.Println("Database migrations applied")

	stores := &allStores{
		trainStore: pgstore.NewTrainStore(pool),
		routeStore: pgstore.NewRouteStore(pool),
		tripStore:  pgstore.NewTripRecordStore(pool),
		wearStore:  chstore.NewSegmentWearStore(chConn),
	}

	cleanup := func() {
		chConn.Close()
		pool.Close()
	}

	return stores, cleanup, nil
}

// Run starts the server components and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Println("Starting fleet server...")

	go s.hub.Run(ctx)

	if s.reportInterval > 0 {
		go s.runReportScheduler(ctx)
	}

	go s.refreshFleetGauges(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.startHTTPServer(ctx)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// runReportScheduler regenerates reports at a fixed interval.
func (s *Server) runReportScheduler(ctx context.Context) {
	ticker := time.NewTicker(s.reportInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.generateReports(ctx)
		}
	}
}

// generateReports writes the markdown and CSV reports to the output dir.
func (s *Server) generateReports(ctx context.Context) {
	start := time.Now()

	report, err := s.generator.Generate(ctx)
	if err != nil {
		s.logger.Printf("Report generation error: %v", err)
		return
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		s.logger.Printf("Report output dir error: %v", err)
		return
	}
	if err := os.WriteFile(s.outputDir+"/FLEET_REPORT.md", []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		s.logger.Printf("Report write error: %v", err)
		return
	}
	if err := os.WriteFile(s.outputDir+"/PAIR_METRICS.csv", []byte(reporting.RenderCSV(report.PairMetrics)), 0o644); err != nil {
		s.logger.Printf("Report write error: %v", err)
		return
	}

	observability.DefaultMetrics.ReportsGenerated.Inc()
	s.hub.BroadcastReportReady(report.GeneratedAt.UnixMilli())

	s.mu.Lock()
	s.lastReportRun = time.Now()
	s.reportRuns++
	s.mu.Unlock()

	s.logger.Printf("Reports generated in %v to %s/", time.Since(start), s.outputDir)
}

// refreshFleetGauges keeps the fleet size gauges current.
func (s *Server) refreshFleetGauges(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		trains, err := s.stores.trainStore.List(ctx)
		if err == nil {
			routes, err := s.stores.routeStore.List(ctx)
			if err == nil {
				observability.UpdateFleetSizes(len(trains), len(routes))
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// startHTTPServer starts the HTTP API and blocks until ctx is cancelled.
func (s *Server) startHTTPServer(ctx context.Context) error {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheus metrics
	mux.Handle("/metrics", observability.Handler())

	// Status endpoint
	mux.HandleFunc("/status", s.handleStatus)

	// Fleet registry
	mux.HandleFunc("/trains", s.handleTrains)
	mux.HandleFunc("/routes", s.handleRoutes)

	// Trip execution and lookup
	mux.HandleFunc("/trips", s.handleTrips)
	mux.HandleFunc("/trips/", s.handleTripByID)

	// Aggregates and reports
	mux.HandleFunc("/aggregates", s.handleAggregates)
	mux.HandleFunc("/report", s.handleReport)

	// Live trip stream
	mux.HandleFunc("/ws", s.hub.ServeWS)

	srv := &http.Server{Addr: s.addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Printf("Starting HTTP server on %s", s.addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// TripRequest is the JSON body of POST /trips.
type TripRequest struct {
	TrainName      string  `json:"train_name"`
	RouteName      string  `json:"route_name"`
	CargoWeight    float64 `json:"cargo_weight"`
	CargoRatePerKm float64 `json:"cargo_rate_per_km"`
	Seed           *int64  `json:"seed,omitempty"`
}

// handleTrips executes a trip (POST) or lists trips (GET).
func (s *Server) handleTrips(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.executeTrip(w, r)
	case http.MethodGet:
		s.listTrips(w, r)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) executeTrip(w http.ResponseWriter, r *http.Request) {
	var req TripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.TrainName == "" || req.RouteName == "" {
		http.Error(w, "train_name and route_name are required", http.StatusBadRequest)
		return
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}

	record, err := s.runner.Run(r.Context(), req.TrainName, req.RouteName, req.CargoWeight, req.CargoRatePerKm, seed)
	if err != nil {
		observability.RecordTripError()
		switch {
		case errors.Is(err, storage.ErrNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, domain.ErrNegativeCargoWeight), errors.Is(err, domain.ErrNegativeCargoRate):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			s.logger.Printf("Trip execution error: %v", err)
			http.Error(w, "trip execution failed", http.StatusInternalServerError)
		}
		return
	}

	observability.RecordTrip(record.Completed, record.DistanceKm, record.NetProfit, record.DamageTaken)
	for _, event := range record.Events {
		observability.RecordTripEvent(eventType(event))
	}
	observability.DefaultMetrics.LastSuccessfulTrip.SetToCurrentTime()

	s.hub.BroadcastTrip(record)

	s.mu.Lock()
	s.lastTripAt = time.Now()
	s.tripsExecuted++
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, record)
}

// eventType maps a trip log line to a stable metric label.
func eventType(event string) string {
	switch {
	case strings.Contains(event, "above train capacity"):
		return "cargo_rejected"
	case strings.Contains(event, "Out of fuel"):
		return "out_of_fuel"
	case strings.Contains(event, "requires maintenance"):
		return "maintenance_alert"
	case strings.Contains(event, "broken"):
		return "breakdown"
	default:
		return "other"
	}
}

func (s *Server) listTrips(w http.ResponseWriter, r *http.Request) {
	trainName := r.URL.Query().Get("train")
	routeName := r.URL.Query().Get("route")

	var (
		trips []*domain.TripRecord
		err   error
	)
	if trainName != "" && routeName != "" {
		trips, err = s.stores.tripStore.GetByTrainRoute(r.Context(), trainName, routeName)
	} else {
		trips, err = s.stores.tripStore.GetAll(r.Context())
	}
	if err != nil {
		s.logger.Printf("Trip list error: %v", err)
		http.Error(w, "trip lookup failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, trips)
}

// handleTripByID serves GET /trips/{id}.
func (s *Server) handleTripByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	tripID := strings.TrimPrefix(r.URL.Path, "/trips/")
	if tripID == "" || strings.Contains(tripID, "/") {
		http.Error(w, "trip ID required", http.StatusBadRequest)
		return
	}

	trip, err := s.stores.tripStore.GetByID(r.Context(), tripID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "trip not found", http.StatusNotFound)
			return
		}
		s.logger.Printf("Trip lookup error: %v", err)
		http.Error(w, "trip lookup failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, trip)
}

// handleTrains registers a train (POST) or lists trains (GET).
func (s *Server) handleTrains(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var rec domain.TrainRecord
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}

		// Validate through the domain constructor before persisting
		if _, err := domain.NewTrainFromRecord(rec); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := s.stores.trainStore.Insert(r.Context(), &rec); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				http.Error(w, "train already exists", http.StatusConflict)
				return
			}
			s.logger.Printf("Train insert error: %v", err)
			http.Error(w, "train registration failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, rec)

	case http.MethodGet:
		trains, err := s.stores.trainStore.List(r.Context())
		if err != nil {
			s.logger.Printf("Train list error: %v", err)
			http.Error(w, "train lookup failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, trains)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleRoutes registers a route (POST) or lists routes (GET).
func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var rec domain.RouteRecord
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}

		if _, err := domain.NewRouteFromRecord(rec); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := s.stores.routeStore.Insert(r.Context(), &rec); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				http.Error(w, "route already exists", http.StatusConflict)
				return
			}
			s.logger.Printf("Route insert error: %v", err)
			http.Error(w, "route registration failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, rec)

	case http.MethodGet:
		routes, err := s.stores.routeStore.List(r.Context())
		if err != nil {
			s.logger.Printf("Route list error: %v", err)
			http.Error(w, "route lookup failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, routes)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleAggregates serves per-pair or fleet-wide aggregates.
func (s *Server) handleAggregates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	trainName := r.URL.Query().Get("train")
	routeName := r.URL.Query().Get("route")

	var (
		agg *domain.FleetAggregate
		err error
	)
	if trainName != "" && routeName != "" {
		agg, err = s.aggregator.ComputeForTrainRoute(r.Context(), trainName, routeName)
	} else {
		agg, err = s.aggregator.ComputeFleet(r.Context())
	}
	if err != nil {
		if errors.Is(err, metrics.ErrNoTrips) {
			http.Error(w, "no trips recorded", http.StatusNotFound)
			return
		}
		s.logger.Printf("Aggregate error: %v", err)
		http.Error(w, "aggregate computation failed", http.StatusInternalServerError)
		return
	}

	observability.DefaultMetrics.AggregatesComputed.Inc()
	writeJSON(w, http.StatusOK, agg)
}

// handleReport renders the fleet report as markdown (default) or CSV.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report, err := s.generator.Generate(r.Context())
	if err != nil {
		s.logger.Printf("Report error: %v", err)
		http.Error(w, "report generation failed", http.StatusInternalServerError)
		return
	}
	observability.DefaultMetrics.ReportsGenerated.Inc()

	switch r.URL.Query().Get("format") {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(reporting.RenderCSV(report.PairMetrics)))
	case "json":
		writeJSON(w, http.StatusOK, report)
	default:
		w.Header().Set("Content-Type", "text/markdown")
		w.Write([]byte(reporting.RenderMarkdown(report)))
	}
}

// StatusResponse is the JSON response for /status endpoint.
type StatusResponse struct {
	Status        string    `json:"status"`
	Uptime        string    `json:"uptime"`
	Started       time.Time `json:"started"`
	LastTripAt    time.Time `json:"last_trip_at,omitempty"`
	LastReportRun time.Time `json:"last_report_run,omitempty"`
	TripsExecuted int       `json:"trips_executed"`
	ReportRuns    int       `json:"report_runs"`
	UseMemory     bool      `json:"use_memory"`
}

// handleStatus returns server status as JSON.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := StatusResponse{
		Status:        "running",
		Uptime:        time.Since(s.started).String(),
		Started:       s.started,
		LastTripAt:    s.lastTripAt,
		LastReportRun: s.lastReportRun,
		TripsExecuted: s.tripsExecuted,
		ReportRuns:    s.reportRuns,
		UseMemory:     s.useMemory,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// loadEnvFile loads environment variables from .env file if it exists.
func loadEnvFile() {
	data, err := os.ReadFile(".env")
	if err != nil {
		return // File doesn't exist, use system env vars
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Don't override existing env vars
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}
