// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Trip metrics
	TripsExecuted      *prometheus.CounterVec
	TripEvents         *prometheus.CounterVec
	TripDistanceKm     prometheus.Counter
	TripNetProfit      prometheus.Histogram
	TripDamageTaken    prometheus.Histogram
	TripExecutionError prometheus.Counter

	// Fleet state metrics
	TrainsRegistered prometheus.Gauge
	RoutesRegistered prometheus.Gauge
	SegmentsWornOut  prometheus.Gauge

	// Reporting metrics
	AggregatesComputed prometheus.Counter
	ReportsGenerated   prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Stream metrics
	StreamClients         prometheus.Gauge
	StreamMessagesSent    prometheus.Counter
	StreamMessagesDropped prometheus.Counter

	// Health metrics
	LastSuccessfulTrip prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "rail_freight_lab"
	}

	return &Metrics{
		// Trip metrics
		TripsExecuted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "trips_executed_total",
			Help:      "Total number of trips executed by outcome",
		}, []string{"outcome"}),
		TripEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "trip_events_total",
			Help:      "Total number of trip events by type",
		}, []string{"event_type"}),
		TripDistanceKm: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "trip_distance_km_total",
			Help:      "Total distance travelled across all trips in kilometers",
		}),
		TripNetProfit: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "trip_net_profit",
			Help:      "Net profit per trip",
			Buckets:   []float64{-1000, -100, 0, 100, 500, 1000, 2500, 5000, 10000},
		}),
		TripDamageTaken: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "trip_damage_taken",
			Help:      "Mechanical damage taken per trip",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250},
		}),
		TripExecutionError: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulation",
			Name:      "trip_execution_errors_total",
			Help:      "Total number of failed trip executions",
		}),

		// Fleet state metrics
		TrainsRegistered: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "fleet",
			Name:      "trains_registered",
			Help:      "Current number of registered trains",
		}),
		RoutesRegistered: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "fleet",
			Name:      "routes_registered",
			Help:      "Current number of registered routes",
		}),
		SegmentsWornOut: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "fleet",
			Name:      "segments_worn_out",
			Help:      "Current number of segments at or above the maintenance threshold",
		}),

		// Reporting metrics
		AggregatesComputed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "aggregates_computed_total",
			Help:      "Total number of fleet aggregates computed",
		}),
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reporting",
			Name:      "reports_generated_total",
			Help:      "Total number of reports generated",
		}),

		// Database metrics
		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		// Stream metrics
		StreamClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "clients",
			Help:      "Current number of connected stream clients",
		}),
		StreamMessagesSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "messages_sent_total",
			Help:      "Total number of messages broadcast to stream clients",
		}),
		StreamMessagesDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "messages_dropped_total",
			Help:      "Total number of messages dropped on slow stream clients",
		}),

		// Health metrics
		LastSuccessfulTrip: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_trip_timestamp",
			Help:      "Unix timestamp of last successful trip execution",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordTrip records the outcome of one executed trip.
func RecordTrip(completed bool, distanceKm, netProfit, damageTaken float64) {
	outcome := "completed"
	if !completed {
		outcome = "aborted"
	}
	DefaultMetrics.TripsExecuted.WithLabelValues(outcome).Inc()
	DefaultMetrics.TripDistanceKm.Add(distanceKm)
	DefaultMetrics.TripNetProfit.Observe(netProfit)
	DefaultMetrics.TripDamageTaken.Observe(damageTaken)
}

// RecordTripEvent increments the event counter for one trip event type.
func RecordTripEvent(eventType string) {
	DefaultMetrics.TripEvents.WithLabelValues(eventType).Inc()
}

// RecordTripError increments the failed execution counter.
func RecordTripError() {
	DefaultMetrics.TripExecutionError.Inc()
}

// UpdateFleetSizes updates the fleet state gauges.
func UpdateFleetSizes(trains, routes int) {
	DefaultMetrics.TrainsRegistered.Set(float64(trains))
	DefaultMetrics.RoutesRegistered.Set(float64(routes))
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
