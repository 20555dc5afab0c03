package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the schema-engine metrics: commit protocol outcomes,
// graph load activity, and store gateway traffic.
type Metrics struct {
	// Commit protocol metrics
	CommitsTotal   *prometheus.CounterVec
	CommitDuration *prometheus.HistogramVec
	DeltaSize      *prometheus.HistogramVec
	RollbacksTotal *prometheus.CounterVec

	// Load metrics
	LoadsTotal   *prometheus.CounterVec
	LoadDuration *prometheus.HistogramVec

	// Store gateway metrics
	StoreRequests    *prometheus.CounterVec
	StoreRequestRTT  *prometheus.HistogramVec
	StoreConnected   prometheus.Gauge
	StoreReconnects  prometheus.Counter
	ValidationErrors *prometheus.CounterVec
}

// NewMetrics creates a Metrics instance with all schema-engine metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		CommitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "semschema",
				Subsystem: "commit",
				Name:      "total",
				Help:      "Total number of commit attempts by outcome",
			},
			[]string{"project", "outcome"},
		),

		CommitDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "semschema",
				Subsystem: "commit",
				Name:      "duration_seconds",
				Help:      "End-to-end commit duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"project"},
		),

		DeltaSize: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "semschema",
				Subsystem: "commit",
				Name:      "delta_statements",
				Help:      "Number of statements written per commit and graph",
				Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
			},
			[]string{"project", "graph"},
		),

		RollbacksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "semschema",
				Subsystem: "commit",
				Name:      "rollbacks_total",
				Help:      "Total number of compensating rollbacks by result",
			},
			[]string{"project", "result"},
		),

		LoadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "semschema",
				Subsystem: "load",
				Name:      "total",
				Help:      "Total number of data model loads by status",
			},
			[]string{"project", "status"},
		),

		LoadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "semschema",
				Subsystem: "load",
				Name:      "duration_seconds",
				Help:      "Data model load duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"project"},
		),

		StoreRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "semschema",
				Subsystem: "store",
				Name:      "requests_total",
				Help:      "Total number of store gateway requests",
			},
			[]string{"operation", "status"},
		),

		StoreRequestRTT: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "semschema",
				Subsystem: "store",
				Name:      "request_duration_seconds",
				Help:      "Store gateway request round-trip time in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		StoreConnected: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "semschema",
				Subsystem: "store",
				Name:      "connected",
				Help:      "Store connection status (0=disconnected, 1=connected)",
			},
		),

		StoreReconnects: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "semschema",
				Subsystem: "store",
				Name:      "reconnects_total",
				Help:      "Total number of store reconnections",
			},
		),

		ValidationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "semschema",
				Subsystem: "validation",
				Name:      "errors_total",
				Help:      "Total number of schema validation rejections by kind",
			},
			[]string{"project", "kind"},
		),
	}
}

// RecordCommit increments the commit counter for the given outcome.
func (c *Metrics) RecordCommit(project, outcome string) {
	c.CommitsTotal.WithLabelValues(project, outcome).Inc()
}

// RecordCommitDuration records an end-to-end commit time.
func (c *Metrics) RecordCommitDuration(project string, duration time.Duration) {
	c.CommitDuration.WithLabelValues(project).Observe(duration.Seconds())
}

// RecordDeltaSize records the number of statements written to a graph.
func (c *Metrics) RecordDeltaSize(project, graph string, statements int) {
	c.DeltaSize.WithLabelValues(project, graph).Observe(float64(statements))
}

// RecordRollback increments the rollback counter ("ok" or "failed").
func (c *Metrics) RecordRollback(project, result string) {
	c.RollbacksTotal.WithLabelValues(project, result).Inc()
}

// RecordLoad increments the load counter for the given status.
func (c *Metrics) RecordLoad(project, status string) {
	c.LoadsTotal.WithLabelValues(project, status).Inc()
}

// RecordLoadDuration records a data model load time.
func (c *Metrics) RecordLoadDuration(project string, duration time.Duration) {
	c.LoadDuration.WithLabelValues(project).Observe(duration.Seconds())
}

// RecordStoreRequest increments the gateway request counter.
func (c *Metrics) RecordStoreRequest(operation, status string) {
	c.StoreRequests.WithLabelValues(operation, status).Inc()
}

// RecordStoreRTT records a gateway round-trip time.
func (c *Metrics) RecordStoreRTT(operation string, duration time.Duration) {
	c.StoreRequestRTT.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordStoreStatus updates the store connection status.
func (c *Metrics) RecordStoreStatus(connected bool) {
	value := 0.0
	if connected {
		value = 1.0
	}
	c.StoreConnected.Set(value)
}

// RecordStoreReconnect increments the reconnection counter.
func (c *Metrics) RecordStoreReconnect() {
	c.StoreReconnects.Inc()
}

// RecordValidationError increments the validation rejection counter.
func (c *Metrics) RecordValidationError(project, kind string) {
	c.ValidationErrors.WithLabelValues(project, kind).Inc()
}
