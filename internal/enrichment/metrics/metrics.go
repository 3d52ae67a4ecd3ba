package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the enrichment module.
type Metrics struct {
	// Wall-clock duration of whole runs
	RunDuration prometheus.Histogram

	// Per-issuer directory fetch latency
	FetchLatency prometheus.Histogram

	// Unit-of-work outcomes by terminal state
	Outcomes *prometheus.CounterVec

	// Units currently executing inside the worker pool
	InFlight prometheus.Gauge
}

// New creates a Metrics instance with all enrichment metrics registered.
func New() *Metrics {
	return &Metrics{
		RunDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "isinhub_enrichment_run_duration_seconds",
			Help:    "Duration of full enrichment runs including the join barrier",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		FetchLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "isinhub_enrichment_fetch_duration_seconds",
			Help:    "Duration of individual ISIN directory fetches",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		Outcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "isinhub_enrichment_outcomes_total",
			Help: "Total unit-of-work outcomes by terminal state",
		}, []string{"state"}), // state: "succeeded", "failed"

		InFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "isinhub_enrichment_in_flight_units",
			Help: "Units of work currently executing inside the worker pool",
		}),
	}
}

// ObserveRunDuration records the wall-clock time of a full run.
func (m *Metrics) ObserveRunDuration(d time.Duration) {
	if m != nil {
		m.RunDuration.Observe(d.Seconds())
	}
}

// ObserveFetchLatency records one directory fetch duration.
func (m *Metrics) ObserveFetchLatency(d time.Duration) {
	if m != nil {
		m.FetchLatency.Observe(d.Seconds())
	}
}

// IncrementOutcome records a terminal unit-of-work state.
func (m *Metrics) IncrementOutcome(state string) {
	if m != nil {
		m.Outcomes.WithLabelValues(state).Inc()
	}
}

// UnitStarted and UnitFinished bracket a unit's execution in the pool.
func (m *Metrics) UnitStarted() {
	if m != nil {
		m.InFlight.Inc()
	}
}

func (m *Metrics) UnitFinished() {
	if m != nil {
		m.InFlight.Dec()
	}
}
