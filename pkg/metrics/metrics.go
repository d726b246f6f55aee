package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Mutation engine metrics
	MutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_mutations_total",
			Help: "Total number of op mutations applied, by op kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	MutationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_mutation_duration_seconds",
			Help:    "Time taken to apply a single op mutation, including propagation",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	PropagationChainLength = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ledger_propagation_chain_length",
			Help:    "Number of successor ops revisited while propagating one mutation forward",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
	)

	// Checkpoint metrics
	CheckpointWritesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_checkpoint_writes_total",
			Help: "Total number of checkpoint boundaries written with a non-zero balance",
		},
	)

	CheckpointDeletesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_checkpoint_deletes_total",
			Help: "Total number of checkpoint boundaries deleted because the balance zeroed out",
		},
	)

	// Report engine metrics
	ReportDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_report_duration_seconds",
			Help:    "Time taken to build a turnover report",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	ReportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_reports_total",
			Help: "Total number of reports generated, by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	// Backend metrics
	BackendCommitDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_backend_commit_duration_seconds",
			Help:    "Time taken to commit a backend transaction, by kind (view/update)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// Sweep metrics
	SweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ledger_sweep_duration_seconds",
			Help:    "Time taken to run a consistency sweep over a store",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
	)

	SweepDivergencesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_sweep_divergences_total",
			Help: "Total number of (op, stored, recomputed) divergences found by a consistency sweep",
		},
		[]string{"store"},
	)
)

func init() {
	prometheus.MustRegister(MutationsTotal)
	prometheus.MustRegister(MutationDuration)
	prometheus.MustRegister(PropagationChainLength)
	prometheus.MustRegister(CheckpointWritesTotal)
	prometheus.MustRegister(CheckpointDeletesTotal)
	prometheus.MustRegister(ReportDuration)
	prometheus.MustRegister(ReportsTotal)
	prometheus.MustRegister(BackendCommitDuration)
	prometheus.MustRegister(SweepDuration)
	prometheus.MustRegister(SweepDivergencesTotal)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	duration := time.Since(t.start).Seconds()
	histogram.Observe(duration)
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	duration := time.Since(t.start).Seconds()
	histogram.WithLabelValues(labels...).Observe(duration)
}

// Duration returns the elapsed time since timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
