package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Evaluation metrics
	EvaluationCyclesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "poolsched_evaluation_cycles_total",
			Help: "Total number of evaluation cycles",
		},
	)

	EvaluationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "poolsched_evaluation_duration_seconds",
			Help:    "Duration of one full evaluation cycle in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	TargetsEvaluated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "poolsched_targets_evaluated_total",
			Help: "Total number of node pools evaluated",
		},
	)

	DecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poolsched_decisions_total",
			Help: "Total number of resolver decisions by action",
		},
		[]string{"action"},
	)

	// Actuation metrics
	ResizesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "poolsched_resizes_total",
			Help: "Total number of node pool resizes applied",
		},
	)

	ResizeFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "poolsched_resize_failures_total",
			Help: "Total number of failed node pool resizes",
		},
	)

	ResizesSkipped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "poolsched_resizes_skipped_total",
			Help: "Total number of resizes skipped because the live size already matched",
		},
	)

	// Configuration metrics
	SnapshotReloadsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "poolsched_snapshot_reloads_total",
			Help: "Total number of configuration snapshot reloads",
		},
	)

	SnapshotReloadFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "poolsched_snapshot_reload_failures_total",
			Help: "Total number of rejected configuration reloads",
		},
	)

	// Cloud provider metrics
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poolsched_provider_requests_total",
			Help: "Total number of cloud provider requests by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(EvaluationCyclesTotal)
	prometheus.MustRegister(EvaluationDuration)
	prometheus.MustRegister(TargetsEvaluated)
	prometheus.MustRegister(DecisionsTotal)
	prometheus.MustRegister(ResizesTotal)
	prometheus.MustRegister(ResizeFailuresTotal)
	prometheus.MustRegister(ResizesSkipped)
	prometheus.MustRegister(SnapshotReloadsTotal)
	prometheus.MustRegister(SnapshotReloadFailures)
	prometheus.MustRegister(ProviderRequestsTotal)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
