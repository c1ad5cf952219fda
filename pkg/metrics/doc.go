/*
Package metrics exposes Prometheus metrics and HTTP health endpoints
for poolsched.

All metrics are registered at init time and updated inline by the
evaluator, the actuator and the config watcher:

  - poolsched_evaluation_cycles_total, poolsched_evaluation_duration_seconds
  - poolsched_targets_evaluated_total, poolsched_decisions_total{action}
  - poolsched_resizes_total, poolsched_resize_failures_total,
    poolsched_resizes_skipped_total
  - poolsched_snapshot_reloads_total, poolsched_snapshot_reload_failures_total
  - poolsched_provider_requests_total{operation,outcome}

Handler() serves /metrics; HealthHandler and ReadyHandler serve
/healthz and /readyz. Readiness requires the config, provider and
storage components to be registered and healthy.

The Timer helper measures durations into histograms:

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.EvaluationDuration)
*/
package metrics
