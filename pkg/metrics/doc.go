/*
Package metrics provides Prometheus metrics collection and exposition for
the ledger, plus the readiness/liveness checker served alongside it.

# Architecture

Metrics are registered at package init against the default Prometheus
registry and exposed over HTTP for scraping, the same shape as the
teacher's metrics package, with the metric catalog replaced end to end:

	┌──────────────────── METRICS SYSTEM ──────────────────────┐
	│  Prometheus Registry (MustRegister at init)               │
	│                                                            │
	│  Mutation engine: counts by op kind, apply latency,       │
	│  propagation chain length                                 │
	│  Checkpoints: writes, deletes                              │
	│  Report engine: latency and count by kind                 │
	│  Backend: transaction commit latency                      │
	│  Sweep: duration, divergences found                        │
	│                                                            │
	│  HTTP endpoint: /metrics (promhttp.Handler)                │
	└────────────────────────────────────────────────────────────┘

# Metrics Catalog

ledger_mutations_total{kind, outcome}:
  - Counter. Op mutations applied, by op kind (receive/issue/inventory)
    and outcome: ok, the ledgererr kind name of a failure (not_found/
    conflict/decode/invariant/storage/bad_input), or error for any
    other failure.

ledger_mutation_duration_seconds{kind}:
  - Histogram. Time to apply one op mutation, including forward
    propagation and checkpoint writes.

ledger_propagation_chain_length:
  - Histogram. Number of successor ops revisited while propagating a
    single mutation forward through its (store, goods, batch) series.

ledger_checkpoint_writes_total / ledger_checkpoint_deletes_total:
  - Counters. Checkpoint boundaries written with a non-zero balance,
    versus deleted because the balance zeroed out.

ledger_report_duration_seconds{kind}:
  - Histogram. Time to build a turnover report, by kind (store/
    aggregate).

ledger_reports_total{kind, outcome}:
  - Counter. Reports generated, by kind and outcome.

ledger_backend_commit_duration_seconds{kind}:
  - Histogram. Time to commit a backend transaction, by kind (view or
    update).

ledger_sweep_duration_seconds:
  - Histogram. Time to run a consistency sweep over one store.

ledger_sweep_divergences_total{store}:
  - Counter. (op, stored, recomputed) divergences found by a sweep.

# Usage

	timer := metrics.NewTimer()
	err := engine.Apply(mutations)
	metrics.MutationDuration.WithLabelValues(kind).Observe(timer.Duration().Seconds())

# Health

HealthChecker tracks named components ("storage", "sweep") registered
via RegisterComponent/UpdateComponent; GetHealth reports healthy unless
any registered component is unhealthy, GetReadiness additionally
requires storage and sweep to be registered and healthy. HealthHandler,
ReadyHandler, and LivenessHandler wrap these for `ledger serve`.
*/
package metrics
