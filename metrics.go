package deferblock

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposed by the runtime, matching the invariants §8 asks tests to
// assert — kept live in production too so an operator can watch idle
// coalescing and load dedup hold under real traffic, not just in tests.
var (
	idleOutstanding = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "deferblock",
		Name:      "idle_callbacks_outstanding",
		Help:      "Number of idle callbacks currently scheduled process-wide (should never exceed 1).",
	})

	idleBatchSize = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "deferblock",
		Name:      "idle_batch_size",
		Help:      "Number of subscribers flushed by a single coalesced idle callback.",
		Buckets:   []float64{1, 2, 4, 8, 16, 32, 64},
	})

	viewportObserved = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "deferblock",
		Name:      "viewport_subscriptions",
		Help:      "Number of outstanding viewport trigger subscriptions in the shared observer set.",
	})

	loaderInvocations = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "deferblock",
		Name:      "loader_invocations_total",
		Help:      "Total number of times any descriptor's dependency loader actually ran (should equal the descriptor count, not the instance count).",
	})

	stateTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "deferblock",
		Name:      "main_state_transitions_total",
		Help:      "Main-channel state transitions, labeled by resulting state.",
	}, []string{"state"})

	triggerFires = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "deferblock",
		Name:      "trigger_fires_total",
		Help:      "Trigger fires, labeled by kind and channel.",
	}, []string{"kind", "channel"})
)

func init() {
	prometheus.MustRegister(
		idleOutstanding,
		idleBatchSize,
		viewportObserved,
		loaderInvocations,
		stateTransitions,
		triggerFires,
	)
}
