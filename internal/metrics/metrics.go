package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	cyclesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "moirai_decision_cycles_total",
		Help: "Total number of completed decision cycles",
	})
	cyclesDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "moirai_decision_cycles_dropped_total",
		Help: "Total number of cycle ticks dropped because a cycle was still running",
	})
	samplingFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "moirai_context_sampling_failures_total",
		Help: "Total number of cycles abandoned because context sampling failed",
	})
	decisionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "moirai_decisions_total",
		Help: "Total number of business decisions dispatched",
	})
	dispatchFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "moirai_dispatch_failures_total",
		Help: "Total number of action dispatches that returned an error",
	})
	rulesDisabledTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "moirai_rules_disabled_total",
		Help: "Total number of rules disabled by the optimizer",
	})
)

// Register registers Prometheus collectors. Call once at startup.
func Register(registry *prometheus.Registry) {
	registry.MustRegister(
		cyclesTotal,
		cyclesDroppedTotal,
		samplingFailuresTotal,
		decisionsTotal,
		dispatchFailuresTotal,
		rulesDisabledTotal,
	)
}

// IncCycle increments the completed cycles counter.
func IncCycle() { cyclesTotal.Inc() }

// IncCycleDropped increments the dropped ticks counter.
func IncCycleDropped() { cyclesDroppedTotal.Inc() }

// IncSamplingFailure increments the abandoned cycles counter.
func IncSamplingFailure() { samplingFailuresTotal.Inc() }

// AddDecisions adds to the dispatched decisions counter.
func AddDecisions(n int) { decisionsTotal.Add(float64(n)) }

// IncDispatchFailure increments the failed dispatches counter.
func IncDispatchFailure() { dispatchFailuresTotal.Inc() }

// IncRuleDisabled increments the optimizer-disabled rules counter.
func IncRuleDisabled() { rulesDisabledTotal.Inc() }
