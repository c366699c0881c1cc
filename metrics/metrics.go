// Package metrics exposes prometheus counters for the CSL scheduler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for concluded transmissions.
const (
	OutcomeSuccess              = "success"
	OutcomeNoAck                = "no_ack"
	OutcomeChannelAccessFailure = "channel_access_failure"
	OutcomeAbort                = "abort"
)

const (
	namespace = "mesh"
	subsystem = "mac"
)

var (
	windowsRequested = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "csl_windows_requested_total",
			Help:      "Total number of CSL transmission windows requested from the radio",
		},
	)

	txOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "csl_tx_outcomes_total",
			Help:      "Total number of concluded CSL transmissions by outcome",
		},
		[]string{"outcome"},
	)
)

// IncWindowRequested counts a scheduling request issued to the engine.
func IncWindowRequested() {
	windowsRequested.Inc()
}

// IncTxOutcome counts a concluded over-air attempt.
func IncTxOutcome(outcome string) {
	txOutcomes.WithLabelValues(outcome).Inc()
}
