// Package metrics holds the prometheus collectors for circuit synthesis.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"qlcu/circuit"
)

const (
	metricsNamespace = "qlcu"
	subsystem        = "synthesis"
)

var (
	// FragmentsTotal counts synthesized fragments.
	FragmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "fragments_total",
			Help:      "Total number of fragments synthesized",
		},
		[]string{"kind"}, // kind: "stateprep", "prepare", "select", "lcu", "qubitise"
	)

	// GatesTotal counts gates emitted by synthesis.
	GatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "gates_total",
			Help:      "Total number of gates emitted by synthesized fragments",
		},
		[]string{"kind"},
	)

	// SynthesisDuration observes wall time per fragment.
	SynthesisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: subsystem,
			Name:      "duration_seconds",
			Help:      "Time taken to synthesize a fragment",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// StateprepCacheTotal counts amplitude encoder cache lookups.
	StateprepCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "stateprep_cache_total",
			Help:      "Total number of amplitude encoder cache lookups",
		},
		[]string{"result"}, // result: "hit", "miss"
	)
)

// ObserveFragment records one synthesized fragment of the given kind.
func ObserveFragment(kind string, f circuit.Fragment, seconds float64) {
	FragmentsTotal.WithLabelValues(kind).Inc()
	GatesTotal.WithLabelValues(kind).Add(float64(len(f.Gates())))
	SynthesisDuration.WithLabelValues(kind).Observe(seconds)
}
