// Package metrics exposes Prometheus collectors for the interrogation API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "interrogation"

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	// TurnsTotal counts processed turns.
	// Labels: kind (init, interrogation, meta, accusation, game_over)
	TurnsTotal *prometheus.CounterVec

	// VerdictsTotal counts accusations by result (WIN, LOSE).
	VerdictsTotal *prometheus.CounterVec

	// GenerationFailuresTotal counts replies replaced by the unavailable text.
	GenerationFailuresTotal prometheus.Counter

	// GenerationSeconds measures time spent waiting on the generator.
	// Labels: mode (live, bypass)
	GenerationSeconds *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TurnsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "turns_total",
				Help:      "Turns processed by kind",
			},
			[]string{"kind"},
		),
		VerdictsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "verdicts_total",
				Help:      "Accusations by result",
			},
			[]string{"result"},
		),
		GenerationFailuresTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generation_failures_total",
				Help:      "Narrative generation calls that failed",
			},
		),
		GenerationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "generation_seconds",
				Help:      "Time spent generating a character reply",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"mode"},
		),
	}
	reg.MustRegister(m.TurnsTotal, m.VerdictsTotal, m.GenerationFailuresTotal, m.GenerationSeconds)
	return m
}

func (m *Metrics) Turn(kind string) {
	if m == nil {
		return
	}
	m.TurnsTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) Verdict(result string) {
	if m == nil {
		return
	}
	m.VerdictsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) GenerationFailed() {
	if m == nil {
		return
	}
	m.GenerationFailuresTotal.Inc()
}

func (m *Metrics) ObserveGeneration(mode string, seconds float64) {
	if m == nil {
		return
	}
	m.GenerationSeconds.WithLabelValues(mode).Observe(seconds)
}
