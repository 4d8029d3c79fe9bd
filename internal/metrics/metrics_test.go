package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Turn("interrogation")
	m.Turn("interrogation")
	m.Verdict("WIN")
	m.GenerationFailed()
	m.ObserveGeneration("live", 0.3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TurnsTotal.WithLabelValues("interrogation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.VerdictsTotal.WithLabelValues("WIN")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerationFailuresTotal))
	assert.Equal(t, 1, testutil.CollectAndCount(m.GenerationSeconds))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Turn("meta")
		m.Verdict("LOSE")
		m.GenerationFailed()
		m.ObserveGeneration("bypass", 1)
	})
}
