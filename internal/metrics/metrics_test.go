package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveGeneration("questions", "DEFAULT", "timeout", 2*time.Second)
	m.ObserveGeneration("questions", "DEFAULT", "timeout", time.Second)
	m.ObserveTurn("advanced")
	m.ObserveSession("started")
	m.SetActiveSessions(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.generations.WithLabelValues("questions", "DEFAULT", "timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.turns.WithLabelValues("advanced")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessions.WithLabelValues("started")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.activeSessions))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveGeneration("feedback", "AI", "", time.Second)
		m.ObserveTurn("completed")
		m.ObserveSession("ended")
		m.SetActiveSessions(1)
	})
}
