// Package metrics exposes Prometheus instruments for practice sessions and
// calls to the language model.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bizcoach"

// Metrics is safe to use through a nil pointer, which records nothing.
type Metrics struct {
	generations       *prometheus.CounterVec
	generationLatency *prometheus.HistogramVec
	turns             *prometheus.CounterVec
	sessions          *prometheus.CounterVec
	activeSessions    prometheus.Gauge
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		// Labels: kind (questions, feedback, transcription), source (AI, DEFAULT, error), reason
		generations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "generations_total",
			Help:      "Gateway results by kind and content source",
		}, []string{"kind", "source", "reason"}),

		generationLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "latency_seconds",
			Help:      "Time spent waiting for the language model",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 35, 45, 60},
		}, []string{"kind"}),

		turns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "flow",
			Name:      "turns_total",
			Help:      "Answer submissions by outcome",
		}, []string{"outcome"}),

		sessions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "practice",
			Name:      "sessions_total",
			Help:      "Practice sessions by lifecycle event",
		}, []string{"event"}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "practice",
			Name:      "active_sessions",
			Help:      "Sessions currently held in memory",
		}),
	}
}

func (m *Metrics) ObserveGeneration(kind, source, reason string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.generations.WithLabelValues(kind, source, reason).Inc()
	m.generationLatency.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveTurn(outcome string) {
	if m == nil {
		return
	}
	m.turns.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveSession(event string) {
	if m == nil {
		return
	}
	m.sessions.WithLabelValues(event).Inc()
}

func (m *Metrics) SetActiveSessions(n int) {
	if m == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}
