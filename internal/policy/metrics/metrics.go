package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Decisions      *prometheus.CounterVec
	DecideDuration prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pandora_decisions_total",
			Help: "Access decisions by effect and reason",
		}, []string{"effect", "reason"}),
		DecideDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pandora_decide_duration_seconds",
			Help:    "Duration of policy engine decisions (request critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementDecision(effect, reason string) {
	m.Decisions.WithLabelValues(effect, reason).Inc()
}

func (m *Metrics) ObserveDecideLatency(start time.Time) {
	m.DecideDuration.Observe(time.Since(start).Seconds())
}
