package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Transitions  *prometheus.CounterVec
	Consumptions *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pandora_share_transitions_total",
			Help: "Share lifecycle transitions by terminal state",
		}, []string{"to"}),
		Consumptions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pandora_share_consumptions_total",
			Help: "View-once retrieval attempts by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) IncrementTransition(to string) {
	m.Transitions.WithLabelValues(to).Inc()
}

func (m *Metrics) IncrementConsumption(outcome string) {
	m.Consumptions.WithLabelValues(outcome).Inc()
}
