package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Runs             *prometheus.CounterVec
	Duration         prometheus.Histogram
	OverridesDeleted prometheus.Counter
	SharesExpired    prometheus.Counter
	ItemFailures     prometheus.Counter
	TransitionsLost  prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Runs: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pandora_sweep_runs_total",
			Help: "Sweep runs by result",
		}, []string{"result"}),
		Duration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pandora_sweep_duration_seconds",
			Help:    "Duration of sweep runs",
			Buckets: prometheus.DefBuckets,
		}),
		OverridesDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pandora_sweep_overrides_deleted_total",
			Help: "Expired overrides removed by the sweep",
		}),
		SharesExpired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pandora_sweep_shares_expired_total",
			Help: "Shares transitioned to expired by the sweep",
		}),
		ItemFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pandora_sweep_item_failures_total",
			Help: "Per-item failures that did not abort the sweep",
		}),
		TransitionsLost: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pandora_sweep_transitions_lost_total",
			Help: "Expiry transitions lost to a concurrent retrieve or cancel",
		}),
	}
}
