package sorosan

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts lifecycle events. Collectors are registered on the
// Registerer given to NewMetrics; a nil Registerer leaves them unregistered.
type Metrics struct {
	simulations  *prometheus.CounterVec
	submissions  *prometheus.CounterVec
	polls        prometheus.Counter
	outcomes     *prometheus.CounterVec
	specEntries  prometheus.Counter
	pollDuration prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		simulations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sorosan",
				Name:      "simulations_total",
				Help:      "Transaction simulations by result",
			},
			[]string{"result"},
		),
		submissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sorosan",
				Name:      "submissions_total",
				Help:      "Transaction submissions by send status",
			},
			[]string{"status"},
		),
		polls: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "sorosan",
				Name:      "poll_attempts_total",
				Help:      "getTransaction polls issued while waiting for finality",
			},
		),
		outcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "sorosan",
				Name:      "outcomes_total",
				Help:      "Final transaction outcomes",
			},
			[]string{"status"},
		),
		specEntries: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "sorosan",
				Name:      "spec_entries_decoded_total",
				Help:      "Contract spec entries decoded from wasm",
			},
		),
		pollDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "sorosan",
				Name:      "finality_wait_seconds",
				Help:      "Time from submission to a final outcome",
				Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120},
			},
		),
	}
}
