package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts dispatched calls by action and outcome.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agentkit_dispatch_total",
				Help: "Total number of dispatched actions",
			},
			[]string{"action", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agentkit_dispatch_duration_seconds",
				Help:    "Duration of dispatched actions",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"action"},
		),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.calls, m.duration} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// UnknownActionLabel is the action label for every name that matches no action.
const UnknownActionLabel = "unknown"

func (m *Metrics) observe(action string, outcome Outcome, d time.Duration) {
	if m == nil {
		return
	}
	if outcome == OutcomeUnknown {
		action = UnknownActionLabel
	}
	m.calls.WithLabelValues(action, outcome.String()).Inc()
	m.duration.WithLabelValues(action).Observe(d.Seconds())
}
