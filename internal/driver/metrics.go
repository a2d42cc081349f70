package driver

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "mlssa"
	subsystem = "construction"
)

// Metrics counts construction work. All collectors are registered on the
// registry passed to NewMetrics.
type Metrics struct {
	functions   *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
	duration    prometheus.Histogram
}

func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		functions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "functions_total",
			Help:      "Function bodies processed, by outcome",
		}, []string{"outcome"}),
		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "diagnostics_total",
			Help:      "Diagnostics reported during construction, by category",
		}, []string{"category"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "duration_seconds",
			Help:      "Time spent building one function body",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}

	for _, c := range []prometheus.Collector{m.functions, m.diagnostics, m.duration} {
		if err := registerer.Register(c); err != nil {
			return nil, errors.Wrap(err, "registering construction metrics")
		}
	}
	return m, nil
}

func (m *Metrics) observe(result *FunctionResult, elapsed time.Duration) {
	if m == nil {
		return
	}

	outcome := "ok"
	switch {
	case result.Err != nil:
		outcome = "aborted"
	case result.Diagnostics.HasErrors():
		outcome = "error"
	}
	m.functions.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())

	for _, d := range result.Diagnostics.Diagnostics() {
		m.diagnostics.WithLabelValues(d.Category.String()).Inc()
	}
}
