package server

import (
	"github.com/prometheus/client_golang/prometheus"

	"followexport/core"
)

type Metrics struct {
	registry   *prometheus.Registry
	runs       *prometheus.CounterVec
	followings prometheus.Histogram
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "followexport_runs_total",
			Help: "Export runs by source and outcome.",
		}, []string{"source", "outcome"}),
		followings: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "followexport_followings_count",
			Help:    "Number of followings written per successful export.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}

	m.registry.MustRegister(m.runs, m.followings)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Observe(source string, outcome core.Outcome) {
	m.runs.WithLabelValues(source, outcome.Kind.String()).Inc()
	if outcome.OK() {
		m.followings.Observe(float64(outcome.Count))
	}
}
