// Package metrics exposes Prometheus instrumentation for trainer matching and
// notification delivery.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry

	matchingDuration *prometheus.HistogramVec
	trainersScored   *prometheus.CounterVec
	lookupFallbacks  *prometheus.CounterVec
	deliveries       *prometheus.CounterVec
	skipped          *prometheus.CounterVec
}

type Option func(*Manager)

func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "training",
		buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	auto := promauto.With(m.registry)
	m.matchingDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "matching",
		Name:      "duration_milliseconds",
		Help:      "Time spent ranking trainers, by operation",
		Buckets:   m.buckets,
	}, []string{"operation"})
	m.trainersScored = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "matching",
		Name:      "trainers_scored_total",
		Help:      "Number of trainer scores computed, by operation",
	}, []string{"operation"})
	m.lookupFallbacks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "matching",
		Name:      "lookup_fallbacks_total",
		Help:      "Per-trainer lookups that failed and fell back to a default factor score",
	}, []string{"factor"})
	m.deliveries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "notifications",
		Name:      "channel_deliveries_total",
		Help:      "Notification channel attempts, by channel and outcome",
	}, []string{"channel", "outcome"})
	m.skipped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "notifications",
		Name:      "skipped_total",
		Help:      "Workflow notifications not sent, by reason",
	}, []string{"reason"})

	return m
}

func (m *Manager) ObserveMatching(operation string, started time.Time, scored int) {
	if m == nil {
		return
	}
	m.matchingDuration.WithLabelValues(operation).Observe(float64(time.Since(started).Milliseconds()))
	m.trainersScored.WithLabelValues(operation).Add(float64(scored))
}

func (m *Manager) IncLookupFallback(factor string) {
	if m == nil {
		return
	}
	m.lookupFallbacks.WithLabelValues(factor).Inc()
}

func (m *Manager) ObserveDelivery(channel string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.deliveries.WithLabelValues(channel, outcome).Inc()
}

func (m *Manager) IncSkipped(reason string) {
	if m == nil {
		return
	}
	m.skipped.WithLabelValues(reason).Inc()
}

func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
