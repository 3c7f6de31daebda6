// Package metrics holds the Prometheus collectors of the statekit
// inspector.
//
// Metrics collected:
//   - statekit_mutations_total: document mutations by op (put, patch, delete)
//   - statekit_resets_total: resets to the baseline
//   - statekit_resyncs_total: baseline rebases
//   - statekit_dirty: 1 while the document differs from its baseline
//   - statekit_ws_clients: connected websocket clients
//   - statekit_request_duration_seconds: handler latency by route
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "statekit").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry receives the collectors and backs Handler.
	// Default: a fresh registry.
	Registry *prometheus.Registry
}

// Option configures the collectors.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

// Metrics is the set of inspector collectors.
type Metrics struct {
	registry *prometheus.Registry

	mutationsTotal  *prometheus.CounterVec
	resetsTotal     prometheus.Counter
	resyncsTotal    prometheus.Counter
	dirty           prometheus.Gauge
	wsClients       prometheus.Gauge
	requestDuration *prometheus.HistogramVec
}

// New registers the collectors.
func New(opts ...Option) *Metrics {
	config := Config{
		Namespace: "statekit",
		Buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(&config)
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		registry: config.Registry,

		mutationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "mutations_total",
			Help:        "Total number of document mutations",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),

		resetsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "resets_total",
			Help:        "Total number of resets to the baseline",
			ConstLabels: config.ConstLabels,
		}),

		resyncsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "resyncs_total",
			Help:        "Total number of baseline rebases",
			ConstLabels: config.ConstLabels,
		}),

		dirty: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "dirty",
			Help:        "1 while the document differs from its baseline",
			ConstLabels: config.ConstLabels,
		}),

		wsClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "ws_clients",
			Help:        "Number of connected websocket clients",
			ConstLabels: config.ConstLabels,
		}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "request_duration_seconds",
			Help:        "Inspector request duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"route"}),
	}
}

// Mutation counts one document mutation.
func (m *Metrics) Mutation(op string) {
	m.mutationsTotal.WithLabelValues(op).Inc()
}

// Reset counts one reset.
func (m *Metrics) Reset() {
	m.resetsTotal.Inc()
}

// Resync counts one resync.
func (m *Metrics) Resync() {
	m.resyncsTotal.Inc()
}

// SetDirty records the dirty flag.
func (m *Metrics) SetDirty(dirty bool) {
	if dirty {
		m.dirty.Set(1)
	} else {
		m.dirty.Set(0)
	}
}

// ClientConnected increments the websocket client gauge.
func (m *Metrics) ClientConnected() {
	m.wsClients.Inc()
}

// ClientDisconnected decrements the websocket client gauge.
func (m *Metrics) ClientDisconnected() {
	m.wsClients.Dec()
}

// ObserveRequest records how long a route took.
func (m *Metrics) ObserveRequest(route string, d time.Duration) {
	m.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
