// Package metrics exposes Prometheus metrics for patch passes and for the
// live server.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/vtree/pkg/vdom"
)

// Config configures the metrics collector.
type Config struct {
	// Namespace is the metrics namespace (default: "vtree").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for patch duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the metrics collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
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
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "vtree",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector holds the registered metrics. It is safe for concurrent use;
// each Patcher gets its own Module from it. The Record methods are no-ops
// on a nil Collector.
type Collector struct {
	patches        prometheus.Counter
	patchDuration  prometheus.Histogram
	nodesCreated   prometheus.Counter
	nodesUpdated   prometheus.Counter
	nodesDestroyed prometheus.Counter
	nodesRemoved   prometheus.Counter

	renders        *prometheus.CounterVec
	activeSessions prometheus.Gauge
	wsClients      prometheus.Gauge
	wsErrors       *prometheus.CounterVec
}

// New registers the metrics and returns a Collector.
//
// Metrics collected:
//   - vtree_patches_total: Counter of patch passes
//   - vtree_patch_duration_seconds: Histogram of patch pass duration
//   - vtree_nodes_created_total: Counter of materialized elements
//   - vtree_nodes_updated_total: Counter of elements patched in place
//   - vtree_nodes_destroyed_total: Counter of destroyed nodes
//   - vtree_nodes_removed_total: Counter of removed subtree roots
//   - vtree_renders_total: Counter of server renders by status
//   - vtree_active_sessions: Gauge of open server sessions
//   - vtree_websocket_clients: Gauge of connected websocket subscribers
//   - vtree_websocket_errors_total: Counter of websocket errors by type
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}

	return &Collector{
		patches: counter("patches_total", "Total number of patch passes"),

		patchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patch_duration_seconds",
			Help:        "Patch pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		nodesCreated:   counter("nodes_created_total", "Total number of materialized elements"),
		nodesUpdated:   counter("nodes_updated_total", "Total number of elements patched in place"),
		nodesDestroyed: counter("nodes_destroyed_total", "Total number of destroyed nodes"),
		nodesRemoved:   counter("nodes_removed_total", "Total number of removed subtree roots"),

		renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of server renders by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		activeSessions: gauge("active_sessions", "Number of open sessions"),
		wsClients:      gauge("websocket_clients", "Number of connected websocket subscribers"),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_errors_total",
			Help:        "Total WebSocket errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

// Module returns a vdom module that times every patch pass and counts
// node lifecycle events. Use one Module per Patcher.
func (c *Collector) Module() vdom.Module {
	var start time.Time

	return vdom.Module{
		Name: "metrics",
		Pre: func() {
			start = time.Now()
		},
		Create: func(_, _ *vdom.VNode) {
			c.nodesCreated.Inc()
		},
		Update: func(_, _ *vdom.VNode) {
			c.nodesUpdated.Inc()
		},
		Destroy: func(_ *vdom.VNode) {
			c.nodesDestroyed.Inc()
		},
		Remove: func(_ *vdom.VNode, rm *vdom.Removal) {
			c.nodesRemoved.Inc()
			rm.Done()
		},
		Post: func() {
			c.patches.Inc()
			c.patchDuration.Observe(time.Since(start).Seconds())
		},
	}
}

// RecordRender records a server render. status is "success" or "error".
func (c *Collector) RecordRender(status string) {
	if c == nil {
		return
	}
	c.renders.WithLabelValues(status).Inc()
}

// RecordSessionOpen records a new session.
func (c *Collector) RecordSessionOpen() {
	if c == nil {
		return
	}
	c.activeSessions.Inc()
}

// RecordSessionClose records a closed session.
func (c *Collector) RecordSessionClose() {
	if c == nil {
		return
	}
	c.activeSessions.Dec()
}

// RecordClientConnect records a websocket subscriber joining.
func (c *Collector) RecordClientConnect() {
	if c == nil {
		return
	}
	c.wsClients.Inc()
}

// RecordClientDisconnect records a websocket subscriber leaving.
func (c *Collector) RecordClientDisconnect() {
	if c == nil {
		return
	}
	c.wsClients.Dec()
}

// RecordWebSocketError records a WebSocket error.
func (c *Collector) RecordWebSocketError(errorType string) {
	if c == nil {
		return
	}
	c.wsErrors.WithLabelValues(errorType).Inc()
}
