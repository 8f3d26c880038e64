package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	corehead "github.com/vango-dev/head/pkg/head"
)

// MetricsConfig configures the Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "head").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for durations.
	// Default: buckets from 50µs to ~100ms, resolution and flushes are fast.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "head",
		Buckets:   prometheus.ExponentialBuckets(0.00005, 2, 12),
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics records head activity as Prometheus metrics. It implements
// head.Observer and is safe for concurrent use, so one Metrics can observe
// every per-request client.
//
// Metrics collected:
//   - head_entries: Gauge of registered entries in the last changed client
//   - head_resolves_total: Counter of resolution passes
//   - head_resolve_duration_seconds: Histogram of resolution duration
//   - head_resolved_tags: Histogram of resolved tag counts
//   - head_props_stripped_total: Counter of sanitized props by tag and kind
//   - head_dom_flushes_total: Counter of DOM flushes by result
//   - head_dom_patches_total: Counter of applied DOM patches
//   - head_dom_flush_duration_seconds: Histogram of flush duration
//   - head_ssr_renders_total: Counter of SSR injections
//   - head_ssr_render_duration_seconds: Histogram of SSR injection duration
//   - head_live_connections: Gauge of live patch stream connections
type Metrics struct {
	entries      prometheus.Gauge
	resolves     prometheus.Counter
	resolveTime  prometheus.Histogram
	resolvedTags prometheus.Histogram
	stripped     *prometheus.CounterVec
	flushes      *prometheus.CounterVec
	patches      prometheus.Counter
	flushTime    prometheus.Histogram
	renders      prometheus.Counter
	renderTime   prometheus.Histogram
	liveConns    prometheus.Gauge
}

var _ corehead.Observer = (*Metrics)(nil)

// NewMetrics registers the head metrics.
//
// Example:
//
//	metrics := middleware.NewMetrics(middleware.WithNamespace("site"))
//	client := head.New(head.Config{Observer: metrics})
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
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
	histogram := func(name, help string, buckets []float64) prometheus.Histogram {
		return factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
			Buckets:     buckets,
		})
	}

	return &Metrics{
		entries:      gauge("entries", "Number of registered entries in the last changed client"),
		resolves:     counter("resolves_total", "Total number of resolution passes"),
		resolveTime:  histogram("resolve_duration_seconds", "Resolution duration in seconds", config.Buckets),
		resolvedTags: histogram("resolved_tags", "Number of tags per resolution pass", prometheus.LinearBuckets(0, 5, 10)),
		stripped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "props_stripped_total",
			Help:        "Total number of props removed by sanitization",
			ConstLabels: config.ConstLabels,
		}, []string{"tag", "kind"}),
		flushes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "dom_flushes_total",
			Help:        "Total number of DOM flushes by result",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),
		patches:    counter("dom_patches_total", "Total number of applied DOM patches"),
		flushTime:  histogram("dom_flush_duration_seconds", "DOM flush duration in seconds", config.Buckets),
		renders:    counter("ssr_renders_total", "Total number of SSR injections"),
		renderTime: histogram("ssr_render_duration_seconds", "SSR injection duration in seconds", config.Buckets),
		liveConns:  gauge("live_connections", "Number of live patch stream connections"),
	}
}

// EntriesChanged implements corehead.Observer.
func (m *Metrics) EntriesChanged(count int) {
	m.entries.Set(float64(count))
}

// TagsResolved implements corehead.Observer.
func (m *Metrics) TagsResolved(count int, elapsed time.Duration) {
	m.resolves.Inc()
	m.resolveTime.Observe(elapsed.Seconds())
	m.resolvedTags.Observe(float64(count))
}

// PropStripped implements corehead.Observer. Prop names are folded into a kind
// to keep label cardinality bounded.
func (m *Metrics) PropStripped(tag, prop string) {
	m.stripped.WithLabelValues(tag, strippedKind(prop)).Inc()
}

// FlushCompleted implements corehead.Observer.
func (m *Metrics) FlushCompleted(applied bool, patches int, elapsed time.Duration) {
	result := "applied"
	if !applied {
		result = "aborted"
	}
	m.flushes.WithLabelValues(result).Inc()
	m.patches.Add(float64(patches))
	m.flushTime.Observe(elapsed.Seconds())
}

// RenderCompleted records one SSR injection.
func (m *Metrics) RenderCompleted(elapsed time.Duration) {
	m.renders.Inc()
	m.renderTime.Observe(elapsed.Seconds())
}

// ConnectionsChanged records the number of live patch stream connections.
func (m *Metrics) ConnectionsChanged(count int) {
	m.liveConns.Set(float64(count))
}

func strippedKind(prop string) string {
	switch {
	case prop == corehead.PropInnerHTML:
		return "inner_html"
	case corehead.IsEventHandlerAttr(prop):
		return "event_handler"
	case !corehead.IsValidAttrName(prop):
		return "invalid_name"
	default:
		return "other"
	}
}
