package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/patchwork/pkg/live"
	"github.com/vango-dev/patchwork/pkg/reconcile"
	"github.com/vango-dev/patchwork/pkg/vdom"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "patchwork").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
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
		Namespace: "patchwork",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Mutation kinds used as the "op" label of render_mutations_total.
const (
	OpMounted     = "mounted"
	OpUnmounted   = "unmounted"
	OpReplaced    = "replaced"
	OpMoved       = "moved"
	OpText        = "text"
	OpAttrWrite   = "attr_write"
	OpAttrRemoval = "attr_removal"
)

type metrics struct {
	rendersTotal   *prometheus.CounterVec
	renderDuration prometheus.Histogram
	mutations      *prometheus.CounterVec
}

// Metrics are created once per registry, so installing the middleware on
// several renderers shares one set of collectors.
var (
	metricsByRegistry   = make(map[prometheus.Registerer]*metrics)
	metricsByRegistryMu sync.Mutex
)

func metricsFor(config MetricsConfig) *metrics {
	metricsByRegistryMu.Lock()
	defer metricsByRegistryMu.Unlock()

	if m, ok := metricsByRegistry[config.Registry]; ok {
		return m
	}
	m := initMetrics(config)
	metricsByRegistry[config.Registry] = m
	return m
}

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of render cycles by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Render cycle duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		mutations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_mutations_total",
			Help:        "Total live-tree mutations applied by kind",
			ConstLabels: config.ConstLabels,
		}, []string{"op"}),
	}
}

// Prometheus creates middleware that collects Prometheus metrics for render
// cycles.
//
// Metrics collected:
//   - patchwork_renders_total: Counter of cycles by status (success, error)
//   - patchwork_render_duration_seconds: Histogram of cycle duration
//   - patchwork_render_mutations_total: Counter of applied mutations by op
func Prometheus(opts ...MetricsOption) reconcile.Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	m := metricsFor(config)

	return func(next reconcile.RenderFunc) reconcile.RenderFunc {
		return func(ctx context.Context, tree *vdom.VNode, container live.Node) (reconcile.Stats, error) {
			start := time.Now()
			st, err := next(ctx, tree, container)
			m.renderDuration.Observe(time.Since(start).Seconds())

			status := "success"
			if err != nil {
				status = "error"
			}
			m.rendersTotal.WithLabelValues(status).Inc()
			m.record(st)
			return st, err
		}
	}
}

func (m *metrics) record(st reconcile.Stats) {
	add := func(op string, n int) {
		if n > 0 {
			m.mutations.WithLabelValues(op).Add(float64(n))
		}
	}
	add(OpMounted, st.Mounted)
	add(OpUnmounted, st.Unmounted)
	add(OpReplaced, st.Replaced)
	add(OpMoved, st.Moved)
	add(OpText, st.TextUpdates)
	add(OpAttrWrite, st.AttrWrites)
	add(OpAttrRemoval, st.AttrRemovals)
}
