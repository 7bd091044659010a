package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics implements every hook interface on top of a prometheus registry.
type Metrics struct {
	StageDuration  *prometheus.HistogramVec
	StageErrors    *prometheus.CounterVec
	VerticesBuilt  prometheus.Counter
	EdgesResolved  prometheus.Counter
	EdgesDropped   prometheus.Counter
	ExportBytes    *prometheus.HistogramVec
	CacheRequests  *prometheus.CounterVec
	CacheSetBytes  *prometheus.CounterVec
	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
	HTTPInFlight   prometheus.Gauge
	HTTPResponseSz *prometheus.HistogramVec

	registry *prometheus.Registry
}

// NewMetrics creates the roadnet collectors and registers them with reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		StageDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "roadnet_stage_duration_seconds",
				Help:    "Duration of pipeline stages",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		StageErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roadnet_stage_errors_total",
				Help: "Pipeline stage failures",
			},
			[]string{"stage"},
		),
		VerticesBuilt: f.NewCounter(prometheus.CounterOpts{
			Name: "roadnet_vertices_built_total",
			Help: "Vertices produced by graph builds",
		}),
		EdgesResolved: f.NewCounter(prometheus.CounterOpts{
			Name: "roadnet_edges_resolved_total",
			Help: "Edges attached to a source vertex",
		}),
		EdgesDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "roadnet_edges_dropped_total",
			Help: "Edges dropped because their source vertex is unknown",
		}),
		ExportBytes: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "roadnet_export_size_bytes",
				Help:    "Size of exported graphs",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
			},
			[]string{"format"},
		),
		CacheRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roadnet_cache_requests_total",
				Help: "Cache lookups by key type and result",
			},
			[]string{"key_type", "result"},
		),
		CacheSetBytes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roadnet_cache_set_bytes_total",
				Help: "Bytes written to the cache",
			},
			[]string{"key_type"},
		),
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "roadnet_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "roadnet_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		HTTPInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "roadnet_http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		}),
		HTTPResponseSz: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "roadnet_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "route"},
		),
	}
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) OnLoadStart(context.Context, string) {}

func (m *Metrics) OnLoadComplete(_ context.Context, _ string, _, _ int, d time.Duration, err error) {
	m.stage("load", d, err)
}

func (m *Metrics) OnBuildStart(context.Context, int, int) {}

func (m *Metrics) OnBuildComplete(_ context.Context, vertices, edges, dropped int, d time.Duration) {
	m.stage("build", d, nil)
	m.VerticesBuilt.Add(float64(vertices))
	m.EdgesResolved.Add(float64(edges))
	m.EdgesDropped.Add(float64(dropped))
}

func (m *Metrics) OnExportStart(context.Context, string) {}

func (m *Metrics) OnExportComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	m.stage("export", d, err)
	if err == nil {
		m.ExportBytes.WithLabelValues(format).Observe(float64(size))
	}
}

func (m *Metrics) stage(name string, d time.Duration, err error) {
	m.StageDuration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		m.StageErrors.WithLabelValues(name).Inc()
	}
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.CacheRequests.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.CacheRequests.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.CacheSetBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.HTTPInFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status, size int, d time.Duration) {
	m.HTTPInFlight.Dec()
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
	m.HTTPResponseSz.WithLabelValues(method, route).Observe(float64(size))
}

var (
	_ PipelineHooks = (*Metrics)(nil)
	_ CacheHooks    = (*Metrics)(nil)
	_ HTTPHooks     = (*Metrics)(nil)
)
