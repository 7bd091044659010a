package observability

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.Counter.GetValue()
}

func TestMetricsPipeline(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics(prometheus.NewRegistry())

	m.OnLoadComplete(ctx, "net.json", 3, 4, time.Millisecond, nil)
	m.OnBuildComplete(ctx, 3, 3, 1, time.Millisecond)
	m.OnBuildComplete(ctx, 2, 1, 0, time.Millisecond)
	m.OnExportComplete(ctx, "json", 100, time.Millisecond, errors.New("broken pipe"))

	if got := counterValue(t, m.VerticesBuilt); got != 5 {
		t.Errorf("vertices = %v, want 5", got)
	}
	if got := counterValue(t, m.EdgesResolved); got != 4 {
		t.Errorf("edges = %v, want 4", got)
	}
	if got := counterValue(t, m.EdgesDropped); got != 1 {
		t.Errorf("dropped = %v, want 1", got)
	}
	if got := counterValue(t, m.StageErrors.WithLabelValues("export")); got != 1 {
		t.Errorf("export errors = %v, want 1", got)
	}
	if got := counterValue(t, m.StageErrors.WithLabelValues("load")); got != 0 {
		t.Errorf("load errors = %v, want 0", got)
	}
}

func TestMetricsCache(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics(prometheus.NewRegistry())

	m.OnCacheMiss(ctx, "graph")
	m.OnCacheSet(ctx, "graph", 512)
	m.OnCacheHit(ctx, "graph")
	m.OnCacheHit(ctx, "graph")

	tests := []struct {
		result string
		want   float64
	}{
		{"hit", 2},
		{"miss", 1},
	}
	for _, tt := range tests {
		if got := counterValue(t, m.CacheRequests.WithLabelValues("graph", tt.result)); got != tt.want {
			t.Errorf("cache %s = %v, want %v", tt.result, got, tt.want)
		}
	}
	if got := counterValue(t, m.CacheSetBytes.WithLabelValues("graph")); got != 512 {
		t.Errorf("cache bytes = %v, want 512", got)
	}
}

func TestMetricsHTTP(t *testing.T) {
	ctx := context.Background()
	m := NewMetrics(prometheus.NewRegistry())

	m.OnRequest(ctx, "POST", "/v1/normalize")
	m.OnResponse(ctx, "POST", "/v1/normalize", 400, 64, time.Millisecond)

	if got := counterValue(t, m.HTTPRequests.WithLabelValues("POST", "/v1/normalize", "400")); got != 1 {
		t.Errorf("requests = %v, want 1", got)
	}

	var g dto.Metric
	if err := m.HTTPInFlight.Write(&g); err != nil {
		t.Fatal(err)
	}
	if g.Gauge.GetValue() != 0 {
		t.Errorf("in flight = %v, want 0", g.Gauge.GetValue())
	}
}

func TestMetricNaming(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.OnCacheHit(context.Background(), "graph")
	m.OnBuildComplete(context.Background(), 1, 0, 0, time.Millisecond)

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("no metrics gathered")
	}
	for _, f := range families {
		if !strings.HasPrefix(f.GetName(), "roadnet_") {
			t.Errorf("metric %s lacks the roadnet_ prefix", f.GetName())
		}
	}
}
