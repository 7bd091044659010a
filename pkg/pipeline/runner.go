package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/roadnet/pkg/cache"
	"github.com/matzehuels/roadnet/pkg/observability"
	"github.com/matzehuels/roadnet/pkg/roadgraph"
)

// Runner executes the pipeline with caching. The CLI and the HTTP server
// share it.
//
// A Runner holds no per-run state, so one Runner may serve concurrent
// Execute calls as long as its cache does.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// means cache.DefaultKeyer and a nil logger means log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs load → build → export. Unless opts.Refresh is set, an
// exported graph cached for the same input, profile and format is returned
// without rebuilding.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	data, err := ReadInput(opts)
	if err != nil {
		return nil, err
	}

	result := &Result{InputHash: cache.Hash(data)}
	cacheKey := r.Keyer.GraphKey(result.InputHash, opts.GraphKeyOpts())

	if !opts.Refresh {
		if g, out, ok := r.cached(ctx, cacheKey, opts.Format); ok {
			result.Graph = g
			result.Output = out
			result.GraphHash = cache.Hash(out)
			result.Stats.Build.Vertices = g.Len()
			result.Stats.Build.Edges = g.EdgeCount()
			result.CacheInfo.GraphHit = true
			logger.Info("loaded graph from cache",
				"vertices", g.Len(),
				"edges", g.EdgeCount())
			return result, nil
		}
	}

	// Stage 1: Load
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	net, err := Load(ctx, opts.Source, data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", opts.Source, err)
	}
	result.Stats.LoadTime = time.Since(start)
	logger.Debug("loaded network",
		"nodes", len(net.Nodes),
		"links", len(net.Edges),
		"duration", result.Stats.LoadTime)

	// Stage 2: Build
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start = time.Now()
	g, stats := Build(ctx, net, opts.Profile)
	result.Graph = g
	result.Stats.Build = stats
	result.Stats.BuildTime = time.Since(start)
	logger.Info("built graph",
		"vertices", stats.Vertices,
		"edges", stats.Edges,
		"dropped", stats.EdgesDropped,
		"duration", result.Stats.BuildTime)
	if stats.EdgesDropped > 0 {
		logger.Warn("dropped edges with unknown source", "count", stats.EdgesDropped)
	}

	// Stage 3: Export
	start = time.Now()
	out, err := Export(ctx, g, opts.Format)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Output = out
	result.GraphHash = cache.Hash(out)
	result.Stats.ExportTime = time.Since(start)
	logger.Debug("exported graph",
		"format", opts.Format,
		"bytes", len(out),
		"duration", result.Stats.ExportTime)

	if err := r.Cache.Set(ctx, cacheKey, out, cache.TTLGraph); err != nil {
		logger.Warn("cache write failed", "error", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "graph", len(out))
	}

	return result, nil
}

// cached returns the graph stored under key, decoding it to confirm the
// entry is intact. Unreadable entries count as misses.
func (r *Runner) cached(ctx context.Context, key, format string) (*roadgraph.Graph, []byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "graph")
		return nil, nil, false
	}
	g, err := Decode(data, format)
	if err != nil {
		r.Logger.Debug("discarding unreadable cache entry", "error", err)
		observability.Cache().OnCacheMiss(ctx, "graph")
		return nil, nil, false
	}
	observability.Cache().OnCacheHit(ctx, "graph")
	return g, data, true
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
