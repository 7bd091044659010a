package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/roadnet/pkg/cache"
	"github.com/matzehuels/roadnet/pkg/io"
	"github.com/matzehuels/roadnet/pkg/observability"
	"github.com/matzehuels/roadnet/pkg/render"
	"github.com/matzehuels/roadnet/pkg/roadgraph"
)

// RenderOptions configures a rendered view of a graph.
type RenderOptions struct {
	Format   string
	Detailed bool
}

// Render draws g as DOT or SVG. SVG output is cached by the graph's JSON
// hash; DOT is cheap and never cached.
func (r *Runner) Render(ctx context.Context, g *roadgraph.Graph, opts RenderOptions) ([]byte, bool, error) {
	if opts.Format == "" {
		opts.Format = FormatSVG
	}
	if err := ValidateRenderFormat(opts.Format); err != nil {
		return nil, false, err
	}

	dot := render.ToDOT(g, render.Options{Detailed: opts.Detailed})
	if opts.Format == FormatDOT {
		return []byte(dot), false, nil
	}

	graphData, err := io.MarshalGraph(g)
	if err != nil {
		return nil, false, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	key := r.Keyer.RenderKey(cache.Hash(graphData), cache.RenderKeyOpts{
		Format:   opts.Format,
		Detailed: opts.Detailed,
	})

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "render")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "render")

	svg, err := render.RenderSVG(ctx, dot)
	if err != nil {
		return nil, false, fmt.Errorf("render %s: %w", opts.Format, err)
	}
	if err := r.Cache.Set(ctx, key, svg, cache.TTLGraph); err == nil {
		observability.Cache().OnCacheSet(ctx, "render", len(svg))
	}
	return svg, false, nil
}
