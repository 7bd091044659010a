// Package render draws a built road graph for inspection.
//
// [ToDOT] emits Graphviz DOT source: one node per vertex, one arrow per
// neighbor entry. Signalized intersections are drawn as red double circles
// and stop-controlled ones as octagons. Targets that never appeared as a
// vertex are drawn dashed. [RenderSVG] lays the DOT out in-process with
// [github.com/goccy/go-graphviz]; no system Graphviz install is needed.
//
//	dot := render.ToDOT(g, render.Options{Detailed: true})
//	svg, err := render.RenderSVG(ctx, dot)
package render
