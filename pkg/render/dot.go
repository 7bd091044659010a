package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/roadnet/pkg/roadgraph"
)

// Options configures DOT generation.
type Options struct {
	// Detailed labels edges with distance and speed and vertices with their
	// coordinates. When false only ids are shown.
	Detailed bool
}

// ToDOT converts g to Graphviz DOT source. Vertex and edge order follow the
// graph, so the output is deterministic.
func ToDOT(g *roadgraph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph roadnet {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=12];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	for _, v := range g.Vertices() {
		fmt.Fprintf(&buf, "  %q [%s];\n", v.ID, strings.Join(vertexAttrs(v, opts.Detailed), ", "))
	}

	var dangling []string
	seen := make(map[string]bool)
	buf.WriteString("\n")
	for _, v := range g.Vertices() {
		v.Neighbors.Each(func(id string, e roadgraph.Edge) {
			if _, ok := g.Vertex(id); !ok && !seen[id] {
				seen[id] = true
				dangling = append(dangling, id)
			}
			if opts.Detailed {
				fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", v.ID, id, edgeLabel(e))
			} else {
				fmt.Fprintf(&buf, "  %q -> %q;\n", v.ID, id)
			}
		})
	}

	if len(dangling) > 0 {
		buf.WriteString("\n")
		for _, id := range dangling {
			fmt.Fprintf(&buf, "  %q [style=dashed, fillcolor=lightgrey];\n", id)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func vertexAttrs(v *roadgraph.Vertex, detailed bool) []string {
	label := v.ID
	if detailed && v.Lat != nil && v.Lon != nil {
		label += "\n" + formatFloat(*v.Lat) + ", " + formatFloat(*v.Lon)
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case v.TrafficLight:
		attrs = append(attrs, "shape=doublecircle", "color=red")
	case v.StopSign:
		attrs = append(attrs, "shape=octagon", "color=darkred")
	}
	return attrs
}

func edgeLabel(e roadgraph.Edge) string {
	return formatFloat(e.Distance) + " m\n" + strconv.FormatFloat(e.Speed, 'f', 1, 64) + " km/h"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
