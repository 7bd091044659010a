package roadgraph

// Stats counts what happened while building a graph.
type Stats struct {
	Vertices      int // vertices in the finished graph
	Edges         int // neighbor entries in the finished graph
	EdgesDropped  int // edges whose source is not a vertex
	EdgesReplaced int // edges that overwrote an earlier (source, target) entry

	TaggedSpeeds  int // speeds taken from the edge's own speed limit
	ClassDefaults int // speeds taken from the road-class table
	Fallbacks     int // speeds taken from the global fallback
}

// ResolveEdges attaches each edge to its source vertex in g.
//
// Edges with an unknown source are skipped. Distance is the edge length or
// DefaultDistance; speed comes from ExplainSpeed with profile p (nil means
// DefaultProfile). Later edges overwrite earlier ones with the same source
// and target.
func ResolveEdges(g *Graph, edges []RawEdge, p Profile) Stats {
	if p == nil {
		p = DefaultProfile()
	}

	var st Stats
	for _, e := range edges {
		src, ok := g.Vertex(e.SourceID)
		if !ok {
			st.EdgesDropped++
			continue
		}

		dist := DefaultDistance
		if e.Length != nil {
			dist = *e.Length
		}

		res := ExplainSpeed(e, p)
		switch res.Source {
		case SourceTagged:
			st.TaggedSpeeds++
		case SourceClassDefault:
			st.ClassDefaults++
		default:
			st.Fallbacks++
		}

		if src.Neighbors.Set(e.TargetID, Edge{Distance: dist, Speed: res.Speed}) {
			st.EdgesReplaced++
		}
	}

	st.Vertices = g.Len()
	st.Edges = g.EdgeCount()
	return st
}

// Build runs both construction passes: vertices from nodes, then neighbors
// from edges.
func Build(nodes []RawNode, edges []RawEdge, p Profile) (*Graph, Stats) {
	g := NormalizeNodes(nodes)
	return g, ResolveEdges(g, edges, p)
}
