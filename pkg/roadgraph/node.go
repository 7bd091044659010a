package roadgraph

// NormalizeNodes builds the vertex set from raw node records.
//
// Each record becomes a vertex with an empty neighbor map. Coordinates pass
// through untouched, including nil. A repeated id replaces the earlier
// vertex but keeps its position.
func NormalizeNodes(nodes []RawNode) *Graph {
	g := NewGraph()
	for _, n := range nodes {
		g.AddVertex(NormalizeNode(n))
	}
	return g
}

// NormalizeNode converts a single record into a vertex without neighbors.
func NormalizeNode(n RawNode) Vertex {
	return Vertex{
		ID:           n.ID,
		NumericID:    n.NumericID,
		Lat:          n.Lat,
		Lon:          n.Lon,
		TrafficLight: n.ControlTag == TagTrafficSignals,
		StopSign:     n.ControlTag == TagStop,
		Neighbors:    newNeighbors(),
	}
}
