package roadgraph

// Control tag values recognized on nodes.
const (
	TagTrafficSignals = "traffic_signals"
	TagStop           = "stop"
)

// DefaultDistance is used for edges that carry no length.
const DefaultDistance = 1.0

// RawNode is a node record as supplied by a loader.
type RawNode struct {
	ID         string   // stable identifier in string form
	NumericID  bool     // the source id was a number rather than a string
	Lat        *float64 // nil when the source record has no latitude
	Lon        *float64 // nil when the source record has no longitude
	ControlTag string   // empty when absent
}

// RawEdge is a directed edge record as supplied by a loader.
type RawEdge struct {
	SourceID   string
	TargetID   string
	Length     *float64 // nil means DefaultDistance
	SpeedLimit SpeedValue
	RoadClass  *string // nil when absent or not textual
}

// SpeedValue is the raw speed-limit field of an edge: absent, a single
// value, or a list of candidates. Values may be numbers, strings, or
// anything else a loader passed through; only numbers and strings can
// ever resolve.
type SpeedValue struct {
	values []any
	list   bool
	set    bool
}

// NoSpeed returns an absent speed limit.
func NoSpeed() SpeedValue { return SpeedValue{} }

// ScalarSpeed returns a single-valued speed limit. A nil v is absent.
func ScalarSpeed(v any) SpeedValue {
	if v == nil {
		return SpeedValue{}
	}
	return SpeedValue{values: []any{v}, set: true}
}

// ListSpeed returns a list-valued speed limit. An empty list is kept as a
// list so that it takes the list branch of resolution.
func ListSpeed(vs ...any) SpeedValue {
	return SpeedValue{values: append([]any(nil), vs...), list: true, set: true}
}

// IsList reports whether the speed limit is list-valued.
func (s SpeedValue) IsList() bool { return s.list }

// IsSet reports whether a speed limit was supplied at all.
func (s SpeedValue) IsSet() bool { return s.set }

// Values returns the raw candidate values.
func (s SpeedValue) Values() []any { return s.values }

// Edge is a directed connection stored in a vertex's neighbor map.
type Edge struct {
	Distance float64
	Speed    float64 // km/h
}

// Vertex is a normalized graph node.
type Vertex struct {
	ID           string
	NumericID    bool
	Lat          *float64
	Lon          *float64
	TrafficLight bool
	StopSign     bool
	Neighbors    *Neighbors
}

// Neighbors is an insertion-ordered map from neighbor id to Edge.
type Neighbors struct {
	keys  []string
	edges map[string]Edge
}

func newNeighbors() *Neighbors {
	return &Neighbors{edges: make(map[string]Edge)}
}

// Set stores e under id. An existing entry is overwritten in place and
// keeps its position; Set reports whether that happened.
func (n *Neighbors) Set(id string, e Edge) (replaced bool) {
	if _, ok := n.edges[id]; ok {
		n.edges[id] = e
		return true
	}
	n.keys = append(n.keys, id)
	n.edges[id] = e
	return false
}

// Get returns the edge stored under id.
func (n *Neighbors) Get(id string) (Edge, bool) {
	e, ok := n.edges[id]
	return e, ok
}

// Len returns the number of neighbors.
func (n *Neighbors) Len() int { return len(n.keys) }

// Keys returns neighbor ids in insertion order.
func (n *Neighbors) Keys() []string { return append([]string(nil), n.keys...) }

// Each calls fn for every neighbor in insertion order.
func (n *Neighbors) Each(fn func(id string, e Edge)) {
	for _, k := range n.keys {
		fn(k, n.edges[k])
	}
}

// Graph is an insertion-ordered set of vertices keyed by id.
type Graph struct {
	order    []string
	vertices map[string]*Vertex
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{vertices: make(map[string]*Vertex)}
}

// Vertex returns the vertex with the given id.
func (g *Graph) Vertex(id string) (*Vertex, bool) {
	v, ok := g.vertices[id]
	return v, ok
}

// Vertices returns all vertices in insertion order.
func (g *Graph) Vertices() []*Vertex {
	out := make([]*Vertex, len(g.order))
	for i, id := range g.order {
		out[i] = g.vertices[id]
	}
	return out
}

// Len returns the number of vertices.
func (g *Graph) Len() int { return len(g.order) }

// EdgeCount returns the total number of neighbor entries.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, v := range g.vertices {
		n += v.Neighbors.Len()
	}
	return n
}

// put inserts or replaces v, keeping the position of an existing id.
func (g *Graph) put(v *Vertex) {
	if _, ok := g.vertices[v.ID]; !ok {
		g.order = append(g.order, v.ID)
	}
	g.vertices[v.ID] = v
}

// AddVertex inserts v with an empty neighbor map if it has none.
// A vertex with the same id is replaced in place.
func (g *Graph) AddVertex(v Vertex) *Vertex {
	if v.Neighbors == nil {
		v.Neighbors = newNeighbors()
	}
	g.put(&v)
	return &v
}
