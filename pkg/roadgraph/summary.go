package roadgraph

// Summary describes a finished graph.
type Summary struct {
	Vertices       int
	Edges          int
	TrafficLights  int
	StopSigns      int
	NoCoordinates  int // vertices missing lat or lon
	DeadEnds       int // vertices without outgoing edges
	DanglingEdges  int // edges whose target is not a vertex
	MinSpeed       float64
	MaxSpeed       float64
	MeanSpeed      float64
	TotalDistance  float64
	MaxOutDegree   int
	MaxOutDegreeID string
}

// Summarize walks g once and returns its Summary. Speed figures are zero
// for a graph without edges.
func Summarize(g *Graph) Summary {
	var s Summary
	var speedSum float64
	for _, v := range g.Vertices() {
		s.Vertices++
		if v.TrafficLight {
			s.TrafficLights++
		}
		if v.StopSign {
			s.StopSigns++
		}
		if v.Lat == nil || v.Lon == nil {
			s.NoCoordinates++
		}

		deg := v.Neighbors.Len()
		if deg == 0 {
			s.DeadEnds++
		}
		if deg > s.MaxOutDegree {
			s.MaxOutDegree, s.MaxOutDegreeID = deg, v.ID
		}

		v.Neighbors.Each(func(id string, e Edge) {
			if s.Edges == 0 || e.Speed < s.MinSpeed {
				s.MinSpeed = e.Speed
			}
			if s.Edges == 0 || e.Speed > s.MaxSpeed {
				s.MaxSpeed = e.Speed
			}
			s.Edges++
			speedSum += e.Speed
			s.TotalDistance += e.Distance
			if _, ok := g.Vertex(id); !ok {
				s.DanglingEdges++
			}
		})
	}
	if s.Edges > 0 {
		s.MeanSpeed = speedSum / float64(s.Edges)
	}
	return s
}
