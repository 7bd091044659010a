package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/roadnet/pkg/errors"
	"github.com/matzehuels/roadnet/pkg/roadgraph"
)

// Network is a raw road network ready to be built into a graph.
type Network struct {
	Nodes []roadgraph.RawNode
	Edges []roadgraph.RawEdge
}

type record map[string]any

type document struct {
	Nodes []record `json:"nodes"`
	Links []record `json:"links"`
	Edges []record `json:"edges"`
	Graph *struct {
		Nodes []record `json:"nodes"`
		Links []record `json:"links"`
		Edges []record `json:"edges"`
	} `json:"graph"`
}

// ReadOSMnx decodes an OSMnx node-link document from r.
//
// ReadOSMnx returns an error if the JSON is malformed, if the document has
// no "nodes" array, or if a node has no id or a link has no source or
// target. Every other irregularity (missing coordinates, unparseable speed
// limits, non-textual tags) is passed through for the graph builder to
// resolve. ReadOSMnx does not close r.
func ReadOSMnx(r io.Reader) (*Network, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode network")
	}

	nodes, links, edges := doc.Nodes, doc.Links, doc.Edges
	if nodes == nil && doc.Graph != nil {
		nodes, links, edges = doc.Graph.Nodes, doc.Graph.Links, doc.Graph.Edges
	}
	if nodes == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "network has no \"nodes\" array")
	}
	if links == nil {
		links = edges
	}

	net := &Network{
		Nodes: make([]roadgraph.RawNode, 0, len(nodes)),
		Edges: make([]roadgraph.RawEdge, 0, len(links)),
	}
	for i, n := range nodes {
		rn, err := rawNode(n)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "node %d", i)
		}
		net.Nodes = append(net.Nodes, rn)
	}
	for i, l := range links {
		re, err := rawEdge(l)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "link %d", i)
		}
		net.Edges = append(net.Edges, re)
	}
	return net, nil
}

// ImportOSMnx reads an OSMnx node-link file at path.
func ImportOSMnx(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.File(err, "open %s", path)
	}
	defer f.Close()
	return ReadOSMnx(f)
}

func rawNode(n record) (roadgraph.RawNode, error) {
	id, numeric, err := identifier(n, "id")
	if err != nil {
		return roadgraph.RawNode{}, err
	}
	rn := roadgraph.RawNode{
		ID:        id,
		NumericID: numeric,
		Lat:       coordinate(n, "y", "lat"),
		Lon:       coordinate(n, "x", "lon"),
	}
	if tag, ok := n["highway"].(string); ok {
		rn.ControlTag = tag
	}
	return rn, nil
}

func rawEdge(l record) (roadgraph.RawEdge, error) {
	src, _, err := identifier(l, "source")
	if err != nil {
		return roadgraph.RawEdge{}, err
	}
	dst, _, err := identifier(l, "target")
	if err != nil {
		return roadgraph.RawEdge{}, err
	}

	re := roadgraph.RawEdge{
		SourceID:   src,
		TargetID:   dst,
		Length:     number(l["length"]),
		SpeedLimit: speedValue(l["maxspeed"]),
	}
	if class, ok := l["highway"].(string); ok {
		re.RoadClass = &class
	}
	return re, nil
}

// identifier returns the string form of an id field and whether it was a
// JSON number.
func identifier(r record, key string) (string, bool, error) {
	switch v := r[key].(type) {
	case json.Number:
		return v.String(), true, nil
	case string:
		return v, false, nil
	case bool:
		return strconv.FormatBool(v), false, nil
	case nil:
		return "", false, fmt.Errorf("missing %q", key)
	default:
		return "", false, fmt.Errorf("%q must be a number or string, got %T", key, v)
	}
}

func coordinate(r record, keys ...string) *float64 {
	for _, k := range keys {
		if f := number(r[k]); f != nil {
			return f
		}
	}
	return nil
}

func number(v any) *float64 {
	n, ok := v.(json.Number)
	if !ok {
		return nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil
	}
	return &f
}

func speedValue(v any) roadgraph.SpeedValue {
	switch x := v.(type) {
	case nil:
		return roadgraph.NoSpeed()
	case []any:
		return roadgraph.ListSpeed(x...)
	default:
		return roadgraph.ScalarSpeed(x)
	}
}
