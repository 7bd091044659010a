package io

import (
	"encoding/gob"
	"fmt"
	"io"

	"github.com/matzehuels/roadnet/pkg/errors"
	"github.com/matzehuels/roadnet/pkg/roadgraph"
)

// gobVertex stores coordinates by value with presence flags: gob flattens
// pointers and drops zero values, so a *float64 at 0 would decode as nil.
type gobVertex struct {
	ID           string
	NumericID    bool
	Lat, Lon     float64
	HasLat       bool
	HasLon       bool
	TrafficLight bool
	StopSign     bool
	NeighborIDs  []string
	Edges        []roadgraph.Edge
}

type gobGraph struct {
	Vertices []gobVertex
}

// WriteGob encodes g in encoding/gob form. Vertex and neighbor order are
// kept.
func WriteGob(g *roadgraph.Graph, w io.Writer) error {
	out := gobGraph{Vertices: make([]gobVertex, 0, g.Len())}
	for _, v := range g.Vertices() {
		gv := gobVertex{
			ID:           v.ID,
			NumericID:    v.NumericID,
			TrafficLight: v.TrafficLight,
			StopSign:     v.StopSign,
		}
		if v.Lat != nil {
			gv.Lat, gv.HasLat = *v.Lat, true
		}
		if v.Lon != nil {
			gv.Lon, gv.HasLon = *v.Lon, true
		}
		v.Neighbors.Each(func(id string, e roadgraph.Edge) {
			gv.NeighborIDs = append(gv.NeighborIDs, id)
			gv.Edges = append(gv.Edges, e)
		})
		out.Vertices = append(out.Vertices, gv)
	}
	if err := gob.NewEncoder(w).Encode(out); err != nil {
		return fmt.Errorf("encode gob: %w", err)
	}
	return nil
}

// ReadGob decodes a graph written by [WriteGob].
func ReadGob(r io.Reader) (*roadgraph.Graph, error) {
	var in gobGraph
	if err := gob.NewDecoder(r).Decode(&in); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode gob")
	}

	g := roadgraph.NewGraph()
	for _, gv := range in.Vertices {
		if len(gv.NeighborIDs) != len(gv.Edges) {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "vertex %s: %d neighbor ids for %d edges", gv.ID, len(gv.NeighborIDs), len(gv.Edges))
		}
		vtx := roadgraph.Vertex{
			ID:           gv.ID,
			NumericID:    gv.NumericID,
			TrafficLight: gv.TrafficLight,
			StopSign:     gv.StopSign,
		}
		if gv.HasLat {
			lat := gv.Lat
			vtx.Lat = &lat
		}
		if gv.HasLon {
			lon := gv.Lon
			vtx.Lon = &lon
		}
		v := g.AddVertex(vtx)
		for i, id := range gv.NeighborIDs {
			v.Neighbors.Set(id, gv.Edges[i])
		}
	}
	return g, nil
}
