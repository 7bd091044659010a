package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/roadnet/pkg/errors"
	"github.com/matzehuels/roadnet/pkg/roadgraph"
)

type edgeRecord struct {
	Distance float64 `json:"distance"`
	Speed    float64 `json:"speed"`
}

type vertexRecord struct {
	ID           any             `json:"id"`
	Lat          *float64        `json:"lat"`
	Lon          *float64        `json:"lon"`
	Neighbors    neighborsRecord `json:"neighbors"`
	TrafficLight bool            `json:"traffic_light"`
	StopSign     bool            `json:"stop_sign"`
}

// neighborsRecord is a JSON object whose key order is preserved in both
// directions.
type neighborsRecord struct {
	keys  []string
	edges map[string]edgeRecord
}

func (n neighborsRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range n.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, k, n.edges[k]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (n *neighborsRecord) UnmarshalJSON(data []byte) error {
	n.keys = nil
	n.edges = make(map[string]edgeRecord)
	return decodeObject(json.NewDecoder(bytes.NewReader(data)), func(dec *json.Decoder, key string) error {
		var e edgeRecord
		if err := dec.Decode(&e); err != nil {
			return fmt.Errorf("neighbor %s: %w", key, err)
		}
		if _, ok := n.edges[key]; !ok {
			n.keys = append(n.keys, key)
		}
		n.edges[key] = e
		return nil
	})
}

// graphRecord writes a graph as an ordered JSON object.
type graphRecord struct{ g *roadgraph.Graph }

func (r graphRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, v := range r.g.Vertices() {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, v.ID, toRecord(v)); err != nil {
			return nil, fmt.Errorf("vertex %s: %w", v.ID, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func toRecord(v *roadgraph.Vertex) vertexRecord {
	rec := vertexRecord{
		ID:           v.ID,
		Lat:          v.Lat,
		Lon:          v.Lon,
		TrafficLight: v.TrafficLight,
		StopSign:     v.StopSign,
		Neighbors:    neighborsRecord{edges: make(map[string]edgeRecord, v.Neighbors.Len())},
	}
	if v.NumericID {
		rec.ID = json.Number(v.ID)
	}
	v.Neighbors.Each(func(id string, e roadgraph.Edge) {
		rec.Neighbors.keys = append(rec.Neighbors.keys, id)
		rec.Neighbors.edges[id] = edgeRecord{Distance: e.Distance, Speed: e.Speed}
	})
	return rec
}

func writeMember(buf *bytes.Buffer, key string, value any) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	val, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(val)
	return nil
}

// WriteJSON encodes g as a JSON object keyed by vertex id and writes it to w.
// The output can be read back with [ReadGraph].
func WriteJSON(g *roadgraph.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(graphRecord{g}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalGraph returns the output of [WriteJSON] as bytes.
func MarshalGraph(g *roadgraph.Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportJSON writes g to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(g *roadgraph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}

// ReadGraph decodes a graph written by [WriteJSON], keeping vertex and
// neighbor order. ReadGraph does not close r.
func ReadGraph(r io.Reader) (*roadgraph.Graph, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	g := roadgraph.NewGraph()
	err := decodeObject(dec, func(dec *json.Decoder, key string) error {
		var rec vertexRecord
		if err := dec.Decode(&rec); err != nil {
			return fmt.Errorf("vertex %s: %w", key, err)
		}
		_, numeric := rec.ID.(json.Number)
		v := g.AddVertex(roadgraph.Vertex{
			ID:           key,
			NumericID:    numeric,
			Lat:          rec.Lat,
			Lon:          rec.Lon,
			TrafficLight: rec.TrafficLight,
			StopSign:     rec.StopSign,
		})
		for _, id := range rec.Neighbors.keys {
			e := rec.Neighbors.edges[id]
			v.Neighbors.Set(id, roadgraph.Edge{Distance: e.Distance, Speed: e.Speed})
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode graph")
	}
	return g, nil
}

// ImportGraph reads a graph file written by [ExportJSON].
func ImportGraph(path string) (*roadgraph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.File(err, "open %s", path)
	}
	defer f.Close()
	return ReadGraph(f)
}

// decodeObject walks a JSON object member by member, calling fn with the
// decoder positioned at each value.
func decodeObject(dec *json.Decoder, fn func(dec *json.Decoder, key string) error) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected key, got %v", tok)
		}
		if err := fn(dec, key); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}
