package io

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/roadnet/pkg/errors"
	"github.com/matzehuels/roadnet/pkg/roadgraph"
)

const sampleNetwork = `{
	"directed": true,
	"graph": {"crs": "epsg:4326"},
	"nodes": [
		{"id": 53017091, "x": -122.4194, "y": 37.7749, "highway": "traffic_signals"},
		{"id": "b", "y": 37.7, "x": -122.4, "highway": "stop"},
		{"id": 3, "highway": ["stop", "crossing"]},
		{"id": 4, "lon": 1.5, "lat": 2.5}
	],
	"links": [
		{"source": 53017091, "target": "b", "length": 12.5, "maxspeed": "25 mph", "highway": "residential"},
		{"source": "b", "target": 3, "maxspeed": ["bad", "50"], "highway": ["primary", "secondary"]},
		{"source": 3, "target": 4, "maxspeed": 30},
		{"source": 4, "target": 3, "maxspeed": null, "length": "long"}
	]
}`

func TestReadOSMnx(t *testing.T) {
	net, err := ReadOSMnx(strings.NewReader(sampleNetwork))
	if err != nil {
		t.Fatalf("ReadOSMnx() error: %v", err)
	}

	if len(net.Nodes) != 4 || len(net.Edges) != 4 {
		t.Fatalf("got %d nodes, %d edges", len(net.Nodes), len(net.Edges))
	}

	n0 := net.Nodes[0]
	if n0.ID != "53017091" || !n0.NumericID {
		t.Errorf("node 0 id = %q numeric=%v", n0.ID, n0.NumericID)
	}
	if n0.Lat == nil || *n0.Lat != 37.7749 || n0.Lon == nil || *n0.Lon != -122.4194 {
		t.Errorf("node 0 coordinates = %v, %v", n0.Lat, n0.Lon)
	}
	if n0.ControlTag != "traffic_signals" {
		t.Errorf("node 0 tag = %q", n0.ControlTag)
	}

	if n1 := net.Nodes[1]; n1.ID != "b" || n1.NumericID || n1.ControlTag != "stop" {
		t.Errorf("node 1 = %+v", n1)
	}
	if n2 := net.Nodes[2]; n2.ControlTag != "" || n2.Lat != nil || n2.Lon != nil {
		t.Errorf("node 2 = %+v, want no tag and no coordinates", n2)
	}
	if n3 := net.Nodes[3]; n3.Lat == nil || *n3.Lat != 2.5 || *n3.Lon != 1.5 {
		t.Errorf("node 3 should fall back to lat/lon: %+v", n3)
	}

	e0 := net.Edges[0]
	if e0.SourceID != "53017091" || e0.TargetID != "b" || *e0.Length != 12.5 {
		t.Errorf("edge 0 = %+v", e0)
	}
	if e0.RoadClass == nil || *e0.RoadClass != "residential" {
		t.Errorf("edge 0 class = %v", e0.RoadClass)
	}
	if e0.SpeedLimit.IsList() || e0.SpeedLimit.Values()[0] != "25 mph" {
		t.Errorf("edge 0 speed = %+v", e0.SpeedLimit)
	}

	e1 := net.Edges[1]
	if !e1.SpeedLimit.IsList() || len(e1.SpeedLimit.Values()) != 2 {
		t.Errorf("edge 1 speed = %+v", e1.SpeedLimit)
	}
	if e1.RoadClass != nil {
		t.Error("list-valued highway should not be a road class")
	}
	if e1.Length != nil {
		t.Error("missing length should be nil")
	}

	if got := roadgraph.ResolveSpeed(net.Edges[2], nil); got != 30 {
		t.Errorf("edge 2 speed = %v, want 30", got)
	}

	e3 := net.Edges[3]
	if e3.SpeedLimit.IsSet() || e3.Length != nil {
		t.Errorf("edge 3 = %+v, want no speed and no length", e3)
	}
}

func TestReadOSMnxVariants(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantNodes int
		wantEdges int
	}{
		{
			name:      "edges key",
			doc:       `{"nodes": [{"id": 1}], "edges": [{"source": 1, "target": 2}]}`,
			wantNodes: 1,
			wantEdges: 1,
		},
		{
			name:      "wrapped",
			doc:       `{"metadata": {}, "graph": {"nodes": [{"id": 1}, {"id": 2}], "links": [{"source": 1, "target": 2}]}}`,
			wantNodes: 2,
			wantEdges: 1,
		},
		{
			name:      "no links",
			doc:       `{"nodes": []}`,
			wantNodes: 0,
			wantEdges: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net, err := ReadOSMnx(strings.NewReader(tt.doc))
			if err != nil {
				t.Fatalf("ReadOSMnx() error: %v", err)
			}
			if len(net.Nodes) != tt.wantNodes || len(net.Edges) != tt.wantEdges {
				t.Errorf("got %d nodes, %d edges, want %d, %d", len(net.Nodes), len(net.Edges), tt.wantNodes, tt.wantEdges)
			}
		})
	}
}

func TestReadOSMnxErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"malformed", `{"nodes": [`, "decode network"},
		{"no nodes", `{"links": []}`, "no \"nodes\""},
		{"node without id", `{"nodes": [{"x": 1}]}`, "node 0"},
		{"null id", `{"nodes": [{"id": 1}, {"id": null}]}`, "node 1"},
		{"object id", `{"nodes": [{"id": {"a": 1}}]}`, "must be a number or string"},
		{"link without target", `{"nodes": [], "links": [{"source": 1}]}`, "link 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadOSMnx(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("ReadOSMnx() should fail")
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should contain %q", err, tt.want)
			}
		})
	}
}

func TestImportOSMnx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "net.json")
	if err := os.WriteFile(path, []byte(sampleNetwork), 0644); err != nil {
		t.Fatal(err)
	}

	net, err := ImportOSMnx(path)
	if err != nil {
		t.Fatalf("ImportOSMnx() error: %v", err)
	}
	if len(net.Nodes) != 4 {
		t.Errorf("got %d nodes, want 4", len(net.Nodes))
	}

	_, err = ImportOSMnx(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
}
