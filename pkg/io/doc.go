// Package io reads raw road networks and reads and writes normalized road graphs.
//
// # Input Format
//
// The input is an OSMnx node-link document with "nodes" and "links" arrays:
//
//	{
//	  "nodes": [
//	    {"id": 1, "x": 10.0, "y": 20.0, "highway": "traffic_signals"},
//	    {"id": 2, "x": 10.1, "y": 20.1}
//	  ],
//	  "links": [
//	    {"source": 1, "target": 2, "length": 5.0, "maxspeed": "30 mph", "highway": "residential"}
//	  ]
//	}
//
// Node fields map to [roadgraph.RawNode]: id, x (longitude), y (latitude) and
// highway (control tag). When x or y is missing, lon and lat are used
// instead. Link fields map to [roadgraph.RawEdge]: source, target, length,
// maxspeed (a value or a list of values) and highway (road class).
//
// "edges" is accepted in place of "links", and the whole document may be
// wrapped in a "graph" object as some exporters do. Numbers are decoded
// exactly, so an id like 53017091 keeps its literal form.
//
// Use [ImportOSMnx] to read a file or [ReadOSMnx] to read from any io.Reader.
// Errors carry the INVALID_INPUT code and name the offending record.
//
// # Output Format
//
// A built graph is written as a JSON object keyed by vertex id, in the order
// the vertices were created:
//
//	{
//	  "1": {
//	    "id": 1,
//	    "lat": 20,
//	    "lon": 10,
//	    "neighbors": {
//	      "2": {"distance": 5, "speed": 48.2802}
//	    },
//	    "traffic_light": true,
//	    "stop_sign": false
//	  }
//	}
//
// The id is a JSON number when the input id was a number. Missing
// coordinates are written as null. Output is deterministic: the same graph
// always produces the same bytes.
//
// Use [WriteJSON], [ExportJSON] or [MarshalGraph] to write, and [ReadGraph]
// or [ImportGraph] to read the format back. [WriteGob] and [ReadGob] provide
// a compact binary form of the same graph.
package io
