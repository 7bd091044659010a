// Package roadgraph normalizes raw road-network records into an adjacency graph.
//
// # Overview
//
// A road network arrives as two flat record sets: nodes ([RawNode]) carrying
// coordinates and an optional control tag, and directed edges ([RawEdge])
// carrying length, speed-limit and road-class metadata. This package turns
// them into a [Graph] of [Vertex] values keyed by id, each holding an ordered
// neighbor map of [Edge] values with a distance and a resolved speed in km/h.
//
// Construction is two-pass and never fails:
//
//	g := roadgraph.NormalizeNodes(nodes)              // pass 1: vertex set
//	stats := roadgraph.ResolveEdges(g, edges, nil)    // pass 2: neighbors
//
// or in one call:
//
//	g, stats := roadgraph.Build(nodes, edges, nil)
//
// # Control Features
//
// A node whose control tag is "traffic_signals" becomes a vertex with
// TrafficLight set; "stop" sets StopSign. No other tag value is recognized.
//
// # Speed Resolution
//
// [ResolveSpeed] is a total function. It tries, in order:
//
//  1. each candidate of a list-valued speed limit, taking the first one that
//     parses to a non-zero value
//  2. a scalar speed limit, taking its parsed value whenever one exists
//  3. the default speed of the edge's road class from the [Profile]
//  4. the profile's fallback speed (40 km/h for [DefaultProfile])
//
// Textual values containing "mph" (any case) are converted to km/h with
// [MphToKmh]; other text and bare numbers are taken as km/h. Anything that
// does not parse to a finite, non-negative number counts as no value.
//
// A parsed zero inside a candidate list is skipped, and a numeric scalar zero
// is treated as missing, so an explicit zero speed limit usually resolves to
// the road-class default instead.
//
// # Edge Semantics
//
// Edges whose source id is not a vertex are dropped without error; target ids
// are not checked. A repeated (source, target) pair overwrites the earlier
// entry in place: the neighbor keeps its first insertion position and takes
// the last edge's values.
//
// # Concurrency
//
// Building a graph is single-threaded. A finished [Graph] is safe for
// concurrent reads.
package roadgraph
