// Package pkg provides the libraries behind roadnet, which turns OSMnx road
// networks into routable graphs.
//
// # Overview
//
// A road network exported by OSMnx is networkx node-link JSON: a list of
// nodes with coordinates and an optional highway tag, and a list of directed
// links with a length, a maxspeed tag and a road class. roadnet normalizes
// it into a graph keyed by node id in which every vertex knows whether it
// has traffic signals or a stop sign, and every edge carries a distance and
// a travel speed in km/h.
//
// # Architecture
//
// The data flow through roadnet:
//
//	OSMnx node-link JSON
//	         ↓
//	    [io] package (decode nodes and links)
//	         ↓
//	    [roadgraph] package (normalize nodes, resolve edges and speeds)
//	         ↓
//	    [io] package (keyed JSON or gob)  or  [render] package (DOT / SVG)
//
// [pipeline] runs these stages with caching and is shared by the CLI and
// the HTTP server in [api].
//
// # Quick Start
//
//	net, _ := io.ImportOSMnx("network.json")
//	g, stats := roadgraph.Build(net.Nodes, net.Edges, nil)
//	_ = io.ExportJSON(g, "graph.json")
//	fmt.Println(stats.Vertices, stats.Edges, stats.EdgesDropped)
//
// # Main Packages
//
// [roadgraph] - Graph types, the node normalizer, the edge resolver and the
// speed fallback chain (maxspeed tag, road class default, global default).
//
// [profile] - TOML speed profiles overriding the built-in road class table.
//
// [io] - OSMnx input, keyed JSON output and its reader, gob export.
//
// [render] - Graphviz DOT generation and SVG rendering.
//
// [pipeline] - load → build → export with caching, plus cached rendering.
//
// [cache] - Cache interface with file, redis and no-op backends.
//
// [api] - chi HTTP server exposing the pipeline.
//
// [observability] - Hook registry and prometheus metrics.
//
// [errors] - Coded errors shared by the CLI and the API.
//
// [buildinfo] - Version information injected at build time.
//
// # Testing
//
//	go test ./...                                # all tests
//	go test -run Example ./pkg/...               # examples only
//	ROADNET_TEST_REDIS=redis://localhost:6379/15 go test ./pkg/cache
//
// [roadgraph]: https://pkg.go.dev/github.com/matzehuels/roadnet/pkg/roadgraph
// [profile]: https://pkg.go.dev/github.com/matzehuels/roadnet/pkg/profile
// [io]: https://pkg.go.dev/github.com/matzehuels/roadnet/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/roadnet/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/roadnet/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/roadnet/pkg/cache
// [api]: https://pkg.go.dev/github.com/matzehuels/roadnet/pkg/api
// [observability]: https://pkg.go.dev/github.com/matzehuels/roadnet/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/roadnet/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/roadnet/pkg/buildinfo
package pkg
