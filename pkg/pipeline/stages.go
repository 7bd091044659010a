package pipeline

import (
	"bytes"
	"context"
	"os"
	"time"

	"github.com/matzehuels/roadnet/pkg/errors"
	"github.com/matzehuels/roadnet/pkg/io"
	"github.com/matzehuels/roadnet/pkg/observability"
	"github.com/matzehuels/roadnet/pkg/roadgraph"
)

// ReadInput returns the raw document for opts, reading Path when Input is
// unset.
func ReadInput(opts Options) ([]byte, error) {
	if opts.Input != nil {
		return opts.Input, nil
	}
	data, err := os.ReadFile(opts.Path)
	if err != nil {
		return nil, errors.File(err, "read %s", opts.Path)
	}
	return data, nil
}

// Load decodes an OSMnx document.
func Load(ctx context.Context, source string, data []byte) (*io.Network, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, source)
	start := time.Now()

	net, err := io.ReadOSMnx(bytes.NewReader(data))
	if err != nil {
		hooks.OnLoadComplete(ctx, source, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnLoadComplete(ctx, source, len(net.Nodes), len(net.Edges), time.Since(start), nil)
	return net, nil
}

// Build runs both construction passes over net.
func Build(ctx context.Context, net *io.Network, p roadgraph.Profile) (*roadgraph.Graph, roadgraph.Stats) {
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, len(net.Nodes), len(net.Edges))
	start := time.Now()

	g, stats := roadgraph.Build(net.Nodes, net.Edges, p)
	hooks.OnBuildComplete(ctx, stats.Vertices, stats.Edges, stats.EdgesDropped, time.Since(start))
	return g, stats
}

// Export encodes g in format.
func Export(ctx context.Context, g *roadgraph.Graph, format string) ([]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnExportStart(ctx, format)
	start := time.Now()

	var buf bytes.Buffer
	var err error
	switch format {
	case FormatJSON:
		err = io.WriteJSON(g, &buf)
	case FormatGob:
		err = io.WriteGob(g, &buf)
	default:
		err = ValidateFormat(format)
	}
	hooks.OnExportComplete(ctx, format, buf.Len(), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads back bytes produced by Export.
func Decode(data []byte, format string) (*roadgraph.Graph, error) {
	switch format {
	case FormatJSON:
		return io.ReadGraph(bytes.NewReader(data))
	case FormatGob:
		return io.ReadGob(bytes.NewReader(data))
	}
	return nil, ValidateFormat(format)
}
