package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/roadnet/pkg/errors"
	pkgio "github.com/matzehuels/roadnet/pkg/io"
	"github.com/matzehuels/roadnet/pkg/pipeline"
	"github.com/matzehuels/roadnet/pkg/roadgraph"
)

// graphSource describes how loadGraph obtained a graph.
type graphSource struct {
	built  bool // path held an OSMnx network that was built on the fly
	cached bool // the build was served from cache
}

// loadGraph reads path as a graph written by build. Files ending in .gob
// are read as gob; anything that is not a keyed graph is treated as an
// OSMnx network and built with profilePath.
func (c *CLI) loadGraph(ctx context.Context, runner *pipeline.Runner, path, profilePath string) (*roadgraph.Graph, graphSource, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, graphSource{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, graphSource{}, errors.File(err, "read %s", path)
	}

	if strings.EqualFold(filepath.Ext(path), ".gob") {
		g, err := pkgio.ReadGob(bytes.NewReader(data))
		return g, graphSource{}, err
	}

	g, graphErr := pkgio.ReadGraph(bytes.NewReader(data))
	if graphErr == nil {
		return g, graphSource{}, nil
	}
	c.Logger.Debug("not a keyed graph, building as network", "path", path, "reason", graphErr)

	p, err := loadProfile(profilePath)
	if err != nil {
		return nil, graphSource{}, err
	}
	result, err := runner.Execute(ctx, pipeline.Options{
		Input:   data,
		Source:  filepath.Base(path),
		Profile: p,
		Logger:  c.Logger,
	})
	if err != nil {
		return nil, graphSource{}, fmt.Errorf("%s is neither a graph nor a network: %w", path, err)
	}
	return result.Graph, graphSource{built: true, cached: result.CacheInfo.GraphHit}, nil
}
