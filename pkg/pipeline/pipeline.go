// Package pipeline runs the load → build → export pipeline shared by the CLI
// and the HTTP server.
//
// # Stages
//
//  1. Load: decode an OSMnx node-link document into raw nodes and edges
//  2. Build: normalize nodes and resolve edges into a road graph
//  3. Export: encode the graph as keyed JSON or gob
//
// Each stage reports to the registered observability hooks. [Runner.Execute]
// runs all three and caches the exported bytes under a key derived from the
// input hash, the speed profile and the output format, so rebuilding an
// unchanged network is a cache read.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:   "network.json",
//	    Format: pipeline.FormatJSON,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.Stdout.Write(result.Output)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/roadnet/pkg/cache"
	"github.com/matzehuels/roadnet/pkg/errors"
	"github.com/matzehuels/roadnet/pkg/roadgraph"
)

// Format constants for exported graphs.
const (
	FormatJSON = "json"
	FormatGob  = "gob"
)

// Format constants for rendered views.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// DefaultFormat is the export format when none is given.
const DefaultFormat = FormatJSON

// ValidFormats is the set of supported export formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatGob:  true,
}

// ValidRenderFormats is the set of supported render formats.
var ValidRenderFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures one pipeline run.
type Options struct {
	// Path is the input file. Ignored when Input is set.
	Path string `json:"path,omitempty"`
	// Input is the raw input document.
	Input []byte `json:"-"`
	// Source labels the input in logs and hooks. Defaults to Path.
	Source string `json:"source,omitempty"`

	// Profile supplies road-class defaults. Nil means the built-in table.
	Profile *roadgraph.SpeedTable `json:"-"`

	Format  string `json:"format,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the built road graph.
	Graph *roadgraph.Graph

	// Output is the exported graph in the requested format.
	Output []byte

	// InputHash is the content hash of the input document.
	InputHash string

	// GraphHash is the content hash of Output.
	GraphHash string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics. Build holds only vertex
// and edge counts when the graph came from the cache.
type Stats struct {
	Build      roadgraph.Stats
	LoadTime   time.Duration
	BuildTime  time.Duration
	ExportTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	GraphHit bool // Whether the exported graph came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that an export format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeUnsupported, "invalid format: %q (must be one of: json, gob)", format)
	}
	return nil
}

// ValidateRenderFormat checks that a render format is valid.
func ValidateRenderFormat(format string) error {
	if !ValidRenderFormats[format] {
		return errors.New(errors.ErrCodeUnsupported, "invalid render format: %q (must be one of: dot, svg)", format)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// Calling it more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == nil {
		if o.Path == "" {
			return errors.New(errors.ErrCodeInvalidInput, "input path or document is required")
		}
		if err := errors.ValidatePath(o.Path); err != nil {
			return err
		}
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if err := ValidateFormat(o.Format); err != nil {
		return err
	}
	if o.Source == "" {
		o.Source = o.Path
	}
	if o.Source == "" {
		o.Source = "input"
	}
	if o.Profile == nil {
		o.Profile = roadgraph.DefaultProfile()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// GraphKeyOpts returns cache key options for the exported graph.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	fp := ""
	if o.Profile != nil {
		fp = o.Profile.Fingerprint()
	}
	return cache.GraphKeyOpts{
		Profile: fp,
		Format:  o.Format,
	}
}
