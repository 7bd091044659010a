package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/roadnet/pkg/pipeline"
)

// buildOpts holds the flags of the build command.
type buildOpts struct {
	output  string
	profile string
	format  string
	noCache bool
	refresh bool
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOpts{format: pipeline.DefaultFormat}

	cmd := &cobra.Command{
		Use:   "build [input.json]",
		Short: "Normalize an OSMnx network into a routable graph",
		Long: `Normalize an OSMnx road network into a routable graph.

The input is networkx node-link JSON as written by OSMnx: a "nodes" array and
a "links" (or "edges") array. The output is a JSON object keyed by node id.
Each vertex carries its coordinates, traffic signal and stop sign flags, and
its outgoing edges with distance and speed in km/h.

Edge speeds come from the maxspeed tag when it parses ("50", "30 mph",
["bad", "50"]), otherwise from the road class table, otherwise from the
global default. Override the table with --profile.

Without -o the graph is written to stdout. Results are cached locally; pass
--refresh to rebuild or --no-cache to bypass the cache.`,
		Example: `  roadnet build network.json -o graph.json
  roadnet build network.json --profile rural.toml --format gob -o graph.gob
  roadnet build network.json | jq 'keys | length'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			return c.runBuild(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&opts.profile, "profile", "", "speed profile (TOML or YAML) overriding the built-in road class speeds")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: json, gob")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "rebuild even if a cached graph exists")

	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{pipeline.FormatJSON, pipeline.FormatGob}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

// runBuild executes the pipeline and writes the exported graph.
func (c *CLI) runBuild(ctx context.Context, stdout io.Writer, input string, opts buildOpts) error {
	p, err := loadProfile(opts.profile)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinner(ctx, os.Stderr, "Building graph...")
	spinner.Start()

	result, err := runner.Execute(ctx, pipeline.Options{
		Path:    input,
		Source:  filepath.Base(input),
		Profile: p,
		Format:  opts.format,
		Refresh: opts.refresh,
		Logger:  c.Logger,
	})
	if err != nil {
		spinner.StopWithError("Build failed")
		return fmt.Errorf("build %s: %w", input, err)
	}
	spinner.Stop()

	stats := result.Stats.Build
	prog.done(fmt.Sprintf("Built %d vertices", stats.Vertices))

	if opts.output == "" {
		_, err := stdout.Write(result.Output)
		return err
	}

	if err := os.WriteFile(opts.output, result.Output, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}

	printSuccess("Graph built")
	printStats(stats.Vertices, stats.Edges, result.CacheInfo.GraphHit)
	if !result.CacheInfo.GraphHit {
		printDetail("speeds: %d tagged · %d class default · %d fallback",
			stats.TaggedSpeeds, stats.ClassDefaults, stats.Fallbacks)
		if stats.EdgesDropped > 0 {
			printWarning("Dropped %d edges with an unknown source node", stats.EdgesDropped)
		}
	}
	printFile(opts.output)

	if opts.format == pipeline.FormatJSON {
		printNextStep("Render it", "roadnet render "+quoteArg(opts.output))
	}
	return nil
}

// quoteArg quotes s for display in a suggested shell command.
func quoteArg(s string) string {
	if strings.ContainsAny(s, " \t'\"") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
