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

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file path, stdout if empty
	format   string // "dot" or "svg"
	detailed bool   // label edges with distance and speed, vertices with coordinates
	profile  string // speed profile used when the input is a network
	noCache  bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: pipeline.FormatSVG}

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Draw a graph as Graphviz DOT or SVG",
		Long: `Draw a graph as Graphviz DOT source or as SVG.

Vertices with traffic signals are drawn as red double circles and stop signs
as dark red octagons. Edge targets that are not vertices are drawn dashed.
With --detailed, edges are labeled with distance and speed and vertices with
their coordinates.

The input is a graph written by build or an OSMnx network, which is built
first. Without -o the output goes to stdout. SVG results are cached.`,
		Example: `  roadnet render graph.json -o graph.svg
  roadnet render network.json --format dot --detailed | dot -Tpng > net.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != "" && !cmd.Flags().Changed("format") {
				opts.format = formatFromExt(opts.output, opts.format)
			}
			if err := pipeline.ValidateRenderFormat(opts.format); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, dot (default from -o extension)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label edges with distance and speed")
	cmd.Flags().StringVar(&opts.profile, "profile", "", "speed profile (TOML or YAML), used when the input is a network")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{pipeline.FormatSVG, pipeline.FormatDOT}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runRender(ctx context.Context, stdout io.Writer, input string, opts renderOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, _, err := c.loadGraph(ctx, runner, input, opts.profile)
	if err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinner(ctx, os.Stderr, fmt.Sprintf("Rendering %s...", opts.format))
	spinner.Start()

	data, hit, err := runner.Render(ctx, g, pipeline.RenderOptions{
		Format:   opts.format,
		Detailed: opts.detailed,
	})
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()
	prog.done(fmt.Sprintf("Rendered %d vertices as %s", g.Len(), opts.format))

	if opts.output == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}

	printSuccess("Rendered %s", strings.ToUpper(opts.format))
	printStats(g.Len(), g.EdgeCount(), hit)
	printFile(opts.output)
	return nil
}

// formatFromExt picks the render format from an output file extension,
// falling back to def.
func formatFromExt(path, def string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dot", ".gv":
		return pipeline.FormatDOT
	case ".svg":
		return pipeline.FormatSVG
	}
	return def
}
