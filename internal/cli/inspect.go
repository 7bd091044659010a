package cli

import (
	"context"
	"fmt"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/roadnet/pkg/roadgraph"
)

// inspectOpts holds the flags of the inspect command.
type inspectOpts struct {
	profile string
	noCache bool
	browse  bool
}

// inspectCommand creates the inspect command.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect [graph.json]",
		Short: "Summarize a built graph",
		Long: `Summarize a graph written by build: vertex and edge counts, traffic
signals and stop signs, vertices without coordinates, dead ends, edges whose
target is not a vertex, and the range of edge speeds.

An OSMnx network can be given instead; it is built first. Use --browse to page
through the vertices and their edges interactively.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.profile, "profile", "", "speed profile (TOML or YAML), used when the input is a network")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.browse, "browse", false, "browse vertices interactively")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, opts inspectOpts) error {
	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, src, err := c.loadGraph(ctx, runner, input, opts.profile)
	if err != nil {
		return err
	}

	if opts.browse {
		_, err := tea.NewProgram(NewVertexBrowser(g), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		return err
	}

	s := roadgraph.Summarize(g)
	fmt.Fprintln(out, StyleTitle.Render(input))
	if src.built {
		printStats(s.Vertices, s.Edges, src.cached)
	}
	printSummary(s)
	return nil
}

func printSummary(s roadgraph.Summary) {
	count := func(n int) string { return StyleNumber.Render(strconv.Itoa(n)) }

	printKeyValue("vertices", count(s.Vertices))
	printKeyValue("edges", count(s.Edges))
	printKeyValue("signals", count(s.TrafficLights))
	printKeyValue("stop signs", count(s.StopSigns))
	if s.NoCoordinates > 0 {
		printKeyValue("no coords", count(s.NoCoordinates))
	}
	printKeyValue("dead ends", count(s.DeadEnds))
	if s.DanglingEdges > 0 {
		printKeyValue("dangling", count(s.DanglingEdges))
	}
	if s.Edges == 0 {
		return
	}
	printKeyValue("speed", formatSpeedRange(s.MinSpeed, s.MaxSpeed))
	printKeyValue("mean speed", formatSpeed(s.MeanSpeed)+" km/h")
	printKeyValue("distance", strconv.FormatFloat(s.TotalDistance, 'f', 1, 64))
	printKeyValue("max degree", fmt.Sprintf("%d (%s)", s.MaxOutDegree, s.MaxOutDegreeID))
}
