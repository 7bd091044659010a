package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/roadnet/pkg/errors"
	"github.com/matzehuels/roadnet/pkg/roadgraph"
)

// speedCommand creates the speed command.
func (c *CLI) speedCommand() *cobra.Command {
	var (
		class       string
		profilePath string
	)

	cmd := &cobra.Command{
		Use:   "speed [value]...",
		Short: "Resolve the speed of an edge from its maxspeed tag",
		Long: `Resolve the travel speed of a single edge, the same way build does.

With no value the edge has no maxspeed tag. One value is a scalar tag; more
than one value is a list, and the first that parses to a non-zero speed wins.
Values are read as text: "50" is 50 km/h, "30 mph" is 48.28 km/h and "0" is
0 km/h. When no value resolves, the road class default applies, then the
global default.`,
		Example: `  roadnet speed "30 mph"
  roadnet speed bad 50
  roadnet speed --class motorway`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if class != "" {
				if err := errors.ValidateRoadClass(class); err != nil {
					return err
				}
			}
			p, err := loadProfile(profilePath)
			if err != nil {
				return err
			}

			edge := roadgraph.RawEdge{SpeedLimit: speedValue(args)}
			if class != "" {
				edge.RoadClass = &class
			}
			res := roadgraph.ExplainSpeed(edge, p)
			c.Logger.Debug("resolved speed", "values", args, "class", class, "source", res.Source)

			printKeyValue("speed", StyleNumber.Render(formatSpeed(res.Speed))+" km/h")
			printKeyValue("source", res.Source.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&class, "class", "", "road class (highway tag) of the edge, e.g. residential")
	cmd.Flags().StringVar(&profilePath, "profile", "", "speed profile (TOML or YAML) overriding the built-in road class speeds")
	_ = cmd.RegisterFlagCompletionFunc("class", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return roadgraph.DefaultProfile().Classes(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// speedValue turns command-line values into a maxspeed tag.
func speedValue(args []string) roadgraph.SpeedValue {
	switch len(args) {
	case 0:
		return roadgraph.NoSpeed()
	case 1:
		return roadgraph.ScalarSpeed(args[0])
	}
	vs := make([]any, len(args))
	for i, a := range args {
		vs[i] = a
	}
	return roadgraph.ListSpeed(vs...)
}

func formatSpeed(kmh float64) string {
	return strconv.FormatFloat(kmh, 'f', 2, 64)
}

// formatSpeedRange renders lo-hi, or a single value when they match.
func formatSpeedRange(lo, hi float64) string {
	if lo == hi {
		return formatSpeed(lo) + " km/h"
	}
	return fmt.Sprintf("%s-%s km/h", formatSpeed(lo), formatSpeed(hi))
}
