package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/roadnet/pkg/errors"
	"github.com/matzehuels/roadnet/pkg/profile"
)

// profileCommand creates the profile command, which prints the effective
// speed profile so it can be edited and passed back with --profile.
func (c *CLI) profileCommand() *cobra.Command {
	var profilePath, format string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Print the effective speed profile as TOML or YAML",
		Long: `Print the speed profile used to resolve edges without a usable maxspeed
tag: the default speed of each road class and the global fallback, in km/h.

With --profile the file is merged over the built-in table first, so the
output shows exactly what build would use. Profiles ending in .yaml or .yml
are read as YAML, anything else as TOML.`,
		Example: `  roadnet profile > speeds.toml
  roadnet profile --format yaml > speeds.yaml
  roadnet build network.json --profile speeds.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProfile(profilePath)
			if err != nil {
				return err
			}
			switch format {
			case profile.FormatTOML:
				return profile.Write(cmd.OutOrStdout(), p)
			case profile.FormatYAML:
				return profile.WriteYAML(cmd.OutOrStdout(), p)
			}
			return errors.New(errors.ErrCodeUnsupported, "unsupported profile format: %s (valid: toml, yaml)", format)
		},
	}

	cmd.Flags().StringVar(&profilePath, "profile", "", "speed profile (TOML or YAML) to merge over the built-in table")
	cmd.Flags().StringVarP(&format, "format", "f", profile.FormatTOML, "output format: toml, yaml")

	return cmd
}
