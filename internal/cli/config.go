package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// configCommand prints the effective configuration, which is a valid
// configuration file.
func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `Print the effective configuration as TOML.

Without --config this prints the defaults, a convenient starting point:

  lightning config > lightning.toml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Config.Write(os.Stdout)
		},
	}
}
