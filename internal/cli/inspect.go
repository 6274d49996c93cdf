package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lightning/pkg/pipeline"
)

// inspectCommand creates the inspect command, an interactive browser of the
// generated layers.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		noCache bool
		infill  infillFlags
	)

	cmd := &cobra.Command{
		Use:   "inspect [stack.json]",
		Short: "Browse the generated infill layer by layer",
		Long: `Browse the generated infill layer by layer.

Lists every layer with its tree, node and line counts. Press enter to preview
the selected layer in the terminal: walls are dotted, infill lines solid and
tree roots marked with "o".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, kernel := infill.resolve(cmd, c.Config.Infill, c.Config.Kernel)
			opts := pipeline.Options{Settings: settings, Kernel: kernel}
			return c.runInspect(cmd.Context(), args[0], opts, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	infill.register(cmd)

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input string, opts pipeline.Options, noCache bool) error {
	res, err := c.execute(ctx, input, &opts, noCache, "Generating infill...")
	if err != nil {
		return err
	}

	model := NewLayerListModel(opts.Stack, res.Layers)
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("inspect: %w", err)
	}
	return nil
}
