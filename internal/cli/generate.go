package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	lio "github.com/matzehuels/lightning/pkg/io"
	"github.com/matzehuels/lightning/pkg/pipeline"
)

// generateCommand creates the generate command, which writes the infill lines
// of every layer as JSON.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		infill  infillFlags
	)

	cmd := &cobra.Command{
		Use:   "generate [stack.json]",
		Short: "Generate lightning infill lines for a layer stack",
		Long: `Generate lightning infill lines for a layer stack.

The input is a JSON stack of layer outlines, bottom layer first. The output
lists the infill line segments, tree roots and node counts of every layer.

Results are cached locally; use --refresh to regenerate.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, kernel := infill.resolve(cmd, c.Config.Infill, c.Config.Kernel)
			opts := pipeline.Options{Settings: settings, Kernel: kernel, Refresh: refresh}
			return c.runGenerate(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout (default: <input>.infill.json)`)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "regenerate even if cached")
	infill.register(cmd)

	return cmd
}

func (c *CLI) runGenerate(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	res, err := c.execute(ctx, input, &opts, noCache, "Generating infill...")
	if err != nil {
		return err
	}

	if output == "-" {
		return lio.WriteLines(res.Layers, os.Stdout)
	}
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".infill.json"
	}
	if err := lio.ExportLines(res.Layers, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Infill generated")
	printFile(output)
	printStats(res.Stats, res.CacheInfo.GenerateHit)
	printNewline()
	printNextStep("Preview", fmt.Sprintf("%s render %s -f svg", appName, input))
	return nil
}

// execute loads input and runs the pipeline behind a spinner.
func (c *CLI) execute(ctx context.Context, input string, opts *pipeline.Options, noCache bool, message string) (*pipeline.Result, error) {
	stack, err := lio.ImportJSON(input)
	if err != nil {
		return nil, fmt.Errorf("load stack %s: %w", input, err)
	}
	c.Logger.Debug("loaded stack", "path", input, "layers", len(stack.Layers))
	opts.Stack = stack
	opts.Logger = c.Logger

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spin := newSpinner(ctx, message)
	spin.Start()
	res, err := runner.Execute(ctx, *opts)
	if err != nil {
		spin.StopWithError("Failed after %s", prog.elapsed())
		return nil, err
	}
	spin.Stop()
	prog.done("pipeline finished", "layers", res.Stats.LayerCount, "cached", res.CacheInfo.GenerateHit)

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	return res, nil
}
