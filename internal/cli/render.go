package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lightning/pkg/pipeline"
)

// renderCommand creates the render command, which writes layer previews and
// tree diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		infill     infillFlags
	)
	opts := pipeline.Options{Scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render [stack.json]",
		Short: "Render infill previews of a layer stack",
		Long: `Render infill previews of a layer stack.

Formats:
  svg       vector preview of each layer
  png       raster preview of each layer
  dot       tree topology of each layer as Graphviz source
  nodelink  tree topology drawn at the nodes' positions
  json      the infill lines of all layers

One file per selected layer and format is written to the output directory
(default: <input>_infill/). Use --layers to select layers.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			opts.Settings, opts.Kernel = infill.resolve(cmd, c.Config.Infill, c.Config.Kernel)
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, nodelink, json (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default: <input>_infill)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntSliceVar(&opts.Layers, "layers", nil, "layer indexes to render (default: all)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "preview resolution in pixels per millimetre")
	cmd.Flags().BoolVar(&opts.Roots, "roots", false, "mark tree roots in previews")
	infill.register(cmd)

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	res, err := c.execute(ctx, input, &opts, noCache, "Rendering infill...")
	if err != nil {
		return err
	}

	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "_infill"
	}
	paths, err := writeArtifacts(output, res.Artifacts)
	if err != nil {
		return err
	}

	printSuccess("Rendered %d files", len(paths))
	for _, p := range paths {
		printFile(p)
	}
	printStats(res.Stats, res.CacheInfo.GenerateHit && res.CacheInfo.RenderHit)
	return nil
}

// writeArtifacts writes every artifact into dir and returns the written
// paths in name order.
func writeArtifacts(dir string, artifacts map[string][]byte) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	names := make([]string, 0, len(artifacts))
	for name := range artifacts {
		names = append(names, name)
	}
	slices.Sort(names)

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
		if err := os.WriteFile(paths[i], artifacts[name], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", paths[i], err)
		}
	}
	return paths, nil
}
