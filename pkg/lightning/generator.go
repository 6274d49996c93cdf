package lightning

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"slices"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/lightning/pkg/geom"
	"github.com/matzehuels/lightning/pkg/kernel"
)

// Generator runs lightning infill over a stack of layers.
//
// Layers are processed top-down. Each layer first grows trees for its
// overhang, then reconnects the trees propagated from the layer above, and
// finally hands a pruned and straightened copy of its forest to the layer
// below. A Generator holds no per-run state and may be shared.
type Generator struct {
	settings Settings
	factory  kernel.Factory
	logger   *log.Logger
}

// NewGenerator returns a Generator. A nil factory uses [kernel.NewExact]; a
// nil logger discards output.
func NewGenerator(settings Settings, factory kernel.Factory, logger *log.Logger) (*Generator, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	if factory == nil {
		factory = kernel.NewExact
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Generator{settings: settings, factory: factory, logger: logger}, nil
}

// Settings returns the settings the generator was built with.
func (g *Generator) Settings() Settings { return g.settings }

// Generate computes the forests for outlines, which are ordered bottom
// (index 0) to top. The returned layers use the same order.
func (g *Generator) Generate(ctx context.Context, outlines []geom.Polygons) ([]*Layer, error) {
	built, err := g.buildOutlines(ctx, outlines)
	if err != nil {
		return nil, err
	}

	var (
		r      = g.settings.SupportingRadius()
		wallR  = g.settings.WallSupportingRadius()
		prune  = g.settings.PruneDistance()
		smooth = g.settings.SmoothMagnitude()
	)

	layers := make([]*Layer, len(outlines))
	for i := range layers {
		layers[i] = &Layer{}
	}

	for i := len(layers) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		layer, outline := layers[i], built[i]
		toReconnect := slices.Clone(layer.Roots)

		attached := layer.GenerateNewTrees(g.overhang(built, i), outline, r)
		layer.ReconnectRoots(toReconnect, outline, r, wallR)

		g.logger.Debug("generated layer",
			"layer", i,
			"attached", attached,
			"propagated", len(toReconnect),
			"roots", len(layer.Roots))

		if i > 0 {
			layer.PropagateTo(layers[i-1], built[i-1], prune, smooth)
		}
	}
	return layers, nil
}

// overhang is the part of layer i, away from its walls, that the layer above
// does not cover.
func (g *Generator) overhang(built []*Outline, i int) geom.Region {
	here := built[i]
	d := geom.Difference{
		Keep: kernel.Inset{Region: here, Boundary: here.Boundary, Distance: g.settings.WallSupportingRadius()},
	}
	if i+1 < len(built) {
		d.Remove = built[i+1]
	}
	return d
}

// buildOutlines creates the boundary backend of every layer in parallel.
func (g *Generator) buildOutlines(ctx context.Context, outlines []geom.Polygons) ([]*Outline, error) {
	built := make([]*Outline, len(outlines))
	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, polys := range outlines {
		eg.Go(func() error {
			o, err := NewOutline(polys, g.factory)
			if err != nil {
				return fmt.Errorf("layer %d: %w", i, err)
			}
			built[i] = o
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return built, nil
}
