package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/lightning/pkg/errors"
	lio "github.com/matzehuels/lightning/pkg/io"
	"github.com/matzehuels/lightning/pkg/lightning"
	"github.com/matzehuels/lightning/pkg/observability"
)

// Generate grows the forests of every layer of opts.Stack and flattens them
// into lines. Options must have been validated.
func Generate(ctx context.Context, opts Options) ([]lio.LayerLines, [][]*lightning.Node, error) {
	factory, err := opts.factory()
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "kernel")
	}
	gen, err := lightning.NewGenerator(opts.Settings, factory, opts.Logger)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "generator")
	}

	count := len(opts.Stack.Layers)
	observability.Pipeline().OnGenerateStart(ctx, count)
	start := time.Now()

	layers, err := gen.Generate(ctx, opts.Stack.Layers)
	if err != nil {
		observability.Pipeline().OnGenerateComplete(ctx, count, 0, time.Since(start), err)
		if ctx.Err() != nil {
			return nil, nil, errors.Wrap(errors.ErrCodeTimeout, err, "generation interrupted")
		}
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidLayer, err, "generation failed")
	}

	out := make([]lio.LayerLines, len(layers))
	forests := make([][]*lightning.Node, len(layers))
	nodes := 0
	for i, l := range layers {
		out[i] = lio.LayerLines{
			Index:  i,
			Lines:  l.ConvertToLines(opts.Settings.LineWidth),
			Roots:  rootLocations(l.Roots),
			Nodes:  l.NodeCount(),
			Length: l.TotalLength(),
		}
		forests[i] = l.Roots
		nodes += out[i].Nodes
	}
	observability.Pipeline().OnGenerateComplete(ctx, count, nodes, time.Since(start), nil)
	return out, forests, nil
}
