package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/lightning/pkg/errors"
	lio "github.com/matzehuels/lightning/pkg/io"
	"github.com/matzehuels/lightning/pkg/render"
	"github.com/matzehuels/lightning/pkg/render/nodelink"
)

// renderJob is one artifact to produce.
type renderJob struct {
	format string
	layer  int // -1 for whole-stack formats
	name   string
}

// renderJobs expands the requested formats over the selected layers.
func renderJobs(gen *Generation, opts Options) []renderJob {
	var jobs []renderJob
	for _, format := range opts.Formats {
		if format == FormatJSON {
			jobs = append(jobs, renderJob{format: format, layer: -1, name: ArtifactName(format, -1)})
			continue
		}
		for _, l := range opts.SelectedLayers(len(gen.Layers)) {
			jobs = append(jobs, renderJob{format: format, layer: l, name: ArtifactName(format, l)})
		}
	}
	return jobs
}

// renderArtifacts produces the given artifacts concurrently, keyed by artifact
// name.
func renderArtifacts(ctx context.Context, gen *Generation, jobs []renderJob, opts Options) (map[string][]byte, error) {
	var (
		mu        sync.Mutex
		artifacts = make(map[string][]byte, len(jobs))
	)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for _, j := range jobs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := renderOne(ctx, gen, j, opts)
			if err != nil {
				return fmt.Errorf("render %s: %w", j.name, err)
			}
			mu.Lock()
			artifacts[j.name] = data
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func renderOne(ctx context.Context, gen *Generation, j renderJob, opts Options) ([]byte, error) {
	if j.format == FormatJSON {
		var buf bytes.Buffer
		if err := lio.WriteLines(gen.Layers, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	if j.layer < 0 || j.layer >= len(gen.Layers) {
		return nil, errors.New(errors.ErrCodeInvalidLayer, "layer %d out of range", j.layer)
	}

	switch j.format {
	case FormatSVG:
		return render.SVG(scene(gen, opts, j.layer), renderOptions(opts)...), nil
	case FormatPNG:
		return render.PNG(scene(gen, opts, j.layer), renderOptions(opts)...)
	case FormatDOT, FormatNodelink:
		if gen.Forests == nil {
			return nil, errors.New(errors.ErrCodeUnsupported, "%s needs trees, which are not cached; regenerate", j.format)
		}
		nlOpts := nodelink.Options{Detailed: true, Positioned: true}
		dot := nodelink.ToDOT(gen.Forests[j.layer], nlOpts)
		if j.format == FormatDOT {
			return []byte(dot), nil
		}
		return nodelink.RenderSVG(ctx, dot, nlOpts)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", j.format)
	}
}

func scene(gen *Generation, opts Options, layer int) render.Scene {
	l := gen.Layers[layer]
	return render.Scene{
		Outlines:  opts.Stack.Layers[layer],
		Lines:     l.Lines,
		Roots:     l.Roots,
		LineWidth: gen.Settings.LineWidth,
	}
}

func renderOptions(opts Options) []render.Option {
	ro := []render.Option{render.WithScale(opts.Scale)}
	if opts.Roots {
		ro = append(ro, render.WithRoots())
	}
	return ro
}
