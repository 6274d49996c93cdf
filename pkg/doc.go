// Package pkg holds the libraries behind the lightning infill generator.
//
// # Overview
//
// Lightning infill supports the top surfaces of a sliced object with trees
// that grow downwards through the part. The pkg directory is organized as:
//
//  1. [geom], [kernel] - integer plane geometry and boundary backends
//  2. [lightning] - tree growth, reconnection, pruning and straightening
//  3. [io], [render] - stack/lines JSON and layer previews
//  4. [pipeline] - orchestration (generate → render) with caching
//  5. [cache], [store], [api], [config] - infrastructure for the CLI and
//     the HTTP service
//
// # Architecture
//
// The typical data flow:
//
//	layer outlines (JSON)
//	         ↓
//	    [io] package (decode stack)
//	         ↓
//	    [lightning] package (grow and propagate trees, top layer first)
//	         ↓
//	    [render] package (SVG/PNG previews, tree diagrams)
//
// # Quick Start
//
//	stack, _ := io.ImportJSON("part.json")
//	settings := lightning.DefaultSettings()
//	gen, _ := lightning.NewGenerator(settings, nil, nil)
//	layers, _ := gen.Generate(ctx, stack.Layers)
//	for i, l := range layers {
//	    fmt.Println(i, len(l.ConvertToLines(settings.LineWidth)))
//	}
//
// Most callers use [pipeline.Runner] instead, which adds caching and
// rendering on top.
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/lightning/pkg/geom
// [kernel]: https://pkg.go.dev/github.com/matzehuels/lightning/pkg/kernel
// [lightning]: https://pkg.go.dev/github.com/matzehuels/lightning/pkg/lightning
// [io]: https://pkg.go.dev/github.com/matzehuels/lightning/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/lightning/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/lightning/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/matzehuels/lightning/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/matzehuels/lightning/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/lightning/pkg/store
// [api]: https://pkg.go.dev/github.com/matzehuels/lightning/pkg/api
// [config]: https://pkg.go.dev/github.com/matzehuels/lightning/pkg/config
package pkg
