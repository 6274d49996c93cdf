// Package render draws layer previews of generated infill.
//
// # Overview
//
// A [Scene] holds what to draw for one layer: the interior outlines, the
// printable infill lines and optionally the tree roots. It renders to
//
//   - SVG via [SVG], written directly as text
//   - PNG via [PNG], rasterized with fogleman/gg
//
// Both renderers share the same viewport: micrometre coordinates are scaled
// to pixels (10 px per millimetre by default) and flipped so that +Y points
// up, as in the slicer.
//
//	scene := render.Scene{Outlines: polys, Lines: layer.ConvertToLines(400)}
//	svg := render.SVG(scene, render.WithScale(20))
//	png, err := render.PNG(scene)
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the tree topology of a layer with
// Graphviz, one graph node per tree node.
//
// [nodelink]: github.com/matzehuels/lightning/pkg/render/nodelink
package render
