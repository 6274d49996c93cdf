// Package nodelink renders the tree topology of a layer as a node-link
// diagram.
//
// # Overview
//
// Every tree node becomes a graph node and every parent-child edge an arrow
// pointing away from the root. Roots are drawn as filled boxes and leaves as
// hollow circles, which makes it easy to spot how a layer's forest is
// grounded.
//
// # Usage
//
//	dot := nodelink.ToDOT(layer.Roots, nodelink.Options{Positioned: true})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.Options{Positioned: true})
//
// # Options
//
//   - Detailed: label nodes with their location in millimetres
//   - Positioned: pin nodes at their plan position (neato layout) instead of
//     ranking them top-down by depth (dot layout)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is needed.
package nodelink
