package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/lightning/pkg/geom"
	"github.com/matzehuels/lightning/pkg/lightning"
)

// pointsPerMM is the number of typographic points, the Graphviz unit, per
// millimetre.
const pointsPerMM = 72 / 25.4

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed labels every node with its location in millimetres.
	// When false, nodes are unlabeled.
	Detailed bool

	// Positioned pins nodes at their plan position.
	Positioned bool
}

// ToDOT converts a forest to Graphviz DOT format. Nodes are numbered in
// pre-order, tree by tree, so the output is stable for a given forest.
func ToDOT(roots []*lightning.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	if !opts.Positioned {
		buf.WriteString("  rankdir=TB;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, width=0.15, fixedsize=true, label=\"\", fontsize=10];\n")
	buf.WriteString("  edge [arrowsize=0.4];\n")
	buf.WriteString("\n")

	ids := make(map[*lightning.Node]int)
	for _, root := range roots {
		root.VisitNodes(func(n *lightning.Node) {
			id := len(ids)
			ids[n] = id
			fmt.Fprintf(&buf, "  n%d [%s];\n", id, nodeAttrs(n, opts))
		})
	}

	buf.WriteString("\n")
	for _, root := range roots {
		root.VisitNodes(func(n *lightning.Node) {
			for _, c := range n.Children() {
				fmt.Fprintf(&buf, "  n%d -> n%d;\n", ids[n], ids[c])
			}
		})
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *lightning.Node, opts Options) string {
	var attrs []byte
	add := func(format string, args ...any) {
		if len(attrs) > 0 {
			attrs = append(attrs, ", "...)
		}
		attrs = fmt.Appendf(attrs, format, args...)
	}

	switch {
	case n.IsRoot():
		add("shape=box, style=filled, fillcolor=\"#1f77b4\"")
	case n.IsLeaf():
		add("style=solid")
	default:
		add("style=filled, fillcolor=\"#d62728\"")
	}
	if opts.Detailed {
		add("xlabel=%q", fmtLocation(n.Location()))
	}
	if opts.Positioned {
		p := n.Location()
		add("pos=\"%.2f,%.2f!\"", float64(p.X)/1000*pointsPerMM, float64(p.Y)/1000*pointsPerMM)
	}
	return string(attrs)
}

func fmtLocation(p geom.Point) string {
	return fmt.Sprintf("%.1f, %.1f", float64(p.X)/1000, float64(p.Y)/1000)
}

// RenderSVG renders a DOT graph to SVG using Graphviz. opts must match the
// options the DOT source was produced with.
func RenderSVG(ctx context.Context, dot string, opts Options) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	if opts.Positioned {
		gv.SetLayout(graphviz.NEATO)
	}

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz svg element, whose size is given in
// points, with one sized in pixels and anchored at the origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
