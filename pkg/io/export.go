package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/lightning/pkg/geom"
)

// LayerLines is the infill generated for one layer.
type LayerLines struct {
	Index  int
	Lines  []geom.Segment
	Roots  []geom.Point
	Nodes  int
	Length int64
}

// point is written as a compact [x, y] pair.
type point [2]int64

func (p point) point() geom.Point { return geom.Pt(p[0], p[1]) }

func fromPoint(p geom.Point) point { return point{p.X, p.Y} }

type stack struct {
	LayerThickness int64   `json:"layer_thickness,omitempty"`
	Layers         []layer `json:"layers"`
}

type layer struct {
	Outlines [][]point `json:"outlines"`
}

type result struct {
	Layers []layerResult `json:"layers"`
}

type layerResult struct {
	Index  int        `json:"index"`
	Roots  []point    `json:"roots"`
	Nodes  int        `json:"nodes"`
	Length int64      `json:"length"`
	Lines  [][2]point `json:"lines"`
}

// WriteJSON encodes a layer stack in the format read by [ReadJSON].
func WriteJSON(s *Stack, w io.Writer) error {
	out := stack{
		LayerThickness: s.LayerThickness,
		Layers:         make([]layer, len(s.Layers)),
	}
	for i, polys := range s.Layers {
		rings := make([][]point, len(polys))
		for j, poly := range polys {
			ring := make([]point, len(poly))
			for k, p := range poly {
				ring[k] = fromPoint(p)
			}
			rings[j] = ring
		}
		out.Layers[i] = layer{Outlines: rings}
	}
	return encode(w, out)
}

// ExportJSON writes a layer stack to path.
func ExportJSON(s *Stack, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(s, f)
}

// WriteLines encodes generated infill. Layers without lines are written with
// an empty array, never null.
func WriteLines(layers []LayerLines, w io.Writer) error {
	out := result{Layers: make([]layerResult, len(layers))}
	for i, l := range layers {
		lines := make([][2]point, len(l.Lines))
		for j, s := range l.Lines {
			lines[j] = [2]point{fromPoint(s.A), fromPoint(s.B)}
		}
		roots := make([]point, len(l.Roots))
		for j, p := range l.Roots {
			roots[j] = fromPoint(p)
		}
		out.Layers[i] = layerResult{
			Index:  l.Index,
			Roots:  roots,
			Nodes:  l.Nodes,
			Length: l.Length,
			Lines:  lines,
		}
	}
	return encode(w, out)
}

// ExportLines writes generated infill to path.
func ExportLines(layers []LayerLines, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteLines(layers, f)
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
