package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/lightning/pkg/errors"
	"github.com/matzehuels/lightning/pkg/geom"
)

// Stack is a sliced object: the interior outlines of each layer.
type Stack struct {
	// LayerThickness in micrometres; zero means unspecified.
	LayerThickness int64
	// Layers holds the outlines of every layer, bottom first.
	Layers []geom.Polygons
}

// ReadJSON decodes a layer stack from r.
//
// ReadJSON returns an error if the JSON is malformed, the layer thickness is
// negative, or an outline has fewer than three points. ReadJSON does not
// close r.
func ReadJSON(r io.Reader) (*Stack, error) {
	var data stack
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layer stack")
	}
	if data.LayerThickness < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "layer_thickness must not be negative")
	}

	s := &Stack{
		LayerThickness: data.LayerThickness,
		Layers:         make([]geom.Polygons, len(data.Layers)),
	}
	for i, l := range data.Layers {
		polys := make(geom.Polygons, 0, len(l.Outlines))
		for j, ring := range l.Outlines {
			if len(ring) < 3 {
				return nil, errors.New(errors.ErrCodeInvalidInput,
					"layer %d outline %d: need at least 3 points, got %d", i, j, len(ring))
			}
			poly := make(geom.Polygon, len(ring))
			for k, p := range ring {
				poly[k] = p.point()
			}
			polys = append(polys, poly)
		}
		s.Layers[i] = polys
	}
	return s, nil
}

// ImportJSON reads the layer stack stored at path.
func ImportJSON(path string) (*Stack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}

// ReadLines decodes generated infill written by [WriteLines].
func ReadLines(r io.Reader) ([]LayerLines, error) {
	var data result
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode infill")
	}
	out := make([]LayerLines, len(data.Layers))
	for i, l := range data.Layers {
		lines := make([]geom.Segment, len(l.Lines))
		for j, s := range l.Lines {
			lines[j] = geom.Segment{A: s[0].point(), B: s[1].point()}
		}
		roots := make([]geom.Point, len(l.Roots))
		for j, p := range l.Roots {
			roots[j] = p.point()
		}
		out[i] = LayerLines{
			Index:  l.Index,
			Lines:  lines,
			Roots:  roots,
			Nodes:  l.Nodes,
			Length: l.Length,
		}
	}
	return out, nil
}
