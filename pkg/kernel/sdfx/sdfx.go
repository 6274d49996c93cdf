// Package sdfx implements the kernel.Boundary interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
package sdfx

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"

	"github.com/matzehuels/lightning/pkg/geom"
	"github.com/matzehuels/lightning/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Boundary = (*Boundary)(nil)

// Boundary evaluates one 2D signed distance field per outline ring.
// Rings are kept separate so that containment follows the even-odd rule of
// geom.Polygons instead of the union semantics of sdf.Union2D.
type Boundary struct {
	rings []sdf.SDF2
}

// New builds a Boundary from the given outlines. Rings with fewer than three
// points are skipped.
func New(outlines geom.Polygons) (kernel.Boundary, error) {
	b := &Boundary{}
	for i, poly := range outlines {
		if len(poly) < 3 {
			continue
		}
		vertices := make([]v2.Vec, len(poly))
		for j, p := range poly {
			vertices[j] = v2.Vec{X: float64(p.X), Y: float64(p.Y)}
		}
		s, err := sdf.Polygon2D(vertices)
		if err != nil {
			return nil, fmt.Errorf("sdfx.Polygon2D ring %d: %w", i, err)
		}
		b.rings = append(b.rings, s)
	}
	return b, nil
}

// Inside reports whether p lies inside an odd number of rings. Points within
// half a micrometre of an edge count as inside.
func (b *Boundary) Inside(p geom.Point) bool {
	q := v2.Vec{X: float64(p.X), Y: float64(p.Y)}
	inside := false
	for _, ring := range b.rings {
		d := ring.Evaluate(q)
		if math.Abs(d) < 0.5 {
			return true
		}
		if d < 0 {
			inside = !inside
		}
	}
	return inside
}

// Distance returns the distance from p to the nearest ring edge.
func (b *Boundary) Distance(p geom.Point) int64 {
	if len(b.rings) == 0 {
		return math.MaxInt64
	}
	q := v2.Vec{X: float64(p.X), Y: float64(p.Y)}
	best := math.Inf(1)
	for _, ring := range b.rings {
		best = math.Min(best, math.Abs(ring.Evaluate(q)))
	}
	return int64(math.Round(best))
}
