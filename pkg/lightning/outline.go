package lightning

import (
	"fmt"

	"github.com/matzehuels/lightning/pkg/geom"
	"github.com/matzehuels/lightning/pkg/kernel"
)

// Outline is the infill area of one layer together with the boundary query
// backend built for it.
type Outline struct {
	Polygons geom.Polygons
	Boundary kernel.Boundary
}

// NewOutline builds an Outline, creating its Boundary with factory. A nil
// factory uses [kernel.NewExact].
func NewOutline(polys geom.Polygons, factory kernel.Factory) (*Outline, error) {
	if factory == nil {
		factory = kernel.NewExact
	}
	b, err := factory(polys)
	if err != nil {
		return nil, fmt.Errorf("build boundary: %w", err)
	}
	return &Outline{Polygons: polys, Boundary: b}, nil
}

// Empty reports whether the outline has no area to fill.
func (o *Outline) Empty() bool { return o == nil || o.Polygons.Empty() }

// Inside reports whether p lies in the infill area, border included.
func (o *Outline) Inside(p geom.Point) bool {
	if o.Empty() {
		return false
	}
	return o.Boundary.Inside(p)
}

// Crosses reports whether the segment a-b passes through the outline.
func (o *Outline) Crosses(a, b geom.Point) bool {
	if o.Empty() {
		return false
	}
	return o.Polygons.Crosses(a, b)
}

// Project returns the point on the outline closest to p.
func (o *Outline) Project(p geom.Point) (geom.Point, bool) {
	if o.Empty() {
		return geom.Point{}, false
	}
	cp, ok := o.Polygons.ClosestPoint(p)
	return cp.Location, ok
}

// Contains implements geom.Region with the border excluded, matching
// the polygon set's own containment.
func (o *Outline) Contains(p geom.Point) bool { return o.Polygons.Contains(p) }

// Bounds implements geom.Region.
func (o *Outline) Bounds() geom.Box { return o.Polygons.Bounds() }

// rootPolygonIntersection finds where the line through inside and oldRoot
// meets the outline, choosing the hit closest to oldRoot. It returns inside
// when no edge is hit.
func rootPolygonIntersection(inside, oldRoot geom.Point, polys geom.Polygons) geom.Point {
	result := inside
	var bestDist2 int64 = -1
	for _, poly := range polys {
		for i := range poly {
			a, b := poly[i], poly[(i+1)%len(poly)]
			hit, ok := geom.LineIntersection(inside, oldRoot, a, b)
			if !ok || geom.ProjectedBeyond(hit, a, b) {
				continue
			}
			if d := oldRoot.Sub(hit).Size2(); bestDist2 < 0 || d < bestDist2 {
				bestDist2 = d
				result = hit
			}
		}
	}
	return result
}
