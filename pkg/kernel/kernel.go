// Package kernel defines the outline query interface used by lightning infill.
// Implementations answer containment and distance-to-outline questions for a
// single layer's infill area. The exact implementation works on integer
// polygons; the sdfx implementation evaluates signed distance fields. The
// abstraction allows swapping backends without changing tree generation.
package kernel

import (
	"math"

	"github.com/matzehuels/lightning/pkg/geom"
)

// Boundary answers geometric queries against one layer's outlines.
type Boundary interface {
	// Inside reports whether p lies inside the outlines, border included.
	Inside(p geom.Point) bool

	// Distance returns the unsigned distance from p to the nearest outline
	// edge, or math.MaxInt64 if there are no outlines.
	Distance(p geom.Point) int64
}

// Factory builds a Boundary for a set of outlines.
type Factory func(outlines geom.Polygons) (Boundary, error)

// Compile-time interface check.
var _ Boundary = (*Exact)(nil)

// Exact is a Boundary computed directly on the integer polygons.
type Exact struct {
	outlines geom.Polygons
}

// NewExact returns an exact Boundary. It never fails; the error return lets
// it serve as a Factory.
func NewExact(outlines geom.Polygons) (Boundary, error) {
	return &Exact{outlines: outlines}, nil
}

// Inside reports whether p lies inside the outlines, border included.
func (e *Exact) Inside(p geom.Point) bool {
	return e.outlines.Inside(p, true)
}

// Distance returns the distance from p to the closest outline point.
func (e *Exact) Distance(p geom.Point) int64 {
	cp, ok := e.outlines.ClosestPoint(p)
	if !ok {
		return math.MaxInt64
	}
	return geom.Dist(p, cp.Location)
}

// Inset restricts a region to points at least Distance away from Boundary.
type Inset struct {
	Region   geom.Region
	Boundary Boundary
	Distance int64
}

// Contains implements geom.Region.
func (in Inset) Contains(p geom.Point) bool {
	if !in.Region.Contains(p) {
		return false
	}
	return in.Distance <= 0 || in.Boundary.Distance(p) >= in.Distance
}

// Bounds implements geom.Region.
func (in Inset) Bounds() geom.Box { return in.Region.Bounds() }
