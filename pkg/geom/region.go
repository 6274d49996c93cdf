package geom

import "math"

// Box is an axis-aligned bounding box. A box with Min greater than Max on
// either axis is empty.
type Box struct {
	Min, Max Point
}

// EmptyBox returns a box that contains nothing and grows with Include.
func EmptyBox() Box {
	return Box{
		Min: Point{math.MaxInt64, math.MaxInt64},
		Max: Point{math.MinInt64, math.MinInt64},
	}
}

// Empty reports whether the box contains no points.
func (b Box) Empty() bool { return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y }

// Include returns b grown to contain p.
func (b Box) Include(p Point) Box {
	b.Min.X = min(b.Min.X, p.X)
	b.Min.Y = min(b.Min.Y, p.Y)
	b.Max.X = max(b.Max.X, p.X)
	b.Max.Y = max(b.Max.Y, p.Y)
	return b
}

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	if o.Empty() {
		return b
	}
	return b.Include(o.Min).Include(o.Max)
}

// Contains reports whether p lies within the box, edges included.
func (b Box) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// Size returns the extent of the box.
func (b Box) Size() Point {
	if b.Empty() {
		return Point{}
	}
	return b.Max.Sub(b.Min)
}

// Region is an area described by a containment predicate.
type Region interface {
	Contains(p Point) bool
	Bounds() Box
}

// Difference is the part of Keep not covered by Remove.
type Difference struct {
	Keep   Region
	Remove Region
}

// Contains implements Region.
func (d Difference) Contains(p Point) bool {
	if !d.Keep.Contains(p) {
		return false
	}
	return d.Remove == nil || !d.Remove.Contains(p)
}

// Bounds implements Region.
func (d Difference) Bounds() Box { return d.Keep.Bounds() }

// SpreadDots samples r on a regular grid with the given spacing. Samples sit
// at cell centres, so a spacing larger than the region may return nothing.
func SpreadDots(r Region, spacing int64) []Point {
	if r == nil || spacing <= 0 {
		return nil
	}
	b := r.Bounds()
	if b.Empty() {
		return nil
	}
	var dots []Point
	for y := b.Min.Y + spacing/2; y <= b.Max.Y; y += spacing {
		for x := b.Min.X + spacing/2; x <= b.Max.X; x += spacing {
			p := Point{x, y}
			if r.Contains(p) {
				dots = append(dots, p)
			}
		}
	}
	return dots
}
