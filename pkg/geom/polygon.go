package geom

import "math"

// Polygon is a closed ring. The last point connects back to the first.
type Polygon []Point

// Polygons is a set of rings combined with the even-odd rule.
type Polygons []Polygon

// Rect returns the axis-aligned rectangle spanning (x0, y0)-(x1, y1) as a
// counter-clockwise ring.
func Rect(x0, y0, x1, y1 int64) Polygon {
	return Polygon{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

// Edges calls fn for every edge of the ring.
func (poly Polygon) Edges(fn func(a, b Point)) {
	for i := range poly {
		fn(poly[i], poly[(i+1)%len(poly)])
	}
}

// Empty reports whether the set contains no ring with at least three points.
func (ps Polygons) Empty() bool {
	for _, poly := range ps {
		if len(poly) >= 3 {
			return false
		}
	}
	return true
}

// Inside reports whether p lies inside the set. Points exactly on an edge
// return borderResult.
func (ps Polygons) Inside(p Point, borderResult bool) bool {
	inside := false
	for _, poly := range ps {
		if len(poly) < 3 {
			continue
		}
		for i := range poly {
			a := poly[i]
			b := poly[(i+1)%len(poly)]
			if OnSegment(p, a, b) {
				return borderResult
			}
			if (a.Y > p.Y) == (b.Y > p.Y) {
				continue
			}
			c := b.Sub(a).Cross(p.Sub(a))
			if (b.Y > a.Y && c > 0) || (b.Y < a.Y && c < 0) {
				inside = !inside
			}
		}
	}
	return inside
}

// Contains implements Region. Border points count as outside.
func (ps Polygons) Contains(p Point) bool { return ps.Inside(p, false) }

// Bounds implements Region.
func (ps Polygons) Bounds() Box {
	b := EmptyBox()
	for _, poly := range ps {
		for _, p := range poly {
			b = b.Include(p)
		}
	}
	return b
}

// ClosestPoint is the result of projecting a point onto a set of rings.
type ClosestPoint struct {
	Location Point // projected location on the ring
	Poly     int   // ring index
	Segment  int   // index of the segment start within the ring
}

// ClosestPoint projects p onto the nearest edge of the set. It returns false
// when the set has no edges.
func (ps Polygons) ClosestPoint(p Point) (ClosestPoint, bool) {
	best := ClosestPoint{}
	bestDist := int64(math.MaxInt64)
	found := false
	for pi, poly := range ps {
		if len(poly) == 0 {
			continue
		}
		for i := range poly {
			q := ClosestOnSegment(p, poly[i], poly[(i+1)%len(poly)])
			if d := p.Sub(q).Size2(); d < bestDist {
				bestDist = d
				best = ClosestPoint{Location: q, Poly: pi, Segment: i}
				found = true
			}
		}
	}
	return best, found
}

// Crosses reports whether the segment a-b properly crosses any edge of the
// set. Touching an edge at an endpoint or running along it is not a crossing.
func (ps Polygons) Crosses(a, b Point) bool {
	for _, poly := range ps {
		if len(poly) < 2 {
			continue
		}
		for i := range poly {
			if SegmentsCross(a, b, poly[i], poly[(i+1)%len(poly)]) {
				return true
			}
		}
	}
	return false
}
