package geom

// ClosestOnSegment returns the point on segment a-b nearest to p.
func ClosestOnSegment(p, a, b Point) Point {
	ab := b.Sub(a)
	l2 := ab.Size2()
	if l2 == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab)
	if t <= 0 {
		return a
	}
	if t >= l2 {
		return b
	}
	f := float64(t) / float64(l2)
	return Point{a.X + round(float64(ab.X)*f), a.Y + round(float64(ab.Y)*f)}
}

// OnSegment reports whether p lies exactly on segment a-b.
func OnSegment(p, a, b Point) bool {
	if b.Sub(a).Cross(p.Sub(a)) != 0 {
		return false
	}
	return min(a.X, b.X) <= p.X && p.X <= max(a.X, b.X) &&
		min(a.Y, b.Y) <= p.Y && p.Y <= max(a.Y, b.Y)
}

// ProjectedBeyond reports whether p projects outside the segment a-b.
func ProjectedBeyond(p, a, b Point) bool {
	ab := b.Sub(a)
	return p.Sub(a).Dot(ab) < 0 || p.Sub(b).Dot(ab) > 0
}

// LineIntersection intersects the infinite lines through a-b and c-d.
// Parallel lines report false.
func LineIntersection(a, b, c, d Point) (Point, bool) {
	ab := b.Sub(a)
	cd := d.Sub(c)
	denom := float64(ab.X)*float64(cd.Y) - float64(ab.Y)*float64(cd.X)
	if denom == 0 {
		return Point{}, false
	}
	ac := c.Sub(a)
	t := (float64(ac.X)*float64(cd.Y) - float64(ac.Y)*float64(cd.X)) / denom
	return Point{a.X + round(float64(ab.X)*t), a.Y + round(float64(ab.Y)*t)}, true
}

// SegmentsCross reports whether segments a-b and c-d intersect at a single
// point interior to both.
func SegmentsCross(a, b, c, d Point) bool {
	d1 := orientation(c, d, a)
	d2 := orientation(c, d, b)
	d3 := orientation(a, b, c)
	d4 := orientation(a, b, d)
	return d1*d2 < 0 && d3*d4 < 0
}

func orientation(a, b, p Point) int {
	ab := b.Sub(a)
	ap := p.Sub(a)
	c := float64(ab.X)*float64(ap.Y) - float64(ab.Y)*float64(ap.X)
	switch {
	case c > 0:
		return 1
	case c < 0:
		return -1
	default:
		return 0
	}
}

// Segment is a straight line between two points.
type Segment struct {
	A Point `json:"a"`
	B Point `json:"b"`
}

// Length returns the length of the segment.
func (s Segment) Length() int64 { return Dist(s.A, s.B) }

// Polyline is an open sequence of connected points.
type Polyline []Point

// Length returns the summed length of all edges.
func (pl Polyline) Length() int64 {
	var total int64
	for i := 1; i < len(pl); i++ {
		total += Dist(pl[i-1], pl[i])
	}
	return total
}

// Segments splits the polyline into its edges. Polylines with fewer than two
// points have none.
func (pl Polyline) Segments() []Segment {
	if len(pl) < 2 {
		return nil
	}
	segs := make([]Segment, 0, len(pl)-1)
	for i := 1; i < len(pl); i++ {
		segs = append(segs, Segment{A: pl[i-1], B: pl[i]})
	}
	return segs
}
