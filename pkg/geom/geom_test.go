package geom

import "testing"

func TestPointOps(t *testing.T) {
	p := Pt(3, 4)
	if got := p.Size(); got != 5 {
		t.Errorf("Size = %d, want 5", got)
	}
	if got := p.Normal(10); got != Pt(6, 8) {
		t.Errorf("Normal(10) = %v, want (6, 8)", got)
	}
	if got := p.Mul(1, 2); got != Pt(2, 2) {
		t.Errorf("Mul(1, 2) = %v, want (2, 2)", got)
	}
	if got := (Point{}).Normal(10); got != (Point{}) {
		t.Errorf("zero Normal = %v, want zero", got)
	}
}

func TestInside(t *testing.T) {
	square := Polygons{Rect(0, 0, 100, 100)}
	withHole := Polygons{Rect(0, 0, 100, 100), Rect(40, 40, 60, 60)}

	tests := []struct {
		name   string
		polys  Polygons
		p      Point
		border bool
		want   bool
	}{
		{"Center", square, Pt(50, 50), false, true},
		{"Outside", square, Pt(150, 50), false, false},
		{"BorderTrue", square, Pt(0, 50), true, true},
		{"BorderFalse", square, Pt(100, 50), false, false},
		{"Corner", square, Pt(100, 100), true, true},
		{"InHole", withHole, Pt(50, 50), false, false},
		{"AroundHole", withHole, Pt(20, 50), false, true},
		{"Empty", nil, Pt(0, 0), true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.polys.Inside(tt.p, tt.border); got != tt.want {
				t.Errorf("Inside(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestClosestPoint(t *testing.T) {
	square := Polygons{Rect(0, 0, 100, 100)}

	tests := []struct {
		name string
		p    Point
		want Point
	}{
		{"NearLeft", Pt(10, 50), Pt(0, 50)},
		{"NearTop", Pt(50, 95), Pt(50, 100)},
		{"OutsideCorner", Pt(120, 130), Pt(100, 100)},
		{"OnEdge", Pt(100, 30), Pt(100, 30)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cp, ok := square.ClosestPoint(tt.p)
			if !ok {
				t.Fatal("ClosestPoint reported no edges")
			}
			if cp.Location != tt.want {
				t.Errorf("ClosestPoint(%v) = %v, want %v", tt.p, cp.Location, tt.want)
			}
		})
	}

	if _, ok := Polygons(nil).ClosestPoint(Pt(0, 0)); ok {
		t.Error("empty set should report no closest point")
	}
}

func TestSegments(t *testing.T) {
	if !SegmentsCross(Pt(0, 0), Pt(10, 10), Pt(0, 10), Pt(10, 0)) {
		t.Error("diagonals should cross")
	}
	if SegmentsCross(Pt(0, 0), Pt(5, 5), Pt(5, 5), Pt(10, 0)) {
		t.Error("touching endpoints are not a crossing")
	}
	if SegmentsCross(Pt(0, 0), Pt(10, 0), Pt(0, 1), Pt(10, 1)) {
		t.Error("parallel segments do not cross")
	}

	p, ok := LineIntersection(Pt(0, 0), Pt(10, 0), Pt(5, -5), Pt(5, 5))
	if !ok || p != Pt(5, 0) {
		t.Errorf("LineIntersection = %v, %v; want (5, 0), true", p, ok)
	}
	if _, ok := LineIntersection(Pt(0, 0), Pt(10, 0), Pt(0, 5), Pt(10, 5)); ok {
		t.Error("parallel lines should not intersect")
	}

	if !ProjectedBeyond(Pt(-1, 3), Pt(0, 0), Pt(10, 0)) {
		t.Error("point left of segment start should project beyond")
	}
	if ProjectedBeyond(Pt(4, 3), Pt(0, 0), Pt(10, 0)) {
		t.Error("point above segment should project onto it")
	}
}

func TestCrosses(t *testing.T) {
	// U-shaped outline: a segment across the notch leaves the shape.
	u := Polygons{{
		{0, 0}, {300, 0}, {300, 300}, {200, 300},
		{200, 100}, {100, 100}, {100, 300}, {0, 300},
	}}
	if !u.Crosses(Pt(50, 200), Pt(250, 200)) {
		t.Error("segment across notch should cross the outline")
	}
	if u.Crosses(Pt(50, 50), Pt(250, 50)) {
		t.Error("segment below notch should stay inside")
	}
}

func TestSpreadDots(t *testing.T) {
	outer := Polygons{Rect(0, 0, 100, 100)}
	dots := SpreadDots(outer, 10)
	if len(dots) != 100 {
		t.Fatalf("got %d dots, want 100", len(dots))
	}

	diff := Difference{Keep: outer, Remove: Polygons{Rect(0, 0, 50, 100)}}
	half := SpreadDots(diff, 10)
	if len(half) != 50 {
		t.Errorf("got %d dots in difference, want 50", len(half))
	}
	for _, p := range half {
		if p.X < 50 {
			t.Errorf("dot %v should have been removed", p)
		}
	}

	if SpreadDots(outer, 0) != nil {
		t.Error("zero spacing should yield no dots")
	}
}

func TestBox(t *testing.T) {
	b := EmptyBox()
	if !b.Empty() {
		t.Fatal("EmptyBox should be empty")
	}
	b = b.Include(Pt(5, -2)).Include(Pt(-1, 7))
	if b.Min != Pt(-1, -2) || b.Max != Pt(5, 7) {
		t.Errorf("box = %+v", b)
	}
	if !b.Contains(Pt(0, 0)) || b.Contains(Pt(6, 0)) {
		t.Error("Contains mismatch")
	}
	if got := b.Size(); got != Pt(6, 9) {
		t.Errorf("Size = %v, want (6, 9)", got)
	}
}
