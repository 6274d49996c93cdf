package kernel

import (
	"math"
	"testing"

	"github.com/matzehuels/lightning/pkg/geom"
)

func TestExact(t *testing.T) {
	b, err := NewExact(geom.Polygons{geom.Rect(0, 0, 1000, 1000)})
	if err != nil {
		t.Fatalf("NewExact: %v", err)
	}

	tests := []struct {
		name     string
		p        geom.Point
		inside   bool
		distance int64
	}{
		{"Center", geom.Pt(500, 500), true, 500},
		{"NearWall", geom.Pt(100, 400), true, 100},
		{"OnBorder", geom.Pt(0, 300), true, 0},
		{"Outside", geom.Pt(1300, 500), false, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.Inside(tt.p); got != tt.inside {
				t.Errorf("Inside = %v, want %v", got, tt.inside)
			}
			if got := b.Distance(tt.p); got != tt.distance {
				t.Errorf("Distance = %d, want %d", got, tt.distance)
			}
		})
	}
}

func TestExactEmpty(t *testing.T) {
	b, _ := NewExact(nil)
	if b.Inside(geom.Pt(0, 0)) {
		t.Error("empty outline should contain nothing")
	}
	if got := b.Distance(geom.Pt(0, 0)); got != math.MaxInt64 {
		t.Errorf("Distance = %d, want MaxInt64", got)
	}
}

func TestInset(t *testing.T) {
	outline := geom.Polygons{geom.Rect(0, 0, 1000, 1000)}
	b, _ := NewExact(outline)
	in := Inset{Region: outline, Boundary: b, Distance: 200}

	if !in.Contains(geom.Pt(500, 500)) {
		t.Error("center should be inside inset")
	}
	if in.Contains(geom.Pt(100, 500)) {
		t.Error("point 100 from wall should be outside a 200 inset")
	}
	if in.Bounds() != outline.Bounds() {
		t.Error("inset bounds should match the region bounds")
	}
}
