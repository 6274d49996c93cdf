package lightning

import (
	"cmp"
	"slices"

	"github.com/matzehuels/lightning/pkg/geom"
	"github.com/matzehuels/lightning/pkg/kernel"
)

// fieldDistanceBucket groups samples whose distance to the outline differs by
// less than this, so that the visiting order inside a band is decided by the
// position hash instead of by rounding noise.
const fieldDistanceBucket = 200

type fieldSample struct {
	loc     geom.Point
	dist    int64 // distance to the outline
	hash    uint64
	removed bool
}

// DistanceField tracks the points of a layer's overhang that no line supports
// yet.
//
// The overhang is sampled on a grid with a sixth of the supporting radius as
// spacing. Samples are visited nearest-to-outline first, so trees grow inward
// from the walls. Each attachment removes every sample within the supporting
// radius of the new edge.
type DistanceField struct {
	supportingRadius int64
	cellSize         int64

	samples   []fieldSample
	cells     map[cellKey][]int
	cursor    int
	remaining int
}

// NewDistanceField samples overhang and measures each sample's distance to
// boundary. A supporting radius too small to sample yields an exhausted
// field.
func NewDistanceField(overhang geom.Region, boundary kernel.Boundary, supportingRadius int64) *DistanceField {
	f := &DistanceField{
		supportingRadius: supportingRadius,
		cellSize:         supportingRadius / 6,
		cells:            make(map[cellKey][]int),
	}
	if f.cellSize <= 0 || overhang == nil {
		return f
	}

	dots := geom.SpreadDots(overhang, f.cellSize)
	f.samples = make([]fieldSample, len(dots))
	for i, p := range dots {
		f.samples[i] = fieldSample{loc: p, dist: boundary.Distance(p), hash: hashPoint(p)}
	}
	slices.SortFunc(f.samples, func(a, b fieldSample) int {
		return cmp.Or(
			cmp.Compare(a.dist/fieldDistanceBucket, b.dist/fieldDistanceBucket),
			cmp.Compare(a.hash, b.hash),
			cmp.Compare(a.loc.X, b.loc.X),
			cmp.Compare(a.loc.Y, b.loc.Y),
		)
	})
	for i, s := range f.samples {
		k := cellOf(s.loc, f.cellSize)
		f.cells[k] = append(f.cells[k], i)
	}
	f.remaining = len(f.samples)
	return f
}

// Next returns the unsupported point to attach next. It reports false once
// the field is exhausted. Calling Next again without an Update returns the
// same point.
func (f *DistanceField) Next() (geom.Point, bool) {
	for f.cursor < len(f.samples) && f.samples[f.cursor].removed {
		f.cursor++
	}
	if f.cursor == len(f.samples) {
		return geom.Point{}, false
	}
	return f.samples[f.cursor].loc, true
}

// Update marks everything within the supporting radius of the segment from
// grounding to leaf as supported. The leaf itself is always covered.
func (f *DistanceField) Update(grounding, leaf geom.Point) {
	if len(f.samples) == 0 {
		return
	}
	r := f.supportingRadius
	box := geom.EmptyBox().Include(grounding).Include(leaf)
	lo := cellOf(box.Min.Sub(geom.Pt(r, r)), f.cellSize)
	hi := cellOf(box.Max.Add(geom.Pt(r, r)), f.cellSize)

	for y := lo.y; y <= hi.y; y++ {
		for x := lo.x; x <= hi.x; x++ {
			for _, i := range f.cells[cellKey{x, y}] {
				s := &f.samples[i]
				if s.removed {
					continue
				}
				closest := geom.ClosestOnSegment(s.loc, grounding, leaf)
				if s.loc != leaf && s.loc.Sub(closest).Size2() > r*r {
					continue
				}
				s.removed = true
				f.remaining--
			}
		}
	}
}

// Remaining returns the number of unsupported samples.
func (f *DistanceField) Remaining() int { return f.remaining }

// Exhausted reports whether every sample is supported.
func (f *DistanceField) Exhausted() bool { return f.remaining == 0 }
