package render

import (
	"math"

	"github.com/matzehuels/lightning/pkg/geom"
)

const (
	defaultScale  = 10.0 // pixels per millimetre
	defaultMargin = 10.0 // pixels
	maxImageSide  = 4096 // pixels
)

// Scene is the content of one layer preview.
type Scene struct {
	Outlines geom.Polygons
	Lines    []geom.Segment
	Roots    []geom.Point
	// LineWidth is the printed width of Lines in micrometres. Zero draws
	// hairlines.
	LineWidth int64
}

// Option configures rendering.
type Option func(*options)

type options struct {
	scale     float64
	margin    float64
	roots     bool
	outlines  bool
	lineColor string
}

// WithScale sets the resolution in pixels per millimetre.
func WithScale(pxPerMM float64) Option { return func(o *options) { o.scale = pxPerMM } }

// WithMargin sets the blank border around the drawing in pixels.
func WithMargin(px float64) Option { return func(o *options) { o.margin = px } }

// WithRoots marks tree roots with dots.
func WithRoots() Option { return func(o *options) { o.roots = true } }

// WithoutOutlines omits the layer outlines.
func WithoutOutlines() Option { return func(o *options) { o.outlines = false } }

// WithLineColor sets the infill colour as a hex string such as "#d62728".
func WithLineColor(hex string) Option { return func(o *options) { o.lineColor = hex } }

func newOptions(opts []Option) options {
	o := options{scale: defaultScale, margin: defaultMargin, outlines: true, lineColor: "#d62728"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.scale <= 0 {
		o.scale = defaultScale
	}
	if o.margin < 0 {
		o.margin = 0
	}
	return o
}

// viewport maps micrometre coordinates to pixels.
type viewport struct {
	min, max      geom.Point
	scale         float64 // pixels per micrometre
	margin        float64
	width, height float64
}

func newViewport(s Scene, o options) viewport {
	box := s.Outlines.Bounds()
	for _, l := range s.Lines {
		box = box.Include(l.A).Include(l.B)
	}
	for _, p := range s.Roots {
		box = box.Include(p)
	}
	if box.Empty() {
		box = geom.EmptyBox().Include(geom.Point{})
	}

	v := viewport{min: box.Min, max: box.Max, margin: o.margin, scale: o.scale / 1000}
	size := box.Size()
	if longest := float64(max(size.X, size.Y)); longest*v.scale > maxImageSide {
		v.scale = maxImageSide / longest
	}
	v.width = math.Ceil(float64(size.X)*v.scale + 2*o.margin)
	v.height = math.Ceil(float64(size.Y)*v.scale + 2*o.margin)
	return v
}

// px returns the pixel position of p, with y pointing down.
func (v viewport) px(p geom.Point) (x, y float64) {
	x = float64(p.X-v.min.X)*v.scale + v.margin
	y = float64(v.max.Y-p.Y)*v.scale + v.margin
	return x, y
}

// strokeWidth returns the pixel width of a printed line, at least one pixel.
func (v viewport) strokeWidth(um int64) float64 {
	return max(float64(um)*v.scale, 1)
}
