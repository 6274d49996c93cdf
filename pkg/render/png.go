package render

import (
	"bytes"
	"fmt"

	"github.com/fogleman/gg"
)

// PNG rasterizes the scene.
func PNG(s Scene, opts ...Option) ([]byte, error) {
	o := newOptions(opts)
	v := newViewport(s, o)

	dc := gg.NewContext(int(v.width), int(v.height))
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	if o.outlines && len(s.Outlines) > 0 {
		for _, poly := range s.Outlines {
			for i, p := range poly {
				x, y := v.px(p)
				if i == 0 {
					dc.MoveTo(x, y)
				} else {
					dc.LineTo(x, y)
				}
			}
			dc.ClosePath()
		}
		dc.SetFillRuleEvenOdd()
		dc.SetHexColor("#f4f4f4")
		dc.FillPreserve()
		dc.SetHexColor("#999999")
		dc.SetLineWidth(1)
		dc.Stroke()
	}

	dc.SetHexColor(o.lineColor)
	dc.SetLineWidth(v.strokeWidth(s.LineWidth))
	dc.SetLineCapRound()
	for _, l := range s.Lines {
		x1, y1 := v.px(l.A)
		x2, y2 := v.px(l.B)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	}

	if o.roots {
		dc.SetHexColor("#1f77b4")
		for _, p := range s.Roots {
			x, y := v.px(p)
			dc.DrawCircle(x, y, 3)
			dc.Fill()
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
