package render

import (
	"bytes"
	"fmt"
	"strings"
)

// SVG renders the scene as a standalone SVG document.
func SVG(s Scene, opts ...Option) []byte {
	o := newOptions(opts)
	v := newViewport(s, o)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n",
		v.width, v.height, v.width, v.height)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="white"/>`+"\n")

	if o.outlines && len(s.Outlines) > 0 {
		var d strings.Builder
		for _, poly := range s.Outlines {
			for i, p := range poly {
				x, y := v.px(p)
				cmd := "L"
				if i == 0 {
					cmd = "M"
				}
				fmt.Fprintf(&d, "%s%.2f %.2f ", cmd, x, y)
			}
			d.WriteString("Z ")
		}
		fmt.Fprintf(&buf, `  <path class="outline" d="%s" fill="#f4f4f4" fill-rule="evenodd" stroke="#999999" stroke-width="1"/>`+"\n",
			strings.TrimSpace(d.String()))
	}

	if len(s.Lines) > 0 {
		fmt.Fprintf(&buf, `  <g class="infill" stroke="%s" stroke-width="%.2f" stroke-linecap="round">`+"\n",
			o.lineColor, v.strokeWidth(s.LineWidth))
		for _, l := range s.Lines {
			x1, y1 := v.px(l.A)
			x2, y2 := v.px(l.B)
			fmt.Fprintf(&buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n", x1, y1, x2, y2)
		}
		buf.WriteString("  </g>\n")
	}

	if o.roots && len(s.Roots) > 0 {
		buf.WriteString(`  <g class="roots" fill="#1f77b4">` + "\n")
		for _, p := range s.Roots {
			x, y := v.px(p)
			fmt.Fprintf(&buf, `    <circle cx="%.2f" cy="%.2f" r="3"/>`+"\n", x, y)
		}
		buf.WriteString("  </g>\n")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}
