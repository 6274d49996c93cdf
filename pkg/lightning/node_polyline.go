package lightning

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/matzehuels/lightning/pkg/geom"
)

// ConvertToPolylines flattens n's subtree into printable polylines.
//
// At each junction one child, picked by a stable hash of the junction
// position, continues the current line; the other children start lines of
// their own that end at the junction. The first line returned is the one
// ending at n. Every other line is shortened by lineWidth/2 at its junction
// end so that lines meeting there do not print the junction twice. Lines
// reduced to a single point are dropped.
func (n *Node) ConvertToPolylines(lineWidth int64) []geom.Polyline {
	var branches []geom.Polyline
	main := n.collectPolylines(&branches)

	lines := make([]geom.Polyline, 0, len(branches)+1)
	if len(main) > 1 {
		lines = append(lines, main)
	}
	for _, line := range branches {
		line = trimEnd(line, lineWidth/2)
		if len(line) > 1 {
			lines = append(lines, line)
		}
	}
	return lines
}

// collectPolylines returns the line from a leaf up to n along the chosen
// branch. Lines of the other branches are appended to out.
func (n *Node) collectPolylines(out *[]geom.Polyline) geom.Polyline {
	if len(n.children) == 0 {
		return geom.Polyline{n.location}
	}
	pick := int(hashPoint(n.location) % uint64(len(n.children)))
	var main geom.Polyline
	for i, c := range n.children {
		line := append(c.collectPolylines(out), n.location)
		if i == pick {
			main = line
		} else {
			*out = append(*out, line)
		}
	}
	return main
}

// trimEnd removes length d from the end of pl, walking back over as many
// edges as needed.
func trimEnd(pl geom.Polyline, d int64) geom.Polyline {
	for d > 0 && len(pl) >= 2 {
		last := len(pl) - 1
		back := pl[last-1].Sub(pl[last])
		edge := back.Size()
		if edge > d {
			pl[last] = pl[last].Add(back.Normal(d))
			break
		}
		d -= edge
		pl = pl[:last]
	}
	return pl
}

// hashPoint is a stable, platform independent hash of a location.
func hashPoint(p geom.Point) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(p.X))
	binary.LittleEndian.PutUint64(buf[8:], uint64(p.Y))
	return xxhash.Sum64(buf[:])
}
