package lightning

import (
	"slices"

	"github.com/matzehuels/lightning/pkg/geom"
)

const (
	// locatorCellSize is the cell size of the node grid built per operation.
	locatorCellSize = 2000

	// minDistFromBoundaryForTree is the distance to the outline below which a
	// new point is grounded on the outline without looking at nearby trees.
	minDistFromBoundaryForTree = 10

	// treeConnectingIgnoreOffset reduces the wall supporting radius to get
	// the distance below which reconnecting roots ignore other trees.
	treeConnectingIgnoreOffset = 100
)

// Layer is the forest of lightning trees of one layer.
//
// The zero value is an empty layer ready for use. A Layer is not safe for
// concurrent use.
type Layer struct {
	Roots []*Node
}

// GenerateNewTrees grows trees until every point of overhang lies within
// supportingRadius of a tree or of the outline. Existing trees are offered
// as grounding candidates. It returns the number of points attached.
func (l *Layer) GenerateNewTrees(overhang geom.Region, outline *Outline, supportingRadius int64) int {
	if outline.Empty() {
		return 0
	}
	field := NewDistanceField(overhang, outline.Boundary, supportingRadius)
	grid := l.fillLocator()

	attached := 0
	for {
		p, ok := field.Next()
		if !ok {
			break
		}
		g := l.bestGroundingLocation(p, outline, supportingRadius, minDistFromBoundaryForTree, grid, nil)
		child, root := l.attach(p, g)
		grid.Insert(child)
		if root != nil {
			grid.Insert(root)
		}
		field.Update(g.Location(), p)
		attached++
	}
	return attached
}

// bestGroundingLocation picks where p should attach. The outline projection
// is the default; nearby nodes compete on weighted distance once p is at
// least threshold away from the outline. exclude, when set, is a root being
// reconnected; nodes in its subtree are never returned.
func (l *Layer) bestGroundingLocation(p geom.Point, outline *Outline, supportingRadius, threshold int64, grid *NodeGrid, exclude *Node) Grounding {
	boundary, ok := outline.Project(p)
	if !ok {
		return BoundaryGrounding{Point: p}
	}

	best := Grounding(BoundaryGrounding{Point: boundary})
	bestDist := geom.Dist(boundary, p)
	if bestDist < threshold {
		return best
	}

	for _, c := range grid.Nearby(p, min(bestDist, supportingRadius)) {
		if exclude != nil && (exclude.HasOffspring(c) || c.HasOffspring(exclude)) {
			continue
		}
		if outline.Crosses(c.location, p) {
			continue
		}
		if d := c.WeightedDistance(p, supportingRadius); d < bestDist {
			bestDist = d
			best = NodeGrounding{Node: c}
		}
	}
	return best
}

// attach adds p to the forest at g. It returns the new node and, for a
// boundary grounding, the new root.
func (l *Layer) attach(p geom.Point, g Grounding) (child, root *Node) {
	switch g := g.(type) {
	case BoundaryGrounding:
		root = NewRoot(g.Point)
		child = root.AddChild(p)
		l.Roots = append(l.Roots, root)
		return child, root
	case NodeGrounding:
		return g.Node.AddChild(p), nil
	default:
		panic("lightning: unknown grounding")
	}
}

// ReconnectRoots grounds the given roots again after their trees were
// propagated onto this layer. Each root either already sits on the outline,
// gets a new root on the outline, or is grafted onto a nearby tree.
func (l *Layer) ReconnectRoots(toReconnect []*Node, outline *Outline, supportingRadius, wallSupportingRadius int64) {
	if outline.Empty() {
		return
	}
	grid := l.fillLocator()
	ignoreWidth := wallSupportingRadius - treeConnectingIgnoreOffset

	for _, root := range toReconnect {
		idx := slices.Index(l.Roots, root)
		if idx < 0 || !root.IsRoot() {
			continue
		}

		g := l.bestGroundingLocation(root.location, outline, supportingRadius, ignoreWidth, grid, root)
		switch g := g.(type) {
		case BoundaryGrounding:
			if g.Point == root.location {
				continue
			}
			at := g.Point
			if last, ok := root.LastGroundingLocation(); ok {
				if hit := rootPolygonIntersection(root.location, last, outline.Polygons); hit != root.location {
					at = hit
				}
			}
			newRoot := NewRoot(at)
			newRoot.AddChildNode(root)
			grid.Insert(newRoot)
			l.Roots[idx] = newRoot
		case NodeGrounding:
			g.Node.AddChildNode(root)
			l.Roots = slices.Delete(l.Roots, idx, idx+1)
		}
	}
}

// PropagateTo copies every tree of l onto below, fitted to the outline of
// the layer below. It returns the roots added to below, which are the ones
// that need reconnecting there.
func (l *Layer) PropagateTo(below *Layer, outline *Outline, pruneDistance, smoothMagnitude int64) []*Node {
	var added []*Node
	for _, root := range l.Roots {
		added = append(added, root.PropagateToNextLayer(outline, pruneDistance, smoothMagnitude)...)
	}
	below.Roots = append(below.Roots, added...)
	return added
}

// ConvertToLines flattens the forest into two-point segments.
func (l *Layer) ConvertToLines(lineWidth int64) []geom.Segment {
	var segs []geom.Segment
	for _, line := range l.Polylines(lineWidth) {
		segs = append(segs, line.Segments()...)
	}
	return segs
}

// Polylines flattens the forest into polylines.
func (l *Layer) Polylines(lineWidth int64) []geom.Polyline {
	var lines []geom.Polyline
	for _, root := range l.Roots {
		lines = append(lines, root.ConvertToPolylines(lineWidth)...)
	}
	return lines
}

// fillLocator indexes every node of the forest.
func (l *Layer) fillLocator() *NodeGrid {
	grid := NewNodeGrid(locatorCellSize)
	for _, root := range l.Roots {
		grid.InsertTree(root)
	}
	return grid
}

// NodeCount returns the number of nodes in the forest.
func (l *Layer) NodeCount() int {
	count := 0
	for _, root := range l.Roots {
		count += root.Size()
	}
	return count
}

// TotalLength returns the summed edge length of the forest.
func (l *Layer) TotalLength() int64 {
	var total int64
	for _, root := range l.Roots {
		total += root.Length()
	}
	return total
}
