package lightning

import "github.com/matzehuels/lightning/pkg/geom"

type cellKey struct{ x, y int64 }

func cellOf(p geom.Point, size int64) cellKey {
	return cellKey{floorDiv(p.X, size), floorDiv(p.Y, size)}
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// NodeGrid is a uniform-grid spatial index over tree nodes.
//
// The grid holds plain references; it never owns nodes and is not a source of
// topology. Nodes that were cut from their tree after insertion are skipped
// by queries. Nodes are bucketed by the position they had when inserted, so
// the grid must be rebuilt after nodes move.
type NodeGrid struct {
	cellSize int64
	cells    map[cellKey][]*Node
	count    int
}

// NewNodeGrid returns an empty grid with square cells of the given size.
func NewNodeGrid(cellSize int64) *NodeGrid {
	if cellSize <= 0 {
		panic("lightning: grid cell size must be positive")
	}
	return &NodeGrid{cellSize: cellSize, cells: make(map[cellKey][]*Node)}
}

// Insert adds n at its current location.
func (g *NodeGrid) Insert(n *Node) {
	k := cellOf(n.location, g.cellSize)
	g.cells[k] = append(g.cells[k], n)
	g.count++
}

// InsertTree adds every node of root's subtree.
func (g *NodeGrid) InsertTree(root *Node) {
	root.VisitNodes(g.Insert)
}

// Len returns the number of insertions made.
func (g *NodeGrid) Len() int { return g.count }

// Nearby returns the live nodes within radius of p, border included. The
// order is deterministic: cells row by row, then insertion order.
func (g *NodeGrid) Nearby(p geom.Point, radius int64) []*Node {
	if radius < 0 {
		return nil
	}
	lo := cellOf(geom.Pt(p.X-radius, p.Y-radius), g.cellSize)
	hi := cellOf(geom.Pt(p.X+radius, p.Y+radius), g.cellSize)
	r2 := radius * radius

	var out []*Node
	for y := lo.y; y <= hi.y; y++ {
		for x := lo.x; x <= hi.x; x++ {
			for _, n := range g.cells[cellKey{x, y}] {
				if n.removed {
					continue
				}
				if n.location.Sub(p).Size2() <= r2 {
					out = append(out, n)
				}
			}
		}
	}
	return out
}
