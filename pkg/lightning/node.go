package lightning

import (
	"fmt"

	"github.com/matzehuels/lightning/pkg/geom"
)

// maxValenceForBoost is the valence from which a node no longer gets a
// discount as a grounding candidate. Junctions that already fan out widely
// should not attract even more branches.
const maxValenceForBoost = 4

// Node is a single vertex of a lightning tree.
//
// A node exclusively owns its children. The parent pointer is a
// back-reference only; it is nil for roots. The zero value is not usable,
// create trees with [NewRoot] and [Node.AddChild].
type Node struct {
	location geom.Point
	parent   *Node
	children []*Node

	// lastGrounding is where this node was grounded when it first hung
	// directly below a root, or where its parent was before it got lifted
	// out of a tree by realignment.
	lastGrounding *geom.Point

	// removed marks nodes cut from their tree; index entries that still
	// point at them are stale.
	removed bool
}

// NewRoot creates a tree consisting of a single root node at p.
func NewRoot(p geom.Point) *Node {
	return &Node{location: p}
}

// Location returns the position this node represents.
func (n *Node) Location() geom.Point { return n.location }

// SetLocation moves the node.
func (n *Node) SetLocation(p geom.Point) { n.location = p }

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the owned children in insertion order. The slice must
// not be modified.
func (n *Node) Children() []*Node { return n.children }

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool { return n.parent == nil }

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.children) == 0 }

// Removed reports whether the node has been cut from its tree.
func (n *Node) Removed() bool { return n.removed }

// LastGroundingLocation returns the boundary point this node was previously
// grounded to, if any.
func (n *Node) LastGroundingLocation() (geom.Point, bool) {
	if n.lastGrounding == nil {
		return geom.Point{}, false
	}
	return *n.lastGrounding, true
}

// AddChild creates a child at p and returns it. The first child of a root
// records the root position as its last grounding location.
func (n *Node) AddChild(p geom.Point) *Node {
	child := &Node{location: p}
	if n.IsRoot() && len(n.children) == 0 {
		loc := n.location
		child.lastGrounding = &loc
	}
	n.attach(child)
	return child
}

// AddChildNode re-parents an existing node, with its whole subtree, below n
// and returns it. Adding n itself or one of n's ancestors would create a
// cycle and panics.
func (n *Node) AddChildNode(child *Node) *Node {
	if child == n {
		panic("lightning: cannot add a node as its own child")
	}
	if child.HasOffspring(n) {
		panic(fmt.Sprintf("lightning: adding node at %v below %v would create a cycle", child.location, n.location))
	}
	if child.parent != nil {
		child.parent.detach(child)
	}
	n.attach(child)
	return child
}

func (n *Node) attach(child *Node) {
	child.parent = n
	child.removed = false
	n.children = append(n.children, child)
}

// detach removes child from n's children without marking it removed.
func (n *Node) detach(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i:i], n.children[i+1:]...)
			break
		}
	}
	child.parent = nil
}

// drop unlinks the node from its parent and marks it removed.
func (n *Node) drop() {
	n.parent = nil
	n.removed = true
}

// HasOffspring reports whether candidate is n itself or lies in n's subtree.
func (n *Node) HasOffspring(candidate *Node) bool {
	for c := candidate; c != nil; c = c.parent {
		if c == n {
			return true
		}
	}
	return false
}

// WeightedDistance returns the distance from n to p, discounted for nodes
// that are already part of a line. The discount never exceeds
// supportingRadius and does not depend on p, so the result is monotonic in
// the raw distance.
func (n *Node) WeightedDistance(p geom.Point, supportingRadius int64) int64 {
	valence := int64(len(n.children))
	if n.parent != nil {
		valence++
	}
	var boost int64
	if valence > 0 && valence < maxValenceForBoost {
		boost = min(valence*supportingRadius/2, supportingRadius)
	}
	return geom.Dist(n.location, p) - boost
}

// VisitBranches calls visitor for every edge in n's subtree, parent position
// first, depth-first. The edge from n's own parent is not included.
func (n *Node) VisitBranches(visitor func(parent, child geom.Point)) {
	for _, c := range n.children {
		visitor(n.location, c.location)
		c.VisitBranches(visitor)
	}
}

// VisitNodes calls visitor for n and every node below it, pre-order.
// The visitor may modify the node it is given.
func (n *Node) VisitNodes(visitor func(*Node)) {
	visitor(n)
	for _, c := range n.children {
		c.VisitNodes(visitor)
	}
}

// DeepCopy returns a copy of n's subtree. The copy is a root.
func (n *Node) DeepCopy() *Node {
	cp := &Node{location: n.location}
	if n.lastGrounding != nil {
		loc := *n.lastGrounding
		cp.lastGrounding = &loc
	}
	if len(n.children) > 0 {
		cp.children = make([]*Node, 0, len(n.children))
		for _, c := range n.children {
			cc := c.DeepCopy()
			cc.parent = cp
			cp.children = append(cp.children, cc)
		}
	}
	return cp
}

// Size returns the number of nodes in n's subtree.
func (n *Node) Size() int {
	count := 0
	n.VisitNodes(func(*Node) { count++ })
	return count
}

// Length returns the summed edge length of n's subtree.
func (n *Node) Length() int64 {
	var total int64
	n.VisitBranches(func(a, b geom.Point) { total += geom.Dist(a, b) })
	return total
}
