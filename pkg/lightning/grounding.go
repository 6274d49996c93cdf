package lightning

import "github.com/matzehuels/lightning/pkg/geom"

// Grounding is where an unsupported point attaches: either a point on the
// layer outline or an existing tree node. It is implemented only by
// [BoundaryGrounding] and [NodeGrounding].
type Grounding interface {
	// Location is the position the new edge starts from.
	Location() geom.Point
	grounding()
}

// BoundaryGrounding grounds a point on the outline. Attaching to it starts a
// new tree.
type BoundaryGrounding struct {
	Point geom.Point
}

// Location implements Grounding.
func (g BoundaryGrounding) Location() geom.Point { return g.Point }

func (BoundaryGrounding) grounding() {}

// NodeGrounding grounds a point on an existing tree node.
type NodeGrounding struct {
	Node *Node
}

// Location implements Grounding.
func (g NodeGrounding) Location() geom.Point { return g.Node.location }

func (NodeGrounding) grounding() {}
