// Package lightning grows sparse, tree-shaped infill ("lightning infill")
// inside the interior of each slice of a printable object.
//
// # Overview
//
// Every layer owns a forest of support trees. A tree's root touches the
// layer outline; its branches reach into the interior so that every point of
// the area that needs support (the overhang under a top skin) lies within the
// supporting radius of some printed line. Layers are processed top-down: the
// trees of a layer are copied to the layer below, trimmed, straightened and
// reconnected to the new outline, so infill density grows gracefully toward
// the bottom of the object.
//
// # Components
//
//   - [Node]: one vertex of a tree; owns its children, keeps a non-owning
//     parent pointer, and implements prune, straighten, propagation and
//     polyline conversion per subtree.
//   - [NodeGrid]: uniform-grid spatial index over node positions. Rebuilt per
//     operation; never the source of truth for topology.
//   - [DistanceField]: the unsupported sample points of a layer. Exhaustion
//     ends the growth loop.
//   - [Grounding]: where a new support point attaches, either a
//     [BoundaryGrounding] or a [NodeGrounding].
//   - [Layer]: the forest of one layer; drives growth, reconnection and
//     conversion to line segments.
//   - [Generator]: runs the layer-by-layer process over a whole stack.
//
// # Usage
//
//	outline, _ := lightning.NewOutline(polys, kernel.NewExact)
//	var layer lightning.Layer
//	layer.GenerateNewTrees(polys, outline, 2000)
//	segments := layer.ConvertToLines(400)
//
// # Concurrency
//
// Growth and reconnection are strictly sequential: every step depends on the
// field and index state left by the previous one. A Layer, its field and its
// index are not safe for concurrent use. Distinct layers share no state and
// may be processed in parallel by the caller.
//
// # Invariants
//
// The parent/children graph is always a forest. Operations that could
// introduce a cycle ([Node.AddChildNode] with a descendant) are programming
// errors and panic rather than corrupt topology for later layers.
package lightning
