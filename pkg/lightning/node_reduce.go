package lightning

import (
	"github.com/matzehuels/lightning/pkg/geom"
)

// PropagateToNextLayer copies n's subtree and fits the copy to the outline of
// the layer below. The returned roots are the surviving pieces of the copy,
// each pruned by pruneDistance and straightened by smoothMagnitude. The
// original tree is left untouched.
func (n *Node) PropagateToNextLayer(outline *Outline, pruneDistance, smoothMagnitude int64) []*Node {
	cp := n.DeepCopy()
	roots := cp.Realign(outline)
	for _, r := range roots {
		r.Prune(pruneDistance)
		r.Straighten(smoothMagnitude)
	}
	return roots
}

// Realign fits n's subtree to outline in place and returns the roots of the
// pieces that survive, n first if it is still inside.
//
// Nodes outside the outline are dropped. An inside node whose parent was
// dropped hangs from its nearest inside ancestor; when there is none, or the
// edge to it would cross the outline, it becomes a new root. Roots lifted out
// from below a dropped node remember that node's position as their last
// grounding location.
func (n *Node) Realign(outline *Outline) []*Node {
	if n.parent != nil {
		n.parent.detach(n)
	}
	var roots []*Node
	realign(n, nil, nil, outline, &roots)
	return roots
}

// realign places n below anchor, or as a new root, and recurses. lifted is
// the position of n's direct parent when that parent was dropped.
func realign(n, anchor *Node, lifted *geom.Point, outline *Outline, roots *[]*Node) {
	children := n.children
	n.children = nil
	n.parent = nil

	if !outline.Inside(n.location) {
		n.removed = true
		loc := n.location
		for _, c := range children {
			realign(c, anchor, &loc, outline, roots)
		}
		return
	}

	switch {
	case anchor == nil:
		if lifted != nil {
			loc := *lifted
			n.lastGrounding = &loc
		}
		*roots = append(*roots, n)
	case outline.Crosses(anchor.location, n.location):
		// The old grounding lies on the far side of the outline.
		n.lastGrounding = nil
		if lifted != nil {
			loc := *lifted
			n.lastGrounding = &loc
		}
		*roots = append(*roots, n)
	default:
		anchor.attach(n)
	}
	for _, c := range children {
		realign(c, n, nil, outline, roots)
	}
}

// Prune shortens the subtree by up to distance, starting at the leaves.
// Edges fully inside the budget are removed; where the budget runs out
// midway along an edge the leaf is moved inward. It returns the largest
// length removed along any branch, which is at most distance.
func (n *Node) Prune(distance int64) int64 {
	if distance <= 0 {
		return 0
	}
	var maxPruned int64
	kept := n.children[:0]
	for _, child := range n.children {
		pruned := child.Prune(distance)
		if pruned >= distance {
			maxPruned = max(maxPruned, pruned)
			kept = append(kept, child)
			continue
		}

		toParent := n.location.Sub(child.location)
		edge := toParent.Size()
		if pruned+edge <= distance {
			if len(child.children) != 0 {
				panic("lightning: pruned a node that still has children")
			}
			maxPruned = max(maxPruned, pruned+edge)
			child.drop()
			continue
		}

		child.location = child.location.Add(toParent.Normal(distance - pruned))
		maxPruned = distance
		kept = append(kept, child)
	}
	clear(n.children[len(kept):])
	n.children = kept
	return maxPruned
}

// Straighten pulls chains of single-child nodes toward the straight line
// between the junctions (or leaves) that bound them. No node moves further
// than magnitude; a node that would have to is pinned and splits the chain.
// Topology is unchanged.
func (n *Node) Straighten(magnitude int64) {
	if magnitude <= 0 {
		return
	}
	for _, c := range n.children {
		chain := []*Node{n, c}
		end := c
		for len(end.children) == 1 {
			end = end.children[0]
			chain = append(chain, end)
		}
		straightenChain(chain, magnitude)
		end.Straighten(magnitude)
	}
}

// straightenChain moves the interior nodes of chain sideways onto the segment
// between its ends.
func straightenChain(chain []*Node, magnitude int64) {
	if len(chain) < 3 {
		return
	}
	last := len(chain) - 1
	start, end := chain[0].location, chain[last].location
	if start == end {
		return
	}

	targets := make([]geom.Point, len(chain))
	worst, worstIdx := int64(-1), 0
	for i := 1; i < last; i++ {
		targets[i] = geom.ClosestOnSegment(chain[i].location, start, end)
		if d := geom.Dist(chain[i].location, targets[i]); d > worst {
			worst, worstIdx = d, i
		}
	}

	if worst > magnitude {
		straightenChain(chain[:worstIdx+1], magnitude)
		straightenChain(chain[worstIdx:], magnitude)
		return
	}
	for i := 1; i < last; i++ {
		chain[i].location = targets[i]
	}
}
