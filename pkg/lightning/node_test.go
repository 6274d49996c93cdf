package lightning

import (
	"testing"

	"github.com/matzehuels/lightning/pkg/geom"
)

func mustPanic(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	fn()
}

func TestAddChildLastGrounding(t *testing.T) {
	root := NewRoot(geom.Pt(0, 0))
	first := root.AddChild(geom.Pt(100, 0))
	second := root.AddChild(geom.Pt(0, 100))
	grandchild := first.AddChild(geom.Pt(200, 0))

	if loc, ok := first.LastGroundingLocation(); !ok || loc != root.Location() {
		t.Errorf("first child grounding = %v, %v; want %v, true", loc, ok, root.Location())
	}
	if _, ok := second.LastGroundingLocation(); ok {
		t.Error("second child of a root should not record a grounding")
	}
	if _, ok := grandchild.LastGroundingLocation(); ok {
		t.Error("grandchild should not record a grounding")
	}
	if first.Parent() != root || !root.IsRoot() || first.IsRoot() {
		t.Error("parent links not set")
	}
	if got := len(root.Children()); got != 2 {
		t.Errorf("root has %d children, want 2", got)
	}
}

func TestHasOffspring(t *testing.T) {
	root := NewRoot(geom.Pt(0, 0))
	a := root.AddChild(geom.Pt(10, 0))
	b := a.AddChild(geom.Pt(20, 0))
	c := root.AddChild(geom.Pt(0, 10))
	other := NewRoot(geom.Pt(50, 50))

	tests := []struct {
		name string
		node *Node
		cand *Node
		want bool
	}{
		{"Self", a, a, true},
		{"Child", root, a, true},
		{"Grandchild", root, b, true},
		{"Ancestor", b, root, false},
		{"Sibling", a, c, false},
		{"OtherTree", root, other, false},
		{"Nil", root, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.HasOffspring(tt.cand); got != tt.want {
				t.Errorf("HasOffspring = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAddChildNode(t *testing.T) {
	root := NewRoot(geom.Pt(0, 0))
	a := root.AddChild(geom.Pt(10, 0))
	b := a.AddChild(geom.Pt(20, 0))
	other := NewRoot(geom.Pt(100, 100))

	other.AddChildNode(a)
	if a.Parent() != other {
		t.Error("a should hang below other")
	}
	if len(root.Children()) != 0 {
		t.Error("a should be detached from its old parent")
	}
	if !other.HasOffspring(b) {
		t.Error("subtree should move along")
	}

	t.Run("Self", func(t *testing.T) {
		mustPanic(t, func() { a.AddChildNode(a) })
	})
	t.Run("Ancestor", func(t *testing.T) {
		mustPanic(t, func() { b.AddChildNode(other) })
	})
}

func TestWeightedDistance(t *testing.T) {
	const r = 1000
	p := geom.Pt(3000, 0)

	lone := NewRoot(geom.Pt(0, 0))

	leafRoot := NewRoot(geom.Pt(-10, 0))
	leaf := leafRoot.AddChild(geom.Pt(0, 0))

	junction := leafRoot.AddChild(geom.Pt(0, 0))
	junction.AddChild(geom.Pt(0, 10))
	junction.AddChild(geom.Pt(0, 20))

	busy := NewRoot(geom.Pt(0, 0))
	for i := range 4 {
		busy.AddChild(geom.Pt(0, int64(i+1)*10))
	}

	tests := []struct {
		name string
		node *Node
		want int64
	}{
		{"Lone", lone, 3000},
		{"Leaf", leaf, 2500},
		{"Junction", junction, 2000},
		{"Saturated", busy, 3000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.WeightedDistance(p, r); got != tt.want {
				t.Errorf("WeightedDistance = %d, want %d", got, tt.want)
			}
		})
	}

	// Monotonic in raw distance.
	prev := leaf.WeightedDistance(geom.Pt(0, 0), r)
	for x := int64(100); x <= 5000; x += 100 {
		d := leaf.WeightedDistance(geom.Pt(x, 0), r)
		if d < prev {
			t.Fatalf("weighted distance decreased at x=%d: %d < %d", x, d, prev)
		}
		prev = d
	}
}

func TestVisit(t *testing.T) {
	root := NewRoot(geom.Pt(0, 0))
	a := root.AddChild(geom.Pt(10, 0))
	a.AddChild(geom.Pt(20, 0))
	root.AddChild(geom.Pt(0, 10))

	var edges []geom.Segment
	root.VisitBranches(func(p, c geom.Point) { edges = append(edges, geom.Segment{A: p, B: c}) })
	want := []geom.Segment{
		{A: geom.Pt(0, 0), B: geom.Pt(10, 0)},
		{A: geom.Pt(10, 0), B: geom.Pt(20, 0)},
		{A: geom.Pt(0, 0), B: geom.Pt(0, 10)},
	}
	if len(edges) != len(want) {
		t.Fatalf("got %d edges, want %d", len(edges), len(want))
	}
	for i := range want {
		if edges[i] != want[i] {
			t.Errorf("edge %d = %v, want %v", i, edges[i], want[i])
		}
	}

	root.VisitNodes(func(n *Node) { n.SetLocation(n.Location().Add(geom.Pt(1, 1))) })
	if a.Location() != geom.Pt(11, 1) {
		t.Errorf("visitor should mutate nodes, a = %v", a.Location())
	}
	if root.Size() != 4 {
		t.Errorf("Size = %d, want 4", root.Size())
	}
}

func TestDeepCopy(t *testing.T) {
	root := NewRoot(geom.Pt(0, 0))
	a := root.AddChild(geom.Pt(10, 0))
	a.AddChild(geom.Pt(20, 0))

	cp := root.DeepCopy()
	if cp.Size() != 3 || cp.Length() != root.Length() {
		t.Fatal("copy should match the original")
	}
	cp.Children()[0].SetLocation(geom.Pt(99, 99))
	if a.Location() != geom.Pt(10, 0) {
		t.Error("copy shares nodes with the original")
	}
	if cp.Children()[0].Parent() != cp {
		t.Error("copied child should point at the copied parent")
	}
	if loc, ok := cp.Children()[0].LastGroundingLocation(); !ok || loc != geom.Pt(0, 0) {
		t.Error("last grounding should be copied")
	}
}

func TestPrune(t *testing.T) {
	t.Run("RemovesShortTree", func(t *testing.T) {
		root := NewRoot(geom.Pt(0, 0))
		child := root.AddChild(geom.Pt(500, 0))
		if got := root.Prune(600); got != 500 {
			t.Errorf("Prune = %d, want 500", got)
		}
		if !root.IsLeaf() {
			t.Error("tree should be empty")
		}
		if !child.Removed() || child.Parent() != nil {
			t.Error("pruned node should be removed and unlinked")
		}
	})

	t.Run("ShortensEdge", func(t *testing.T) {
		root := NewRoot(geom.Pt(0, 0))
		child := root.AddChild(geom.Pt(1000, 0))
		if got := root.Prune(300); got != 300 {
			t.Errorf("Prune = %d, want 300", got)
		}
		if child.Location() != geom.Pt(700, 0) {
			t.Errorf("child at %v, want (700, 0)", child.Location())
		}
	})

	t.Run("AcrossNodes", func(t *testing.T) {
		root := NewRoot(geom.Pt(0, 0))
		mid := root.AddChild(geom.Pt(1000, 0))
		mid.AddChild(geom.Pt(1500, 0))
		if got := root.Prune(700); got != 700 {
			t.Errorf("Prune = %d, want 700", got)
		}
		if !mid.IsLeaf() {
			t.Error("leaf should be pruned")
		}
		if mid.Location() != geom.Pt(800, 0) {
			t.Errorf("mid at %v, want (800, 0)", mid.Location())
		}
	})

	t.Run("KeepsLongBranch", func(t *testing.T) {
		root := NewRoot(geom.Pt(0, 0))
		long := root.AddChild(geom.Pt(5000, 0))
		short := root.AddChild(geom.Pt(0, 200))
		root.Prune(1000)
		if len(root.Children()) != 1 || root.Children()[0] != long {
			t.Fatal("only the long branch should survive")
		}
		if long.Location() != geom.Pt(4000, 0) {
			t.Errorf("long leaf at %v, want (4000, 0)", long.Location())
		}
		if !short.Removed() {
			t.Error("short branch should be removed")
		}
	})

	t.Run("Zero", func(t *testing.T) {
		root := NewRoot(geom.Pt(0, 0))
		root.AddChild(geom.Pt(10, 0))
		if got := root.Prune(0); got != 0 || root.IsLeaf() {
			t.Error("zero budget should not prune")
		}
	})
}

func TestStraighten(t *testing.T) {
	tests := []struct {
		name      string
		mid       geom.Point
		magnitude int64
		want      geom.Point
	}{
		{"WithinMagnitude", geom.Pt(500, 30), 50, geom.Pt(500, 0)},
		{"BeyondMagnitude", geom.Pt(500, 80), 50, geom.Pt(500, 80)},
		{"ZeroMagnitude", geom.Pt(500, 30), 0, geom.Pt(500, 30)},
		{"NearEnd", geom.Pt(10, 45), 50, geom.Pt(10, 0)},
		{"NearEndBeyond", geom.Pt(10, 55), 50, geom.Pt(10, 55)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := NewRoot(geom.Pt(0, 0))
			mid := root.AddChild(tt.mid)
			leaf := mid.AddChild(geom.Pt(1000, 0))
			root.Straighten(tt.magnitude)
			if got := mid.Location(); geom.Dist(got, tt.want) > 1 {
				t.Errorf("mid at %v, want %v", got, tt.want)
			}
			if leaf.Location() != geom.Pt(1000, 0) {
				t.Error("chain ends must not move")
			}
		})
	}
}

func TestStraightenKeepsJunctions(t *testing.T) {
	root := NewRoot(geom.Pt(0, 0))
	mid := root.AddChild(geom.Pt(500, 20))
	junction := mid.AddChild(geom.Pt(1000, 0))
	a := junction.AddChild(geom.Pt(1500, 20))
	a.AddChild(geom.Pt(2000, 0))
	junction.AddChild(geom.Pt(1000, 500))

	root.Straighten(100)

	if junction.Location() != geom.Pt(1000, 0) {
		t.Errorf("junction moved to %v", junction.Location())
	}
	if geom.Dist(mid.Location(), geom.Pt(500, 0)) > 1 {
		t.Errorf("mid at %v, want (500, 0)", mid.Location())
	}
	if geom.Dist(a.Location(), geom.Pt(1500, 0)) > 1 {
		t.Errorf("a at %v, want (1500, 0)", a.Location())
	}
}

// sampleTree builds a tree with two junctions.
func sampleTree() *Node {
	root := NewRoot(geom.Pt(0, 0))
	trunk := root.AddChild(geom.Pt(1000, 0))
	j := trunk.AddChild(geom.Pt(2000, 0))
	j.AddChild(geom.Pt(3000, 500)).AddChild(geom.Pt(4000, 500))
	k := j.AddChild(geom.Pt(3000, -500))
	k.AddChild(geom.Pt(3500, -1500))
	k.AddChild(geom.Pt(4000, -500))
	j.AddChild(geom.Pt(2000, 1000))
	return root
}

func TestConvertToPolylinesCoversEdges(t *testing.T) {
	root := sampleTree()

	want := map[geom.Segment]int{}
	root.VisitBranches(func(a, b geom.Point) { want[undirected(a, b)]++ })

	junctions := map[geom.Point]bool{}
	root.VisitNodes(func(n *Node) {
		if len(n.Children()) >= 2 {
			junctions[n.Location()] = true
		}
	})

	lines := root.ConvertToPolylines(0)
	got := map[geom.Segment]int{}
	for i, line := range lines {
		for _, s := range line.Segments() {
			got[undirected(s.A, s.B)]++
		}
		end := line[len(line)-1]
		if i == 0 {
			if end != root.Location() {
				t.Errorf("first line should end at the root, ends at %v", end)
			}
			continue
		}
		if !junctions[end] {
			t.Errorf("line %d ends at %v, which is not a junction", i, end)
		}
	}

	if len(got) != len(want) {
		t.Fatalf("got %d distinct edges, want %d", len(got), len(want))
	}
	for e, n := range want {
		if got[e] != n {
			t.Errorf("edge %v covered %d times, want %d", e, got[e], n)
		}
	}
}

func TestConvertToPolylinesDeterministic(t *testing.T) {
	a := sampleTree().ConvertToPolylines(400)
	b := sampleTree().ConvertToPolylines(400)
	if len(a) != len(b) {
		t.Fatal("line count differs between runs")
	}
	for i := range a {
		if len(a[i]) != len(b[i]) || a[i][0] != b[i][0] {
			t.Fatalf("line %d differs between runs", i)
		}
	}
}

func TestConvertToPolylinesTrimsJunctions(t *testing.T) {
	root := NewRoot(geom.Pt(0, 0))
	root.AddChild(geom.Pt(1000, 0))
	root.AddChild(geom.Pt(0, 1000))

	lines := root.ConvertToPolylines(200)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if end := lines[0][len(lines[0])-1]; end != root.Location() {
		t.Errorf("main line should reach the root, ends at %v", end)
	}
	end := lines[1][len(lines[1])-1]
	if d := geom.Dist(end, root.Location()); d != 100 {
		t.Errorf("side line ends %d from the junction, want 100", d)
	}
}

func TestConvertToPolylinesDropsShortLines(t *testing.T) {
	root := NewRoot(geom.Pt(0, 0))
	if lines := root.ConvertToPolylines(400); len(lines) != 0 {
		t.Errorf("lone root produced %d lines", len(lines))
	}

	// The long branch must be the one continuing through the root.
	long, short := geom.Pt(5000, 0), geom.Pt(0, 100)
	if hashPoint(root.Location())%2 == 0 {
		root.AddChild(long)
		root.AddChild(short)
	} else {
		root.AddChild(short)
		root.AddChild(long)
	}
	lines := root.ConvertToPolylines(400)
	if len(lines) != 1 {
		t.Errorf("got %d lines, want the short branch trimmed away", len(lines))
	}
}

func TestTrimEnd(t *testing.T) {
	pl := geom.Polyline{geom.Pt(0, 0), geom.Pt(100, 0), geom.Pt(150, 0)}
	got := trimEnd(pl, 80)
	want := geom.Polyline{geom.Pt(0, 0), geom.Pt(70, 0)}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("trimEnd = %v, want %v", got, want)
	}
}

func undirected(a, b geom.Point) geom.Segment {
	if b.X < a.X || (b.X == a.X && b.Y < a.Y) {
		a, b = b, a
	}
	return geom.Segment{A: a, B: b}
}
