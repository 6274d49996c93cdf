package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/lightning/pkg/geom"
	"github.com/matzehuels/lightning/pkg/lightning"
)

func testForest() []*lightning.Node {
	a := lightning.NewRoot(geom.Pt(0, 0))
	mid := a.AddChild(geom.Pt(1000, 0))
	mid.AddChild(geom.Pt(2000, 500))
	mid.AddChild(geom.Pt(2000, -500))
	b := lightning.NewRoot(geom.Pt(5000, 5000))
	b.AddChild(geom.Pt(5000, 6000))
	return []*lightning.Node{a, b}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testForest(), Options{})

	for _, want := range []string{
		"digraph G {",
		"rankdir=TB;",
		"n0 -> n1;",
		"n1 -> n2;",
		"n1 -> n3;",
		"n4 -> n5;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if n := strings.Count(dot, "->"); n != 4 {
		t.Errorf("got %d edges, want 4", n)
	}
	if n := strings.Count(dot, "shape=box"); n != 2 {
		t.Errorf("got %d root boxes, want 2", n)
	}
	if strings.Contains(dot, "xlabel") || strings.Contains(dot, "pos=") {
		t.Error("plain diagram should have no labels or positions")
	}
}

func TestToDOTOptions(t *testing.T) {
	dot := ToDOT(testForest(), Options{Detailed: true, Positioned: true})
	if strings.Contains(dot, "rankdir") {
		t.Error("positioned diagram should not rank")
	}
	if !strings.Contains(dot, `xlabel="2.0, -0.5"`) {
		t.Errorf("missing location label:\n%s", dot)
	}
	if !strings.Contains(dot, `pos="0.00,0.00!"`) {
		t.Errorf("missing pinned position:\n%s", dot)
	}
}

func TestToDOTEmpty(t *testing.T) {
	dot := ToDOT(nil, Options{})
	if strings.Contains(dot, "n0") {
		t.Errorf("empty forest should have no nodes:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if out != want {
		t.Errorf("got  %s\nwant %s", out, want)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("svg without viewBox should be unchanged, got %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	ctx := context.Background()
	for _, opts := range []Options{{}, {Positioned: true, Detailed: true}} {
		svg, err := RenderSVG(ctx, ToDOT(testForest(), opts), opts)
		if err != nil {
			t.Fatalf("RenderSVG(%+v): %v", opts, err)
		}
		if !strings.HasPrefix(strings.TrimSpace(string(svg)), "<") || !strings.Contains(string(svg), "<svg") {
			t.Errorf("RenderSVG(%+v) did not return SVG", opts)
		}
	}
}
