package io

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/lightning/pkg/errors"
	"github.com/matzehuels/lightning/pkg/geom"
)

func TestReadJSON(t *testing.T) {
	input := `{
		"layer_thickness": 150,
		"layers": [
			{"outlines": [[[0, 0], [1000, 0], [1000, 1000], [0, 1000]], [[200, 200], [800, 200], [500, 800]]]},
			{"outlines": []}
		]
	}`
	s, err := ReadJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if s.LayerThickness != 150 {
		t.Errorf("LayerThickness = %d, want 150", s.LayerThickness)
	}
	if len(s.Layers) != 2 {
		t.Fatalf("got %d layers, want 2", len(s.Layers))
	}
	if len(s.Layers[0]) != 2 || len(s.Layers[1]) != 0 {
		t.Errorf("outline counts = %d, %d", len(s.Layers[0]), len(s.Layers[1]))
	}
	if !slices.Equal(s.Layers[0][0], geom.Rect(0, 0, 1000, 1000)) {
		t.Errorf("first outline = %v", s.Layers[0][0])
	}
	if !s.Layers[0].Contains(geom.Pt(100, 100)) || s.Layers[0].Contains(geom.Pt(500, 400)) {
		t.Error("hole should be resolved with even-odd rule")
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"layers": [`},
		{"unknown field", `{"layers": [], "slices": []}`},
		{"negative thickness", `{"layer_thickness": -1, "layers": []}`},
		{"short outline", `{"layers": [{"outlines": [[[0, 0], [1, 1]]]}]}`},
		{"bad point", `{"layers": [{"outlines": [[["a", 0], [1, 1], [2, 0]]]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestStackRoundTrip(t *testing.T) {
	in := &Stack{
		LayerThickness: 200,
		Layers: []geom.Polygons{
			{geom.Rect(0, 0, 5000, 5000)},
			{},
			{geom.Rect(-100, -100, 100, 100), geom.Rect(1000, 1000, 2000, 3000)},
		},
	}
	path := filepath.Join(t.TempDir(), "stack.json")
	if err := ExportJSON(in, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	out, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if out.LayerThickness != in.LayerThickness || len(out.Layers) != len(in.Layers) {
		t.Fatalf("got %+v", out)
	}
	for i := range in.Layers {
		if len(out.Layers[i]) != len(in.Layers[i]) {
			t.Fatalf("layer %d: %d outlines, want %d", i, len(out.Layers[i]), len(in.Layers[i]))
		}
		for j := range in.Layers[i] {
			if !slices.Equal(out.Layers[i][j], in.Layers[i][j]) {
				t.Errorf("layer %d outline %d = %v, want %v", i, j, out.Layers[i][j], in.Layers[i][j])
			}
		}
	}
}

func TestImportJSONMissing(t *testing.T) {
	_, err := ImportJSON(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestLinesRoundTrip(t *testing.T) {
	in := []LayerLines{
		{Index: 0},
		{
			Index:  1,
			Lines:  []geom.Segment{{A: geom.Pt(0, 0), B: geom.Pt(100, 0)}, {A: geom.Pt(100, 0), B: geom.Pt(100, -50)}},
			Roots:  []geom.Point{geom.Pt(0, 0)},
			Nodes:  3,
			Length: 150,
		},
	}
	var buf bytes.Buffer
	if err := WriteLines(in, &buf); err != nil {
		t.Fatalf("WriteLines: %v", err)
	}
	if strings.Contains(buf.String(), "null") {
		t.Errorf("empty layers should encode as arrays:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "[\n") {
		t.Errorf("output should be indented:\n%s", buf.String())
	}

	out, err := ReadLines(&buf)
	if err != nil {
		t.Fatalf("ReadLines: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d layers", len(out))
	}
	got := out[1]
	if got.Nodes != 3 || got.Length != 150 || !slices.Equal(got.Lines, in[1].Lines) || !slices.Equal(got.Roots, in[1].Roots) {
		t.Errorf("layer 1 = %+v, want %+v", got, in[1])
	}
	if len(out[0].Lines) != 0 {
		t.Errorf("layer 0 lines = %v", out[0].Lines)
	}
}

func TestExportLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := ExportLines([]LayerLines{{Index: 3}}, path); err != nil {
		t.Fatalf("ExportLines: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"index": 3`) {
		t.Errorf("unexpected file contents:\n%s", data)
	}
}
