package pipeline

import (
	"context"
	"io"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lightning/pkg/cache"
	"github.com/matzehuels/lightning/pkg/errors"
	"github.com/matzehuels/lightning/pkg/geom"
	lio "github.com/matzehuels/lightning/pkg/io"
	"github.com/matzehuels/lightning/pkg/lightning"
	"github.com/matzehuels/lightning/pkg/observability"
)

// testStack is a pyramid of three shrinking squares, bottom first.
func testStack() *lio.Stack {
	return &lio.Stack{
		Layers: []geom.Polygons{
			{geom.Rect(0, 0, 20000, 20000)},
			{geom.Rect(2000, 2000, 18000, 18000)},
			{geom.Rect(4000, 4000, 16000, 16000)},
		},
	}
}

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	return NewRunner(c, nil, log.New(io.Discard))
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"dot", false},
		{"nodelink", false},
		{"json", false},
		{"pdf", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Stack: testStack()}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Valid options should pass: %v", err)
	}
	if opts.Settings != lightning.DefaultSettings() {
		t.Errorf("Settings = %+v, want defaults", opts.Settings)
	}
	if opts.Kernel != DefaultKernel {
		t.Errorf("Kernel = %q, want %q", opts.Kernel, DefaultKernel)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	// A stack's own layer thickness wins.
	stack := testStack()
	stack.LayerThickness = 100
	opts = Options{Stack: stack, Settings: lightning.DefaultSettings()}
	opts.SetDefaults()
	if opts.Settings.LayerThickness != 100 {
		t.Errorf("LayerThickness = %d, want 100", opts.Settings.LayerThickness)
	}
}

func TestOptionsValidate(t *testing.T) {
	bad := lightning.DefaultSettings()
	bad.LineWidth = -1

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no stack", Options{}, errors.ErrCodeInvalidInput},
		{"bad settings", Options{Stack: testStack(), Settings: bad}, errors.ErrCodeInvalidConfig},
		{"bad kernel", Options{Stack: testStack(), Kernel: "voxel"}, errors.ErrCodeInvalidConfig},
		{"bad format", Options{Stack: testStack(), Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad layer", Options{Stack: testStack(), Layers: []int{3}}, errors.ErrCodeInvalidLayer},
		{"bad scale", Options{Stack: testStack(), Scale: -1}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %s, want %s (%v)", errors.GetCode(err), tt.code, err)
			}
			if !errors.IsClientError(err) {
				t.Errorf("%v should be a client error", err)
			}
		})
	}
}

func TestSelectedLayers(t *testing.T) {
	opts := Options{}
	if got := opts.SelectedLayers(3); !slices.Equal(got, []int{0, 1, 2}) {
		t.Errorf("all layers = %v", got)
	}
	opts.Layers = []int{2, 0, 2}
	if got := opts.SelectedLayers(3); !slices.Equal(got, []int{0, 2}) {
		t.Errorf("selection = %v, want [0 2]", got)
	}
	if !slices.Equal(opts.Layers, []int{2, 0, 2}) {
		t.Error("SelectedLayers must not reorder the options")
	}
}

func TestArtifactName(t *testing.T) {
	tests := []struct {
		format string
		layer  int
		want   string
	}{
		{FormatSVG, 3, "layer-0003.svg"},
		{FormatPNG, 12, "layer-0012.png"},
		{FormatDOT, 0, "layer-0000.dot"},
		{FormatNodelink, 1, "layer-0001.trees.svg"},
		{FormatJSON, -1, "infill.json"},
	}
	for _, tt := range tests {
		if got := ArtifactName(tt.format, tt.layer); got != tt.want {
			t.Errorf("ArtifactName(%s, %d) = %s, want %s", tt.format, tt.layer, got, tt.want)
		}
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)
	defer r.Close()

	opts := Options{Stack: testStack(), Formats: []string{FormatSVG, FormatJSON}, Layers: []int{0, 2}}
	res, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.CacheInfo.GenerateHit || res.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", res.CacheInfo)
	}
	if len(res.Layers) != 3 || len(res.Forests) != 3 {
		t.Fatalf("got %d layers, %d forests", len(res.Layers), len(res.Forests))
	}
	if res.Stats.LineCount == 0 || res.Stats.RootCount == 0 {
		t.Errorf("expected infill, got %+v", res.Stats)
	}
	for i, l := range res.Layers {
		if l.Index != i {
			t.Errorf("layer %d has index %d", i, l.Index)
		}
		if len(l.Roots) != len(res.Forests[i]) {
			t.Errorf("layer %d: %d root locations, %d trees", i, len(l.Roots), len(res.Forests[i]))
		}
	}
	for _, name := range []string{"layer-0000.svg", "layer-0002.svg", "infill.json"} {
		if len(res.Artifacts[name]) == 0 {
			t.Errorf("missing artifact %s", name)
		}
	}
	if _, ok := res.Artifacts["layer-0001.svg"]; ok {
		t.Error("unselected layer was rendered")
	}

	again, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute (cached): %v", err)
	}
	if !again.CacheInfo.GenerateHit || !again.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", again.CacheInfo)
	}
	if again.Forests != nil {
		t.Error("cached result has no trees")
	}
	if again.Stats.LineCount != res.Stats.LineCount || again.GenerationHash != res.GenerationHash {
		t.Errorf("cached stats differ: %+v vs %+v", again.Stats, res.Stats)
	}
	if !slices.Equal(again.Layers[1].Lines, res.Layers[1].Lines) {
		t.Error("cached lines differ")
	}
}

func TestExecuteCacheKeys(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)

	if _, err := r.Execute(ctx, Options{Stack: testStack()}); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	settings := lightning.DefaultSettings()
	settings.LineDistance = 3000
	res, err := r.Execute(ctx, Options{Stack: testStack(), Settings: settings})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.CacheInfo.GenerateHit {
		t.Error("changed settings must not hit the cache")
	}

	res, err = r.Execute(ctx, Options{Stack: testStack(), Refresh: true})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.CacheInfo.GenerateHit {
		t.Error("refresh must bypass the cache")
	}
}

func TestExecuteTopologyFormats(t *testing.T) {
	ctx := context.Background()
	r := newTestRunner(t)

	opts := Options{Stack: testStack(), Formats: []string{FormatDOT}, Layers: []int{1}}
	for run := range 2 {
		res, err := r.Execute(ctx, opts)
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		if res.CacheInfo.GenerateHit {
			t.Errorf("run %d: topology formats need fresh trees", run)
		}
		if !strings.HasPrefix(string(res.Artifacts["layer-0001.dot"]), "digraph G {") {
			t.Errorf("run %d: missing DOT artifact", run)
		}
	}
}

func TestRenderWithoutForest(t *testing.T) {
	r := newTestRunner(t)
	gen := &Generation{GenerationHash: "x", Layers: make([]lio.LayerLines, 3), Settings: lightning.DefaultSettings()}
	_, _, err := r.RenderWithCacheInfo(context.Background(), gen, Options{Stack: testStack(), Formats: []string{FormatDOT}})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeUnsupported)
	}
}

func TestExecuteCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRunner(nil, nil, log.New(io.Discard)).Execute(ctx, Options{Stack: testStack()})
	if !errors.Is(err, errors.ErrCodeTimeout) {
		t.Errorf("err = %v, want %s", err, errors.ErrCodeTimeout)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) OnGenerateStart(_ context.Context, layers int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "start")
}

func (h *recordingHooks) OnGenerateComplete(_ context.Context, layers, nodes int, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err == nil && nodes > 0 && layers == 3 {
		h.events = append(h.events, "complete")
	}
}

func TestExecuteHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	if _, err := NewRunner(nil, nil, log.New(io.Discard)).Execute(context.Background(), Options{Stack: testStack()}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !slices.Equal(hooks.events, []string{"start", "complete"}) {
		t.Errorf("events = %v", hooks.events)
	}
}
