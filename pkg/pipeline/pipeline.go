// Package pipeline runs lightning infill end to end.
//
// This package implements the complete generate → render pipeline used by
// the CLI and the HTTP service. By centralizing this logic, both entry
// points cache, log and report results the same way.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Generate: grow, propagate and reconnect the trees of every layer of a
//     stack, then flatten them into printable lines
//  2. Render: draw previews of the selected layers (SVG, PNG, node-link
//     diagrams) and export the lines as JSON
//
// Both stages are cached. Generation is keyed by a hash of the input stack
// and the settings; artifacts are keyed by the generation hash, format,
// layer and scale.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Stack:   stack,
//	    Formats: []string{"svg", "json"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["layer-0003.svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lightning/pkg/cache"
	"github.com/matzehuels/lightning/pkg/errors"
	"github.com/matzehuels/lightning/pkg/geom"
	lio "github.com/matzehuels/lightning/pkg/io"
	"github.com/matzehuels/lightning/pkg/kernel"
	"github.com/matzehuels/lightning/pkg/kernel/sdfx"
	"github.com/matzehuels/lightning/pkg/lightning"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultKernel is the boundary backend used when none is given.
	DefaultKernel = "exact"

	// DefaultScale is the preview resolution in pixels per millimetre.
	DefaultScale = 10.0

	// TTLGeneration is how long generated lines stay cached.
	TTLGeneration = 7 * 24 * time.Hour

	// TTLArtifact is how long rendered previews stay cached.
	TTLArtifact = 24 * time.Hour
)

// Format constants for output formats.
const (
	FormatSVG      = "svg"      // layer preview
	FormatPNG      = "png"      // rasterized layer preview
	FormatDOT      = "dot"      // tree topology as Graphviz source
	FormatNodelink = "nodelink" // tree topology rendered to SVG
	FormatJSON     = "json"     // lines of all layers
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatPNG:      true,
	FormatDOT:      true,
	FormatNodelink: true,
	FormatJSON:     true,
}

// kernels maps kernel names to boundary factories.
var kernels = map[string]kernel.Factory{
	"exact": kernel.NewExact,
	"sdfx":  sdfx.New,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input
	Stack *lio.Stack `json:"-"`

	// Generate options
	Settings lightning.Settings `json:"settings"`
	Kernel   string             `json:"kernel,omitempty"`
	Refresh  bool               `json:"refresh,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Layers  []int    `json:"layers,omitempty"` // empty renders every layer
	Scale   float64  `json:"scale,omitempty"`
	Roots   bool     `json:"roots,omitempty"` // mark tree roots in previews

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// InputHash is the content hash of the input stack.
	InputHash string

	// GenerationHash identifies the generated lines; artifact cache keys
	// derive from it.
	GenerationHash string

	// Layers holds the generated lines per layer, bottom first.
	Layers []lio.LayerLines

	// Forests holds the trees per layer. It is nil when the lines came
	// from the cache.
	Forests [][]*lightning.Node

	// Artifacts contains rendered outputs keyed by file name, for example
	// "layer-0003.svg" or "infill.json".
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	LayerCount   int
	RootCount    int
	NodeCount    int
	LineCount    int
	TotalLength  int64 // micrometres
	GenerateTime time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	GenerateHit bool // Whether the lines came from cache
	RenderHit   bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, dot, nodelink, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateKernel checks that a kernel name is known.
func ValidateKernel(name string) error {
	if _, ok := kernels[name]; !ok {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid kernel: %q (must be one of: exact, sdfx)", name)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults applies defaults for unset fields. A layer thickness given by
// the stack takes precedence over the configured one.
func (o *Options) SetDefaults() {
	def := lightning.DefaultSettings()
	if o.Settings == (lightning.Settings{}) {
		o.Settings = def
	}
	if o.Stack != nil && o.Stack.LayerThickness > 0 {
		o.Settings.LayerThickness = o.Stack.LayerThickness
	}
	if o.Kernel == "" {
		o.Kernel = DefaultKernel
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the options after [Options.SetDefaults].
func (o *Options) Validate() error {
	if o.Stack == nil {
		return errors.New(errors.ErrCodeInvalidInput, "layer stack is required")
	}
	if err := o.Settings.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "settings")
	}
	if err := ValidateKernel(o.Kernel); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must not be negative")
	}
	for _, l := range o.Layers {
		if err := errors.ValidateLayerIndex(l, len(o.Stack.Layers)); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults applies defaults, then validates.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.Validate()
}

// SelectedLayers returns the layers to render, sorted and deduplicated.
func (o *Options) SelectedLayers(count int) []int {
	if len(o.Layers) == 0 {
		all := make([]int, count)
		for i := range all {
			all[i] = i
		}
		return all
	}
	sel := slices.Clone(o.Layers)
	slices.Sort(sel)
	return slices.Compact(sel)
}

// NeedsForest reports whether a requested format draws tree topology, which
// is only available when generation actually ran.
func (o *Options) NeedsForest() bool {
	return slices.Contains(o.Formats, FormatDOT) || slices.Contains(o.Formats, FormatNodelink)
}

// GenerationKeyOpts returns cache key options for generation.
func (o *Options) GenerationKeyOpts() cache.GenerationKeyOpts {
	return cache.GenerationKeyOpts{
		LineWidth:          o.Settings.LineWidth,
		LineDistance:       o.Settings.LineDistance,
		LayerThickness:     o.Settings.LayerThickness,
		OverhangAngle:      o.Settings.OverhangAngle,
		PruneAngle:         o.Settings.PruneAngle,
		StraighteningAngle: o.Settings.StraighteningAngle,
		Kernel:             o.Kernel,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered artifact.
func (o *Options) ArtifactKeyOpts(format string, layer int) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Layer: layer, Scale: o.Scale, Roots: o.Roots}
}

// factory returns the boundary factory for the configured kernel.
func (o *Options) factory() (kernel.Factory, error) {
	f, ok := kernels[o.Kernel]
	if !ok {
		return nil, fmt.Errorf("unknown kernel %q", o.Kernel)
	}
	return f, nil
}

// ArtifactName returns the artifact file name of a per-layer format.
func ArtifactName(format string, layer int) string {
	switch format {
	case FormatNodelink:
		return fmt.Sprintf("layer-%04d.trees.svg", layer)
	case FormatJSON:
		return "infill.json"
	}
	return fmt.Sprintf("layer-%04d.%s", layer, format)
}

// summarize totals the per-layer counts.
func summarize(layers []lio.LayerLines) Stats {
	s := Stats{LayerCount: len(layers)}
	for _, l := range layers {
		s.RootCount += len(l.Roots)
		s.NodeCount += l.Nodes
		s.LineCount += len(l.Lines)
		s.TotalLength += l.Length
	}
	return s
}

// rootLocations lists where the trees of a layer rest.
func rootLocations(roots []*lightning.Node) []geom.Point {
	out := make([]geom.Point, len(roots))
	for i, r := range roots {
		out[i] = r.Location()
	}
	return out
}
