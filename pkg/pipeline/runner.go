package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lightning/pkg/cache"
	lio "github.com/matzehuels/lightning/pkg/io"
	"github.com/matzehuels/lightning/pkg/lightning"
	"github.com/matzehuels/lightning/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete generate → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Generate
	genStart := time.Now()
	gen, hit, err := r.GenerateWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.InputHash = gen.InputHash
	result.GenerationHash = gen.GenerationHash
	result.Layers = gen.Layers
	result.Forests = gen.Forests
	result.Stats = summarize(gen.Layers)
	result.Stats.GenerateTime = time.Since(genStart)
	result.CacheInfo.GenerateHit = hit

	r.Logger.Info("generated infill",
		"layers", result.Stats.LayerCount,
		"roots", result.Stats.RootCount,
		"lines", result.Stats.LineCount,
		"cached", hit,
		"duration", result.Stats.GenerateTime)

	if len(opts.Formats) == 0 {
		return result, nil
	}

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, gen, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"artifacts", len(artifacts),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Generation is the outcome of the generate stage.
type Generation struct {
	InputHash      string
	GenerationHash string
	Layers         []lio.LayerLines
	Forests        [][]*lightning.Node // nil on a cache hit
	Settings       lightning.Settings
}

// GenerateWithCacheInfo generates the lines of every layer with caching and
// returns cache hit info. Formats that draw tree topology bypass the cache
// read, since trees are not cached.
func (r *Runner) GenerateWithCacheInfo(ctx context.Context, opts Options) (*Generation, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	var input bytes.Buffer
	if err := lio.WriteJSON(opts.Stack, &input); err != nil {
		return nil, false, fmt.Errorf("serialize stack for cache key: %w", err)
	}
	inputHash := cache.Hash(input.Bytes())
	cacheKey := r.Keyer.GenerationKey(inputHash, opts.GenerationKeyOpts())
	gen := &Generation{
		InputHash:      inputHash,
		GenerationHash: cache.Hash([]byte(cacheKey)),
		Settings:       opts.Settings,
	}

	// Try cache first (unless refresh requested)
	if !opts.Refresh && !opts.NeedsForest() {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			layers, err := lio.ReadLines(bytes.NewReader(data))
			if err == nil && len(layers) == len(opts.Stack.Layers) {
				observability.Cache().OnCacheHit(ctx, "generation")
				gen.Layers = layers
				return gen, true, nil // Cache hit
			}
			// If deserialization fails, fall through to regenerate
		} else if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "generation")
	}

	layers, forests, err := Generate(ctx, opts)
	if err != nil {
		return nil, false, err
	}
	gen.Layers = layers
	gen.Forests = forests

	// Cache the result
	var data bytes.Buffer
	if err := lio.WriteLines(layers, &data); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data.Bytes(), TTLGeneration); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "generation", data.Len())
		}
	}

	return gen, false, nil // Cache miss
}

// RenderWithCacheInfo renders artifacts with caching and returns cache hit
// info. The hit is true only when every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, gen *Generation, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	jobs := renderJobs(gen, opts)
	artifacts := make(map[string][]byte, len(jobs))
	var missing []renderJob
	for _, j := range jobs {
		key := r.Keyer.ArtifactKey(gen.GenerationHash, opts.ArtifactKeyOpts(j.format, j.layer))
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			artifacts[j.name] = data
			continue
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
		missing = append(missing, j)
	}
	if len(missing) == 0 {
		return artifacts, true, nil // All artifacts from cache
	}

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := renderArtifacts(ctx, gen, missing, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each artifact
	for _, j := range missing {
		data := rendered[j.name]
		artifacts[j.name] = data
		key := r.Keyer.ArtifactKey(gen.GenerationHash, opts.ArtifactKeyOpts(j.format, j.layer))
		if err := r.Cache.Set(ctx, key, data, TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
