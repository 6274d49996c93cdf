// Package cache stores computed lightning results between runs.
//
// Generating trees for a tall object is expensive, and both the CLI and the
// HTTP service regenerate the same stacks repeatedly while settings are being
// tuned. Results are cached as opaque byte blobs under keys derived from a
// hash of the input stack plus the settings that influence the result.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry, used by the CLI
//   - [RedisCache]: shared cache for the HTTP service
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] turns inputs into cache keys. [NewScopedKeyer] prefixes every key
// so that several deployments can share one Redis instance.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the value for key. A miss is reported with ok == false and
	// a nil error.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// GenerationKey is the key of the generated forests of a layer stack.
	GenerationKey(inputHash string, opts GenerationKeyOpts) string

	// ArtifactKey is the key of a rendered artifact of one generation.
	ArtifactKey(generationHash string, opts ArtifactKeyOpts) string
}

// GenerationKeyOpts are the settings that change generated trees.
type GenerationKeyOpts struct {
	LineWidth          int64   `json:"line_width"`
	LineDistance       int64   `json:"line_distance"`
	LayerThickness     int64   `json:"layer_thickness"`
	OverhangAngle      float64 `json:"overhang_angle"`
	PruneAngle         float64 `json:"prune_angle"`
	StraighteningAngle float64 `json:"straightening_angle"`
	Kernel             string  `json:"kernel"`
}

// ArtifactKeyOpts are the settings that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Layer  int     `json:"layer"`
	Scale  float64 `json:"scale"`
	Roots  bool    `json:"roots"`
}

// DefaultKeyer builds keys of the form "<kind>:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// GenerationKey implements Keyer.
func (DefaultKeyer) GenerationKey(inputHash string, opts GenerationKeyOpts) string {
	return hashKey("generation", inputHash, opts)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(generationHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", generationHash, opts)
}
