// Package config loads lightning's TOML configuration file.
//
// A configuration file has four tables:
//
//	kernel = "exact"          # boundary backend: "exact" or "sdfx"
//
//	[infill]
//	line_width = 400          # micrometres
//	line_distance = 4000
//	layer_thickness = 200
//	overhang_angle = 40       # degrees from vertical
//	prune_angle = 40
//	straightening_angle = 40
//
//	[cache]
//	backend = "file"          # "file", "redis" or "none"
//	ttl = "168h"
//
//	[store]
//	backend = "memory"        # "memory" or "mongo"
//
//	[server]
//	addr = ":8080"
//
// Missing keys keep their defaults. Unknown keys are rejected so that typos
// do not silently fall back to defaults.
package config

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/lightning/pkg/errors"
	"github.com/matzehuels/lightning/pkg/lightning"
)

// Kernel names.
const (
	KernelExact = "exact"
	KernelSDFX  = "sdfx"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

// Config is the complete application configuration.
type Config struct {
	Kernel string             `toml:"kernel"`
	Infill lightning.Settings `toml:"infill"`
	Cache  CacheConfig        `toml:"cache"`
	Store  StoreConfig        `toml:"store"`
	Server ServerConfig       `toml:"server"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"` // empty uses the XDG cache directory
	TTL     Duration    `toml:"ttl"`
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig addresses a Redis server.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// StoreConfig selects where the HTTP service keeps jobs.
type StoreConfig struct {
	Backend  string `toml:"backend"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// ServerConfig configures the HTTP service.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	RequestTimeout Duration `toml:"request_timeout"`
	MaxBodyBytes   int64    `toml:"max_body_bytes"`
}

// Duration is a time.Duration written as a Go duration string ("90s").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills every unset field.
func (c *Config) SetDefaults() {
	if c.Kernel == "" {
		c.Kernel = KernelExact
	}
	def := lightning.DefaultSettings()
	if c.Infill.LineWidth == 0 {
		c.Infill.LineWidth = def.LineWidth
	}
	if c.Infill.LineDistance == 0 {
		c.Infill.LineDistance = def.LineDistance
	}
	if c.Infill.LayerThickness == 0 {
		c.Infill.LayerThickness = def.LayerThickness
	}
	if c.Infill.OverhangAngle == 0 {
		c.Infill.OverhangAngle = def.OverhangAngle
	}
	if c.Infill.PruneAngle == 0 {
		c.Infill.PruneAngle = def.PruneAngle
	}
	if c.Infill.StraighteningAngle == 0 {
		c.Infill.StraighteningAngle = def.StraighteningAngle
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheFile
	}
	if c.Cache.TTL.Duration == 0 {
		c.Cache.TTL.Duration = 7 * 24 * time.Hour
	}
	if c.Cache.Redis.Addr == "" {
		c.Cache.Redis.Addr = "localhost:6379"
	}
	if c.Store.Backend == "" {
		c.Store.Backend = StoreMemory
	}
	if c.Store.MongoURI == "" {
		c.Store.MongoURI = "mongodb://localhost:27017"
	}
	if c.Store.Database == "" {
		c.Store.Database = "lightning"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.RequestTimeout.Duration == 0 {
		c.Server.RequestTimeout.Duration = 2 * time.Minute
	}
	if c.Server.MaxBodyBytes == 0 {
		c.Server.MaxBodyBytes = 32 << 20
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if !slices.Contains([]string{KernelExact, KernelSDFX}, c.Kernel) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown kernel %q", c.Kernel)
	}
	if err := c.Infill.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "infill")
	}
	if !slices.Contains([]string{CacheFile, CacheRedis, CacheNone}, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must not be negative")
	}
	if !slices.Contains([]string{StoreMemory, StoreMongo}, c.Store.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", c.Store.Backend)
	}
	if c.Server.MaxBodyBytes < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server max_body_bytes must not be negative")
	}
	return nil
}

// Load reads path on top of the defaults and validates the result. An empty
// path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Write encodes the configuration as TOML.
func (c *Config) Write(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
