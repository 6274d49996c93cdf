package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/lightning/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", appName); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	custom := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", custom)

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join(custom, appName); dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestFileCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/xdg")

	tests := []struct {
		name    string
		cfg     config.CacheConfig
		want    string
		wantErr bool
	}{
		{"default", config.CacheConfig{Backend: config.CacheFile}, filepath.Join("/xdg", appName), false},
		{"configured", config.CacheConfig{Backend: config.CacheFile, Dir: "/var/cache/infill"}, "/var/cache/infill", false},
		{"redis", config.CacheConfig{Backend: config.CacheRedis}, "", true},
		{"none", config.CacheConfig{Backend: config.CacheNone}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &CLI{Config: config.Default()}
			c.Config.Cache = tt.cfg
			got, err := c.fileCacheDir()
			if (err != nil) != tt.wantErr {
				t.Fatalf("fileCacheDir() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("fileCacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}
