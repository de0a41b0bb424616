package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	t.Setenv("XDG_CACHE_HOME", "/cache")

	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load(New(""))
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"Registry", cfg.Registry, ""},
		{"Root", cfg.Root, filepath.Join("/data", "beer", "packages")},
		{"Jobs", cfg.Jobs, 4},
		{"ResolveWorkers", cfg.ResolveWorkers, 8},
		{"CommandPolicy", cfg.CommandPolicy, "continue"},
		{"Git", cfg.Git, "git"},
		{"Verbose", cfg.Verbose, false},
		{"Cache.Dir", cfg.Cache.Dir, filepath.Join("/cache", "beer")},
		{"Cache.TTL", cfg.Cache.TTL, 24 * time.Hour},
		{"Store.Backend", cfg.Store.Backend, BackendFile},
		{"Store.MongoDB", cfg.Store.MongoDB, "beer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BEER_REGISTRY", "https://registry.example.com")
	t.Setenv("BEER_JOBS", "9")
	t.Setenv("BEER_CACHE_TTL", "1h")
	t.Setenv("BEER_STORE_BACKEND", "redis")

	cfg, err := Load(New(""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Registry != "https://registry.example.com" || !cfg.RegistryIsURL() {
		t.Errorf("Registry = %q", cfg.Registry)
	}
	if cfg.Jobs != 9 {
		t.Errorf("Jobs = %d", cfg.Jobs)
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("Cache.TTL = %v", cfg.Cache.TTL)
	}
	if cfg.Store.Backend != BackendRedis {
		t.Errorf("Store.Backend = %q", cfg.Store.Backend)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beer.yaml")
	data := []byte(`registry: ./formulas
jobs: 2
command_policy: abort
store:
  backend: memory
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(New(path))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Registry != "./formulas" || cfg.RegistryIsURL() {
		t.Errorf("Registry = %q", cfg.Registry)
	}
	if cfg.Jobs != 2 || cfg.CommandPolicy != "abort" || cfg.Store.Backend != BackendMemory {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	base := Config{Store: StoreConfig{Backend: BackendFile}}
	bad := []Config{
		{Jobs: -1, Store: base.Store},
		{ResolveWorkers: -1, Store: base.Store},
		{Store: StoreConfig{Backend: "sqlite"}},
	}
	if err := base.Validate(); err != nil {
		t.Errorf("base config invalid: %v", err)
	}
	for _, c := range bad {
		if err := c.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil", c)
		}
	}
}
