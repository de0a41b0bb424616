// Package config loads beer's runtime configuration.
//
// Values come from, in decreasing priority: command-line flags bound by the
// CLI, BEER_* environment variables, a beer.yaml (or .toml/.json) config
// file, and the defaults set in [SetDefaults].
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// AppName names config, cache, state and data directories.
const AppName = "beer"

// EnvPrefix is the prefix of environment overrides, e.g. BEER_REGISTRY.
const EnvPrefix = "BEER"

// CacheConfig controls the manifest cache.
type CacheConfig struct {
	Dir      string        `mapstructure:"dir"`
	TTL      time.Duration `mapstructure:"ttl"`
	Disabled bool          `mapstructure:"disabled"`
}

// StoreConfig selects and configures the installed-marker backend.
type StoreConfig struct {
	Backend   string `mapstructure:"backend"` // file, memory, redis or mongo
	Dir       string `mapstructure:"dir"`
	RedisAddr string `mapstructure:"redis_addr"`
	MongoURI  string `mapstructure:"mongo_uri"`
	MongoDB   string `mapstructure:"mongo_db"`
}

// Config holds all runtime configuration.
type Config struct {
	Registry       string      `mapstructure:"registry"` // Base URL or local directory
	Root           string      `mapstructure:"root"`     // Install root for checkouts
	Jobs           int         `mapstructure:"jobs"`
	ResolveWorkers int         `mapstructure:"resolve_workers"`
	CommandPolicy  string      `mapstructure:"command_policy"`
	Git            string      `mapstructure:"git"`
	Verbose        bool        `mapstructure:"verbose"`
	Cache          CacheConfig `mapstructure:"cache"`
	Store          StoreConfig `mapstructure:"store"`
}

// Store backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// New returns a viper instance with defaults, environment binding and the
// config search path set up. If file is non-empty it is used instead of
// searching.
func New(file string) *viper.Viper {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(AppName)
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, AppName))
		}
	}
	return v
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("registry", "")
	v.SetDefault("root", defaultRoot())
	v.SetDefault("jobs", 4)
	v.SetDefault("resolve_workers", 8)
	v.SetDefault("command_policy", "continue")
	v.SetDefault("git", "git")
	v.SetDefault("verbose", false)
	v.SetDefault("cache.dir", defaultCacheDir())
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("cache.disabled", false)
	v.SetDefault("store.backend", BackendFile)
	v.SetDefault("store.dir", "")
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("store.mongo_db", AppName)
}

// Load reads the config file, if any, and decodes v into a Config. A missing
// config file is not an error.
func Load(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c Config) Validate() error {
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative")
	}
	if c.ResolveWorkers < 0 {
		return fmt.Errorf("resolve_workers must not be negative")
	}
	switch c.Store.Backend {
	case BackendFile, BackendMemory, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	return nil
}

// RegistryIsURL reports whether Registry names an HTTP registry rather than
// a local directory.
func (c Config) RegistryIsURL() bool {
	return strings.HasPrefix(c.Registry, "http://") || strings.HasPrefix(c.Registry, "https://")
}

func defaultRoot() string {
	if data := os.Getenv("XDG_DATA_HOME"); data != "" {
		return filepath.Join(data, AppName, "packages")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", AppName, "packages")
	}
	return filepath.Join(os.TempDir(), AppName, "packages")
}

func defaultCacheDir() string {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", AppName)
	}
	return filepath.Join(os.TempDir(), AppName, "cache")
}
