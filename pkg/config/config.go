// Package config loads the TOML file that overrides built-in defaults.
//
// Every section is optional and every key inside a section is optional:
// values absent from the file keep their defaults. Unknown keys are an error,
// so a typo never silently falls back to a default.
//
//	[cache]
//	backend = "redis"
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[layout]
//	attempts = 60
//
//	[grid]
//	time_budget = "500ms"
//
//	[tiers.hard]
//	target = 0.12
//	trials = 800
package config

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/circuitgen/pkg/cache"
	"github.com/matzehuels/circuitgen/pkg/errors"
	"github.com/matzehuels/circuitgen/pkg/gen"
	"github.com/matzehuels/circuitgen/pkg/gridlayout"
	"github.com/matzehuels/circuitgen/pkg/sim/pathsolver"
	"github.com/matzehuels/circuitgen/pkg/tier"
	"github.com/matzehuels/circuitgen/pkg/tuning"
)

const appName = "circuitgen"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend string            `toml:"backend"`
	Dir     string            `toml:"dir"`
	Redis   cache.RedisConfig `toml:"redis"`
}

// Tiers holds one profile per tier.
type Tiers struct {
	Easy   tier.Profile `toml:"easy"`
	Medium tier.Profile `toml:"medium"`
	Hard   tier.Profile `toml:"hard"`
}

// Config is the complete set of tunable values.
type Config struct {
	Cache  CacheConfig        `toml:"cache"`
	Layout gen.LayoutOptions  `toml:"layout"`
	Grid   gridlayout.Options `toml:"grid"`
	Tuning tuning.Options     `toml:"tuning"`
	Solver pathsolver.Options `toml:"solver"`
	Tiers  Tiers              `toml:"tiers"`
}

// Default returns the built-in configuration.
func Default() *Config {
	t := tier.DefaultTable()
	return &Config{
		Cache:  CacheConfig{Backend: BackendFile},
		Layout: gen.DefaultLayoutOptions(),
		Grid:   gridlayout.DefaultOptions(),
		Tuning: tuning.DefaultOptions(),
		Solver: pathsolver.DefaultOptions(),
		Tiers:  Tiers{Easy: t[tier.Easy], Medium: t[tier.Medium], Hard: t[tier.Hard]},
	}
}

// Load reads path on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, nil
}

// LoadOrDefault loads path when given. With an empty path it loads the file
// at [DefaultPath] if one exists and returns the defaults otherwise.
func LoadOrDefault(path string) (*Config, error) {
	if path != "" {
		return Load(path)
	}
	def, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(def); err != nil {
		return Default(), nil
	}
	return Load(def)
}

// DefaultPath returns $XDG_CONFIG_HOME/circuitgen/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the configured cache directory or the XDG default.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Table returns the tier profiles as a lookup table.
func (c *Config) Table() tier.Table {
	return tier.Table{
		tier.Easy:   c.Tiers.Easy,
		tier.Medium: c.Tiers.Medium,
		tier.Hard:   c.Tiers.Hard,
	}
}

// Profile returns the profile for t.
func (c *Config) Profile(t tier.Tier) tier.Profile { return c.Table().Profile(t) }

// Validate checks every section.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache.redis.addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if err := c.Grid.Validate(); err != nil {
		return err
	}
	if err := c.Tuning.Validate(); err != nil {
		return err
	}
	if c.Solver.MaxNodes <= 0 || c.Solver.MaxSolutions <= 0 || c.Solver.MaxExpansions <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "solver budgets must be positive")
	}
	return c.Table().Validate()
}

// OpenCache builds the configured backend.
func (c *Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.Cache.Redis)
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir, err := c.CacheDir()
	if err != nil {
		return nil, err
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}
