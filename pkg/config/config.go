// Package config loads splitgrid settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/splitgrid/config.toml (falling back to
// ~/.config/splitgrid/config.toml) unless --config names another path. Every
// field is optional; [Config.SetDefaults] fills the gaps:
//
//	[grid]
//	width = 120
//	height = 40
//	orientation = "horizontal"
//
//	[pane]
//	min_width = 8
//	min_height = 3
//
//	[store]
//	backend = "file"   # file, memory or mongo
//
//	[cache]
//	backend = "file"   # file, redis or none
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/splitgrid/pkg/core/grid"
	errs "github.com/matzehuels/splitgrid/pkg/errors"
)

const appName = "splitgrid"

// Defaults applied by [Config.SetDefaults].
const (
	DefaultWidth        = 120
	DefaultHeight       = 40
	DefaultMinWidth     = 8
	DefaultMinHeight    = 3
	DefaultStoreBackend = "file"
	DefaultCacheBackend = "file"
	DefaultCacheTTL     = 24 * time.Hour
	DefaultServerAddr   = ":8080"
)

// Backend names.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

var (
	storeBackends = []string{BackendFile, BackendMemory, BackendMongo}
	cacheBackends = []string{BackendFile, BackendRedis, BackendNone}
)

// Config is the full settings tree.
type Config struct {
	Grid   GridConfig   `toml:"grid"`
	Pane   PaneConfig   `toml:"pane"`
	Store  StoreConfig  `toml:"store"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// GridConfig sets the size and orientation of new documents.
type GridConfig struct {
	Width       float64          `toml:"width"`
	Height      float64          `toml:"height"`
	Orientation grid.Orientation `toml:"orientation"`
}

// PaneConfig sets constraints applied to panes created without explicit ones.
type PaneConfig struct {
	MinWidth  float64 `toml:"min_width"`
	MinHeight float64 `toml:"min_height"`
	Snap      bool    `toml:"snap"`
}

// StoreConfig selects the document store.
type StoreConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Mongo   MongoConfig `toml:"mongo"`
}

// MongoConfig holds MongoDB connection settings.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// CacheConfig selects the preview cache.
type CacheConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	TTL     Duration    `toml:"ttl"`
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	URL    string `toml:"url"`
	Prefix string `toml:"prefix"`
}

// ServerConfig configures `splitgrid serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a Go duration string ("90s", "24h").
type Duration struct{ time.Duration }

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns a config with every default applied.
func Default() Config {
	var c Config
	c.SetDefaults()
	return c
}

// SetDefaults fills zero-valued fields. Orientation defaults to horizontal as
// its zero value.
func (c *Config) SetDefaults() {
	if c.Grid.Width == 0 {
		c.Grid.Width = DefaultWidth
	}
	if c.Grid.Height == 0 {
		c.Grid.Height = DefaultHeight
	}
	if c.Pane.MinWidth == 0 {
		c.Pane.MinWidth = DefaultMinWidth
	}
	if c.Pane.MinHeight == 0 {
		c.Pane.MinHeight = DefaultMinHeight
	}
	if c.Store.Backend == "" {
		c.Store.Backend = DefaultStoreBackend
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = DefaultCacheBackend
	}
	if c.Cache.TTL.Duration == 0 {
		c.Cache.TTL.Duration = DefaultCacheTTL
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
}

// Validate checks ranges and backend names.
func (c *Config) Validate() error {
	if err := errs.ValidateDimension("grid.width", c.Grid.Width); err != nil {
		return err
	}
	if err := errs.ValidateDimension("grid.height", c.Grid.Height); err != nil {
		return err
	}
	if err := errs.ValidateDimension("pane.min_width", c.Pane.MinWidth); err != nil {
		return err
	}
	if err := errs.ValidateDimension("pane.min_height", c.Pane.MinHeight); err != nil {
		return err
	}
	if !slices.Contains(storeBackends, c.Store.Backend) {
		return errs.New(errs.ErrCodeInvalidInput, "unknown store backend %q (want %s)",
			c.Store.Backend, strings.Join(storeBackends, ", "))
	}
	if !slices.Contains(cacheBackends, c.Cache.Backend) {
		return errs.New(errs.ErrCodeInvalidInput, "unknown cache backend %q (want %s)",
			c.Cache.Backend, strings.Join(cacheBackends, ", "))
	}
	if c.Cache.TTL.Duration < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "cache.ttl must not be negative")
	}
	return nil
}

// DefaultPath returns the config file location.
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

// Load reads path, applies defaults and validates. A missing file yields the
// defaults when optional is true.
func Load(path string, optional bool) (Config, error) {
	var c Config
	md, err := toml.DecodeFile(path, &c)
	switch {
	case errors.Is(err, fs.ErrNotExist) && optional:
		return Default(), nil
	case errors.Is(err, fs.ErrNotExist):
		return Config{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "config %s", path)
	case err != nil:
		return Config{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errs.New(errs.ErrCodeInvalidInput, "unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Write encodes c as TOML.
func Write(c Config, w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
