// Package cli implements the splitgrid command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/splitgrid/pkg/buildinfo"
	"github.com/matzehuels/splitgrid/pkg/cache"
	"github.com/matzehuels/splitgrid/pkg/config"
	"github.com/matzehuels/splitgrid/pkg/observability"
	"github.com/matzehuels/splitgrid/pkg/store"
	"github.com/matzehuels/splitgrid/pkg/workspace"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "splitgrid"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// status receives connection progress while stores and caches open.
	status console

	configPath string
	noCache    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level), status: console{w: w}}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Splitgrid arranges panes in a recursive split layout",
		Long:         `Splitgrid keeps named layouts of resizable panes. Each layout is a tree of horizontal and vertical splits that can be split, moved, resized and rendered from the terminal, an interactive editor or an HTTP API.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			hooks := &logHooks{logger: c.Logger}
			observability.SetGridHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/splitgrid/config.toml)")
	root.PersistentFlags().BoolVar(&c.noCache, "no-cache", false, "disable the preview cache")

	// Register all subcommands
	root.AddCommand(c.newCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.deleteCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.splitCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.resizeCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.distributeCommand())
	root.AddCommand(c.collapseCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.tuiCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	for _, cmd := range root.Commands() {
		if strings.Contains(cmd.Use, " DOC") {
			cmd.ValidArgsFunction = c.completeDocuments
		}
	}

	return root
}

// =============================================================================
// Config & Runner Factory
// =============================================================================

// loadConfig reads --config, or the default path when the flag is unset. A
// missing default file is not an error.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.configPath != "" {
		return config.Load(c.configPath, false)
	}
	path, err := config.DefaultPath()
	if err != nil {
		return config.Default(), nil
	}
	return config.Load(path, true)
}

// newRunner creates a workspace runner backed by the configured store and
// cache. The caller must Close it.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config) (*workspace.Runner, error) {
	st, err := c.openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	ch := c.openCache(ctx, cfg)
	runner := workspace.NewRunner(st, ch, cache.NewScopedKeyer(buildinfo.Version, nil), loggerFromContext(ctx))
	runner.TTL = cfg.Cache.TTL.Duration
	return runner, nil
}

func (c *CLI) openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return store.NewMemoryStore(), nil
	case config.BackendMongo:
		return connect(ctx, c.status, "MongoDB", func(ctx context.Context) (store.Store, error) {
			return store.NewMongoStore(ctx, store.MongoOptions{
				URI:        cfg.Store.Mongo.URI,
				Database:   cfg.Store.Mongo.Database,
				Collection: cfg.Store.Mongo.Collection,
			})
		})
	default:
		dir := cfg.Store.Dir
		if dir == "" {
			d, err := dataDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		return store.NewFileStore(dir)
	}
}

// openCache never fails: an unusable cache only costs recomputation, so it
// degrades to a null cache with a warning.
func (c *CLI) openCache(ctx context.Context, cfg config.Config) cache.Cache {
	if c.noCache || cfg.Cache.Backend == config.BackendNone {
		return cache.NewNullCache()
	}
	switch cfg.Cache.Backend {
	case config.BackendRedis:
		rc, err := connect(ctx, c.status, "Redis", func(ctx context.Context) (cache.Cache, error) {
			return cache.NewRedisCache(ctx, cache.RedisOptions{
				URL:    cfg.Cache.Redis.URL,
				Prefix: cfg.Cache.Redis.Prefix,
			})
		})
		if err != nil {
			c.Logger.Warn("redis cache unavailable, caching disabled", "error", err)
			return cache.NewNullCache()
		}
		return rc
	default:
		dir, err := fileCacheDir(cfg)
		if err != nil {
			return cache.NewNullCache()
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			c.Logger.Warn("file cache unavailable, caching disabled", "dir", dir, "error", err)
			return cache.NewNullCache()
		}
		return fc
	}
}

// withRunner loads config, opens a runner, calls fn and closes the runner.
func (c *CLI) withRunner(ctx context.Context, fn func(config.Config, *workspace.Runner) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()
	return fn(cfg, runner)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/splitgrid/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// dataDir returns the document directory (~/.local/share/splitgrid/documents/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName, "documents"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName, "documents"), nil
}
