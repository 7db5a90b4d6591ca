package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/splitgrid/pkg/cache"
	"github.com/matzehuels/splitgrid/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the preview cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached previews",
		Long: `Clear all cached previews from the file cache. Entries in a Redis cache
expire on their own and are left alone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Cache.Backend != config.BackendFile {
				consoleFor(cmd).info("Cache backend is %s; nothing to clear locally", cfg.Cache.Backend)
				return nil
			}
			dir, err := fileCacheDir(cfg)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			return clearCache(consoleFor(cmd), dir)
		},
	}
}

func clearCache(out console, dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		out.info("Cache is empty")
		return nil
	}

	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return err
	}
	count, err := fc.Purge()
	if err != nil {
		return err
	}

	out.success("Cleared %d cached entries", count)
	out.detail("Directory: %s", dir)
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			dir, err := fileCacheDir(cfg)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

func fileCacheDir(cfg config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cacheDir()
}
