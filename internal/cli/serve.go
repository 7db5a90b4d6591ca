package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/splitgrid/pkg/config"
	"github.com/matzehuels/splitgrid/pkg/server"
	"github.com/matzehuels/splitgrid/pkg/workspace"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve stored layouts over HTTP.

The server uses the store and cache configured in the config file, so a
[store] backend of "mongo" and a [cache] backend of "redis" let several
instances share documents and previews. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withRunner(cmd.Context(), func(cfg config.Config, runner *workspace.Runner) error {
				if addr == "" {
					addr = cfg.Server.Addr
				}
				return c.runServe(cmd.Context(), consoleFor(cmd), cfg, runner, addr)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: config server.addr)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, out console, cfg config.Config, runner *workspace.Runner, addr string) error {
	out.success("Serving layouts on %s", StyleLink.Render(baseURL(addr)))
	out.detail("Store: %s  Cache: %s", cfg.Store.Backend, cfg.Cache.Backend)
	out.detail("Press Ctrl+C to stop")

	return server.New(runner, c.Logger).ListenAndServe(ctx, addr)
}

// baseURL turns a listen address into a URL for display.
func baseURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
