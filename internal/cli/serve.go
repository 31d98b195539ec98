package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphpad/internal/api"
	"github.com/matzehuels/graphpad/pkg/cache"
	"github.com/matzehuels/graphpad/pkg/metrics"
	"github.com/matzehuels/graphpad/pkg/session"
)

// serveCommand creates the serve command for the local HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		backend string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve [graph-id]",
		Short: "Serve a graph over the local HTTP API",
		Long: `Serve a graph over the local HTTP API.

The graph is loaded from the configured store (see [store] in the config
file); a missing or empty graph starts from a three-node default. Metrics
are exposed at /metrics in Prometheus format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Server.Addr = addr
			}
			if backend != "" {
				c.Config.Store.Backend = backend
			}
			return c.runServe(cmd.Context(), args[0], noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", api.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&backend, "store", "", "store backend: file, redis, mongo, memory (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable analytics caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, graphID string, noCache bool) error {
	st, err := c.openStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	sess, err := session.Open(ctx, st, graphID, session.Options{
		Width:  c.Config.Canvas.Width,
		Height: c.Config.Canvas.Height,
		Logger: c.Logger,
	})
	if err != nil {
		return fmt.Errorf("open graph %s: %w", graphID, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	runner.Keyer = cache.NewScopedKeyer(runner.Keyer, "graph:"+graphID+":")

	reg := metrics.DefaultRegistry()
	reg.Register()

	srv := api.New(sess, api.Options{
		AllowedOrigins: c.Config.Server.AllowedOrigins,
		Runner:         runner,
		Metrics:        reg,
		Logger:         c.Logger,
	})

	addr := c.Config.Server.Addr
	if addr == "" {
		addr = api.DefaultAddr
	}
	printSuccess("Serving %s", graphID)
	printKeyValue("Address", "http://"+addr)
	printKeyValue("Store", c.Config.Store.Backend)
	printKeyValue("Session", sess.ID)

	return srv.ListenAndServe(ctx, addr)
}
