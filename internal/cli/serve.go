package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mockup/internal/api"
	"github.com/matzehuels/mockup/pkg/scene"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		noCache  bool
		cacheTTL time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve projects over an HTTP JSON API",
		Long: `Serve the configured project store over HTTP. Every request loads a
project, applies one operation and saves it, so the CLI and the server can
share a store. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			st, owned, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			if owned {
				defer st.Close()
			}
			cat, err := c.newCatalog()
			if err != nil {
				return err
			}
			srv := api.New(st,
				api.WithLogger(c.Logger),
				api.WithCatalog(cat),
				api.WithCache(newArtifactCache(noCache)),
				api.WithArtifactTTL(cacheTTL),
				api.WithHistoryLimit(c.cfg.Editor.HistoryLimit),
				api.WithGrid(scene.Grid{Size: c.cfg.Editor.GridSize, Enabled: c.cfg.Editor.Snap}),
			)
			printInfo("Serving %s on %s", c.cfg.Store.Backend, StyleLink.Render("http://"+addr))
			return srv.ListenAndServe(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "do not cache rendered diagrams")
	cmd.Flags().DurationVar(&cacheTTL, "cache-ttl", 24*time.Hour, "how long rendered diagrams stay cached (0 keeps them)")
	return cmd
}
