package cli

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/songsort/internal/config"
	"github.com/matzehuels/songsort/internal/server"
	"github.com/matzehuels/songsort/pkg/catalog"
	"github.com/matzehuels/songsort/pkg/session"
)

func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ranking API for a web front end",
		Long: `Serve a JSON API that runs one ranking session at a time.

If a catalog is configured, a session over its songs is started right away.
The server shuts down gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("listen", "", "address to listen on (default 127.0.0.1:8080)")
	cmd.Flags().StringP("strategy", "s", "", "default sort strategy")
	cmd.Flags().Bool("clean-imports", false, "drop redundant imported decisions by default")
	cmd.Flags().String("catalog", "", "start a session over this catalog")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg *config.Config) error {
	logger := loggerFromContext(ctx)
	g, ctx := errgroup.WithContext(ctx)

	sessions := session.NewManager(ctx, session.Options{Logger: logger})
	if cfg.Catalog != "" {
		cat, err := catalog.Load(cfg.Catalog)
		if err != nil {
			return err
		}
		if _, err := sessions.Start(cat.Items(), cfg.Strategy); err != nil {
			return err
		}
		printInfo("Started a session over %d songs from %s", len(cat.Songs), cfg.Catalog)
	}

	srv := server.New(sessions, server.Options{
		Logger:       logger,
		Strategy:     cfg.Strategy,
		CleanImports: cfg.CleanImports,
	})

	g.Go(func() error {
		return srv.ListenAndServe(ctx, cfg.Listen)
	})
	g.Go(func() error {
		<-ctx.Done()
		sessions.Close()
		return nil
	})

	printInfo("Serving on http://%s", cfg.Listen)
	return g.Wait()
}
