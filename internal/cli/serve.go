package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lightning/pkg/api"
	"github.com/matzehuels/lightning/pkg/config"
	"github.com/matzehuels/lightning/pkg/observability"
	"github.com/matzehuels/lightning/pkg/store"
)

const shutdownTimeout = 30 * time.Second

// serveCommand creates the serve command, which runs the HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the infill HTTP service",
		Long: `Run the infill HTTP service.

Clients submit layer stacks to POST /v1/jobs and fetch the lines and layer
previews of finished jobs. The cache and job store backends come from the
configuration file ([cache] and [store] tables).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, workers)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "maximum concurrent jobs (default: GOMAXPROCS)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, workers int) error {
	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)

	runner, err := c.newRunner(ctx, false)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer runner.Close()

	jobs, err := c.newStore(ctx)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := jobs.Close(closeCtx); err != nil {
			c.Logger.Warn("close store", "err", err)
		}
	}()

	cfg := c.Config
	srv := api.New(runner, jobs, c.Logger.WithPrefix("api"), api.Options{
		Settings:          cfg.Infill,
		Kernel:            cfg.Kernel,
		MaxBodyBytes:      cfg.Server.MaxBodyBytes,
		RequestTimeout:    cfg.Server.RequestTimeout.Duration,
		MaxConcurrentJobs: workers,
	})

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr, "cache", cfg.Cache.Backend, "store", cfg.Store.Backend)
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		c.Logger.Warn("shutdown", "err", err)
	}
	srv.Wait()
	return nil
}

// newStore opens the configured job store.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	cfg := c.Config.Store
	if cfg.Backend == config.StoreMongo {
		c.Logger.Debug("connecting to MongoDB", "database", cfg.Database)
		return store.NewMongoStore(ctx, cfg.MongoURI, cfg.Database)
	}
	return store.NewMemoryStore(), nil
}
