package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/kstrandberg/uncouple/internal/api"
	"github.com/kstrandberg/uncouple/pkg/report"
)

// newServeCmd creates the serve command.
func newServeCmd() *cobra.Command {
	var (
		addr       string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Models are posted per request; run records are stored server-side. The run
store backend comes from the [server] section of the config file: Redis or
MongoDB when configured, otherwise in-process memory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), addr, configPath)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else :8080)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default: uncouple.toml if present)")

	return cmd
}

func runServe(ctx context.Context, addr, configPath string) error {
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}
	if addr == "" {
		addr = ":8080"
	}

	store, cleanup, err := newRunStore(ctx, cfg.Server)
	if err != nil {
		return err
	}
	defer cleanup()

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(store, cfg.Thresholds, logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// newRunStore builds the configured report store and a cleanup func.
func newRunStore(ctx context.Context, cfg ServerConfig) (report.Store, func(), error) {
	switch {
	case cfg.Redis != nil:
		store, err := report.NewRedisStore(ctx, cfg.redisConfig())
		if err != nil {
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	case cfg.Mongo != nil:
		store, err := report.NewMongoStore(ctx, cfg.mongoConfig())
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = store.Close(closeCtx)
		}, nil
	default:
		return report.NewMemoryStore(), func() {}, nil
	}
}
