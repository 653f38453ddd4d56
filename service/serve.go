package service

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"postsapi/app/config"
	"postsapi/app/repositories"
	"postsapi/app/routes"
	"postsapi/app/services"
)

func newServeCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadRuntime(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, cfg, log, nil)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	return cmd
}

// runServer serves the API until ctx ends, then shuts down gracefully.
// ready, when set, receives the bound address once the listener is open.
func runServer(ctx context.Context, cfg *config.Config, log zerolog.Logger, ready func(addr string)) error {
	base, err := repositories.Open(cfg.Store.Driver, cfg.Store.Path, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	store := repositories.WithTimeout(repositories.Instrument(base), cfg.Store.Timeout)
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()

	routeCfg := routes.Config{
		MountPath: cfg.Server.MountPath,
		Services: services.Options{
			FreshUpdateResponse: cfg.Compat.FreshUpdateResponse,
			EmptyCommentsOK:     cfg.Compat.EmptyCommentsOK,
		},
	}
	if cfg.Metrics.Enabled {
		routeCfg.MetricsPath = cfg.Metrics.Path
	}

	srv := &http.Server{
		Handler:      routes.SetupRoutes(store, log, routeCfg),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     newHTTPErrorLog(log),
	}

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Server.Addr, err)
	}
	log.Info().
		Str("addr", ln.Addr().String()).
		Str("mount_path", cfg.Server.MountPath).
		Str("store", cfg.Store.Driver).
		Msg("starting server")
	if ready != nil {
		ready(ln.Addr().String())
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}

// newHTTPErrorLog routes net/http's internal errors into log.
func newHTTPErrorLog(log zerolog.Logger) *stdlog.Logger {
	return stdlog.New(log.With().Str("component", "http").Logger(), "", 0)
}
