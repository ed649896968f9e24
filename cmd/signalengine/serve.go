package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"trading-signalsv1/config"
	"trading-signalsv1/internal/api"
	"trading-signalsv1/internal/logger"
)

// newServeCmd creates the serve command
func newServeCmd(cfg func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP signal API",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			c := cfg()
			if addr != "" {
				c.HTTPAddr = addr
			}
			return runServe(c)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (overrides HTTP_ADDR)")
	return cmd
}

func runServe(cfg *config.Config) error {
	log := logger.Component("serve")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p := buildPipeline(ctx, cfg, wireOptions{withCache: true, withNotifier: true, withContext: true})
	defer p.Close()

	srv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: api.NewRouter(&api.Server{
			Analyzer: p.analyzer,
			Symbols:  cfg.Symbols,
			Health:   p.health,
			Metrics:  p.metrics.Handler(),
			Timeout:  3*cfg.ProviderTimeout + 5*time.Second,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.HTTPAddr, "version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
