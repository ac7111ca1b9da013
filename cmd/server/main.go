package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/inamate/chartview/internal/config"
	"github.com/inamate/chartview/internal/hub"
	"github.com/inamate/chartview/internal/store"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if err := run(); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.DatabaseURL == "" {
		slog.Info("using in-memory snapshot store")
		return store.NewMemory(), nil
	}
	return store.NewPostgres(ctx, cfg.DatabaseURL)
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	g, ctx := errgroup.WithContext(ctx)

	var charts *registry
	h := hub.New(func(ctx context.Context, msg *hub.Message) error {
		return charts.handleMessage(ctx, msg)
	})
	charts = newRegistry(ctx, cfg, st, h)
	if err := charts.restore(ctx); err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      newRouter(&handler{charts: charts, hub: h, origins: cfg.Origins()}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g.Go(func() error {
		return h.Run(ctx)
	})
	g.Go(func() error {
		slog.Info("server starting", "addr", addr, "devMode", cfg.DevMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
