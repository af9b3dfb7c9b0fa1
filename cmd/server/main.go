package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"microhub/internal/api"
	"microhub/internal/core"
	"microhub/internal/service"
	"microhub/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "microhub: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := core.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := core.NewLogger(cfg.LogLevel)

	st, err := buildStore(cfg)
	if err != nil {
		return fmt.Errorf("build store: %w", err)
	}

	svc := service.NewService(st, cfg, logger)

	// Probe the store once at startup. A failure is worth knowing about
	// immediately, but the server still comes up: the store may recover.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := svc.Ping(ctx); err != nil {
		logger.Warn("store probe failed at startup", "err", err)
	}
	cancel()

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.NewRouter(svc, logger),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", cfg.ListenAddr, "backend", cfg.StoreBackend)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

func buildStore(cfg *core.Config) (store.Client, error) {
	switch cfg.StoreBackend {
	case core.BackendFS:
		return store.NewFS(cfg.DataDir), nil
	case core.BackendGitHub:
		return store.NewGitHub(context.Background(), store.GitHubOptions{
			Token:  cfg.GitHubToken,
			Owner:  cfg.GitHubOwner,
			Repo:   cfg.GitHubRepo,
			Branch: cfg.GitHubBranch,
		}), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
