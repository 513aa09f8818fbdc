// Command emissions answers questions about per-capita CO2 emissions.
//
// Without arguments it runs the interactive session on stdin/stdout. With
// "serve" it exposes the same queries over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/emissions/internal/chart"
	"github.com/JonMunkholm/emissions/internal/config"
	"github.com/JonMunkholm/emissions/internal/console"
	"github.com/JonMunkholm/emissions/internal/core"
	"github.com/JonMunkholm/emissions/internal/logging"
	"github.com/JonMunkholm/emissions/internal/session"
	"github.com/JonMunkholm/emissions/internal/store"
	"github.com/JonMunkholm/emissions/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err == nil {
		slog.Debug("loaded .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	serve := len(os.Args) > 1 && os.Args[1] == "serve"

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, serve); err != nil {
		if errors.Is(err, io.EOF) {
			slog.Info("input closed, exiting")
			return
		}
		slog.Error("emissions failed", "error", err)
		fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, serve bool) error {
	table, err := core.Load(cfg.Data.File, cfg.Data.HeaderKey)
	if err != nil {
		return err
	}
	slog.Info("configuration loaded",
		"data_file", cfg.Data.File,
		"countries", table.Len(),
		"years", table.Width(),
		"publish", cfg.Database.PublishEnabled(),
	)

	opts := core.Options{
		MinYear:     cfg.Data.MinYear,
		MaxYear:     cfg.Data.MaxYear,
		ExportCount: cfg.Export.Count,
	}
	if cfg.Database.PublishEnabled() {
		pool, err := store.Connect(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()

		publisher := store.NewPublisher(pool)
		if err := publisher.EnsureSchema(ctx); err != nil {
			return err
		}
		opts.Publisher = publisher
	}

	service := core.NewService(table, opts)
	renderer := chart.NewRenderer(cfg.Chart.Dir, cfg.Chart.Width, cfg.Chart.Height,
		chart.NewLimiter(cfg.Chart.MaxConcurrent, cfg.Chart.MaxWait))

	if serve {
		return runServer(ctx, cfg, service, renderer)
	}
	return session.New(service, console.New(os.Stdin, os.Stdout), renderer, cfg.Export.File).Run(ctx)
}

func runServer(ctx context.Context, cfg *config.Config, service *core.Service, renderer *chart.Renderer) error {
	server := web.NewServer(service, renderer, cfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if status := renderer.Limiter().Status(); status.Active > 0 {
		slog.Info("waiting for charts to finish", "active", status.Active)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		return err
	}
	slog.Info("server stopped")
	return nil
}
