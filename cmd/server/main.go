package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/wallasnipe/wallasnipe/internal/ai"
	"github.com/wallasnipe/wallasnipe/internal/auth"
	"github.com/wallasnipe/wallasnipe/internal/config"
	"github.com/wallasnipe/wallasnipe/internal/ingest"
	"github.com/wallasnipe/wallasnipe/internal/scraper"
	"github.com/wallasnipe/wallasnipe/internal/storage"
	"github.com/wallasnipe/wallasnipe/internal/transport/rest"
)

func main() {
	slog.Info("Starting Wallasnipe API server...")

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Critical error loading configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	store, err := storage.New(cfg.Postgres.DSN())
	if err != nil {
		slog.Error("Critical error initializing Postgres", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	selectors, err := scraper.LoadConfig()
	if err != nil {
		slog.Warn("Failed to load selectors. Using defaults.", "error", err)
		selectors = scraper.DefaultSelectors()
	}

	chat, err := ai.New(ctx, cfg.Chat)
	if err != nil {
		slog.Error("Critical error initializing chat client", "error", err)
		os.Exit(1)
	}

	server := rest.New(cfg, rest.Deps{
		Store:    store,
		Verifier: auth.New(cfg.Auth),
		Ingestor: ingest.New(store),
		Chat:     chat,
		Searcher: scraper.New(cfg.Scraper, selectors),
	})

	// Graceful shutdown on SIGTERM/SIGINT
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
		sig := <-sigCh
		slog.Info("Received signal, shutting down gracefully...", "signal", sig)

		if err := server.Shutdown(cfg.Server.ShutdownTimeout); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("Server listening", "port", cfg.Server.Port)
	if err := server.Listen(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
	slog.Info("Server shut down cleanly")
}
