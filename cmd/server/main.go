package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/kolboard/kolboard/internal/builder"
	"github.com/kolboard/kolboard/internal/classifier"
	"github.com/kolboard/kolboard/internal/config"
	"github.com/kolboard/kolboard/internal/fetcher"
	"github.com/kolboard/kolboard/internal/ingest"
	"github.com/kolboard/kolboard/internal/models"
	"github.com/kolboard/kolboard/internal/query"
	"github.com/kolboard/kolboard/internal/server"
	"github.com/kolboard/kolboard/internal/store"
)

// disabledFetcher stands in when no Apify token is configured. The rest of
// the API stays usable; only ingestion runs fail.
type disabledFetcher struct{}

func (disabledFetcher) FetchPosts(context.Context, []string, int) ([]models.RawPost, error) {
	return nil, errors.New("tweet ingestion unavailable: APIFY_TOKEN not configured")
}

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment as-is")
	}

	slog.Info("Starting KOL board server...")
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Critical error loading configuration", "error", err)
		os.Exit(1)
	}

	st, err := store.New(cfg.DataDir)
	if err != nil {
		slog.Error("Critical error initializing data store", "error", err)
		os.Exit(1)
	}

	var posts ingest.PostFetcher = disabledFetcher{}
	if cfg.ApifyToken != "" {
		apify, err := fetcher.NewApify(cfg.ApifyToken, cfg.ApifyActor)
		if err != nil {
			slog.Error("Critical error initializing Apify client", "error", err)
			os.Exit(1)
		}
		posts = apify
	}

	b := builder.New(classifier.New(classifier.DefaultConfig()))
	driver := ingest.New(st, posts, b)
	srv := server.New(st, query.New(st), driver, fetcher.NewArticle(), b)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.FetchTimeout + time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
		sig := <-sigCh
		slog.Info("Received signal, shutting down gracefully...", "signal", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		}
	}()

	slog.Info("Listening on port", "port", cfg.Port, "dataDir", cfg.DataDir)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Failed to listen and serve", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped.")
}
