package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DataDir      string
	Port         string
	ApifyToken   string
	ApifyActor   string
	MaxPerHandle int
	FetchTimeout time.Duration
}

func Load() (*Config, error) {
	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
		slog.Info("Defaulting to data directory", "dir", dataDir)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
		slog.Info("Defaulting to port", "port", port)
	}

	apifyToken := os.Getenv("APIFY_TOKEN")
	if apifyToken == "" {
		apifyToken = os.Getenv("APIFY_API_KEY")
	}
	if apifyToken == "" {
		slog.Warn("APIFY_TOKEN not set, tweet ingestion will be unavailable")
	}

	apifyActor := os.Getenv("APIFY_ACTOR")
	if apifyActor == "" {
		apifyActor = "apidojo~tweet-scraper"
	}

	maxPerHandle := 10
	if v := os.Getenv("INGEST_MAX_PER_HANDLE"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid INGEST_MAX_PER_HANDLE %q", v)
		}
		maxPerHandle = parsed
	}

	fetchTimeoutStr := os.Getenv("FETCH_TIMEOUT")
	if fetchTimeoutStr == "" {
		fetchTimeoutStr = "2m"
	}
	fetchTimeout, err := time.ParseDuration(fetchTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_TIMEOUT %q: %w", fetchTimeoutStr, err)
	}

	return &Config{
		DataDir:      dataDir,
		Port:         port,
		ApifyToken:   apifyToken,
		ApifyActor:   apifyActor,
		MaxPerHandle: maxPerHandle,
		FetchTimeout: fetchTimeout,
	}, nil
}
