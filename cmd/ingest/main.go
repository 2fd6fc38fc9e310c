// Command ingest runs one ingestion pass from the command line, for cron
// jobs and manual backfills.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/kolboard/kolboard/internal/builder"
	"github.com/kolboard/kolboard/internal/classifier"
	"github.com/kolboard/kolboard/internal/config"
	"github.com/kolboard/kolboard/internal/fetcher"
	"github.com/kolboard/kolboard/internal/ingest"
	"github.com/kolboard/kolboard/internal/store"
)

func main() {
	handles := flag.String("handles", "", "comma-separated Twitter handles (default: every configured KOL)")
	max := flag.Int("max", 0, "max posts per handle (default: INGEST_MAX_PER_HANDLE)")
	dryRun := flag.Bool("dry-run", false, "classify and preview without saving")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment as-is")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Critical error loading configuration", "error", err)
		os.Exit(1)
	}
	if cfg.ApifyToken == "" {
		slog.Error("APIFY_TOKEN is required for ingestion runs")
		os.Exit(1)
	}

	st, err := store.New(cfg.DataDir)
	if err != nil {
		slog.Error("Critical error initializing data store", "error", err)
		os.Exit(1)
	}
	apify, err := fetcher.NewApify(cfg.ApifyToken, cfg.ApifyActor)
	if err != nil {
		slog.Error("Critical error initializing Apify client", "error", err)
		os.Exit(1)
	}

	opts := ingest.Options{MaxPerHandle: cfg.MaxPerHandle, DryRun: *dryRun}
	if *max > 0 {
		opts.MaxPerHandle = *max
	}
	if *handles != "" {
		for _, h := range strings.Split(*handles, ",") {
			if h = strings.TrimSpace(h); h != "" {
				opts.Handles = append(opts.Handles, h)
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.FetchTimeout)
	defer cancel()

	driver := ingest.New(st, apify, builder.New(classifier.New(classifier.DefaultConfig())))
	report, err := driver.Ingest(ctx, opts)
	if err != nil {
		slog.Error("Ingestion run failed", "error", err)
		os.Exit(1)
	}

	if report.DryRun {
		fmt.Printf("Dry run: %d fetched, %d classified (%d bullish / %d bearish / %d neutral)\n",
			report.Fetched, report.Classified, report.Bullish, report.Bearish, report.Neutral)
		for _, op := range report.Preview {
			fmt.Printf("  [%s] %-8s %-10s %s\n", op.Sentiment, op.Asset, op.KOLID, op.Title)
		}
		return
	}

	fmt.Printf("Saved %d opinions (%d duplicates, %d unmatched, %d noise)\n",
		report.Saved, report.Duplicates, report.SkippedUnmatched, report.SkippedNoise)
	if len(report.Errors) > 0 {
		for _, e := range report.Errors {
			fmt.Fprintln(os.Stderr, "error:", e)
		}
		os.Exit(1)
	}
}
