// Package ingest orchestrates one ingestion run: resolve configured KOLs by
// handle, fetch their raw posts, classify each into an opinion and merge the
// results into the date-partitioned store.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/kolboard/kolboard/internal/builder"
	"github.com/kolboard/kolboard/internal/models"
)

const (
	// Neutral posts below this like count are dropped as noise. Directional
	// posts are kept regardless of engagement.
	noiseMinLikes = 100

	previewSize = 5
)

// OpinionStore abstracts the flat-file store for the driver.
type OpinionStore interface {
	LoadKOLs() ([]models.KOL, error)
	MergeAppend(date string, ops []models.Opinion) (added, skipped int, err error)
	SaveRawPosts(handle string, posts []models.RawPost) (string, error)
}

// PostFetcher abstracts the external raw-post source.
type PostFetcher interface {
	FetchPosts(ctx context.Context, handles []string, maxPerHandle int) ([]models.RawPost, error)
}

// Options select what one run covers. An empty Handles list means every
// configured KOL.
type Options struct {
	Handles      []string
	MaxPerHandle int
	DryRun       bool
}

type Driver struct {
	store   OpinionStore
	fetcher PostFetcher
	builder *builder.Builder
}

func New(store OpinionStore, fetcher PostFetcher, b *builder.Builder) *Driver {
	return &Driver{store: store, fetcher: fetcher, builder: b}
}

// normalizeHandle makes handle comparison case-insensitive and tolerant of
// a leading "@" on either side.
func normalizeHandle(h string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(h), "@"))
}

// Ingest performs one run and reports counts instead of failing silently.
// Unknown requested handles abort the run; posts attributed to handles
// without a KOL profile are skipped, not fatal.
func (d *Driver) Ingest(ctx context.Context, opts Options) (*models.IngestReport, error) {
	kols, err := d.store.LoadKOLs()
	if err != nil {
		return nil, fmt.Errorf("load kols: %w", err)
	}

	byHandle := make(map[string]models.KOL, len(kols))
	for _, k := range kols {
		byHandle[normalizeHandle(k.Handle)] = k
	}

	targets, err := resolveTargets(byHandle, kols, opts.Handles)
	if err != nil {
		return nil, err
	}

	handles := make([]string, 0, len(targets))
	for _, k := range targets {
		handles = append(handles, normalizeHandle(k.Handle))
	}
	report := &models.IngestReport{Handles: handles, DryRun: opts.DryRun}

	posts, err := d.fetcher.FetchPosts(ctx, handles, opts.MaxPerHandle)
	if err != nil {
		return nil, fmt.Errorf("fetch posts: %w", err)
	}
	report.Fetched = len(posts)
	if len(posts) == 0 {
		slog.Info("No posts fetched", "handles", handles)
		return report, nil
	}

	d.archiveRaw(posts)

	opinions := d.classify(posts, byHandle, report)
	report.Preview = preview(opinions)

	if opts.DryRun {
		slog.Info("Dry run complete, nothing saved",
			"classified", report.Classified, "bullish", report.Bullish,
			"bearish", report.Bearish, "neutral", report.Neutral)
		return report, nil
	}

	d.merge(opinions, report)

	slog.Info("Ingestion finished",
		"fetched", report.Fetched, "classified", report.Classified,
		"saved", report.Saved, "duplicates", report.Duplicates,
		"skippedUnmatched", report.SkippedUnmatched, "skippedNoise", report.SkippedNoise)
	return report, nil
}

// resolveTargets maps requested handles to KOL profiles, failing fast when
// any requested handle has no profile.
func resolveTargets(byHandle map[string]models.KOL, all []models.KOL, requested []string) ([]models.KOL, error) {
	if len(requested) == 0 {
		return all, nil
	}
	var targets []models.KOL
	var unmatched []string
	for _, h := range requested {
		kol, ok := byHandle[normalizeHandle(h)]
		if !ok {
			unmatched = append(unmatched, h)
			continue
		}
		targets = append(targets, kol)
	}
	if len(unmatched) > 0 {
		return nil, fmt.Errorf("no KOL profile for handle(s): %s", strings.Join(unmatched, ", "))
	}
	return targets, nil
}

// archiveRaw saves the raw fetch per author handle before any conversion,
// so classification changes can be replayed against original data.
func (d *Driver) archiveRaw(posts []models.RawPost) {
	grouped := make(map[string][]models.RawPost)
	for _, p := range posts {
		grouped[normalizeHandle(p.Author)] = append(grouped[normalizeHandle(p.Author)], p)
	}
	for handle, group := range grouped {
		path, err := d.store.SaveRawPosts(handle, group)
		if err != nil {
			slog.Warn("Failed to archive raw posts", "handle", handle, "error", err)
			continue
		}
		slog.Info("Archived raw posts", "handle", handle, "count", len(group), "path", path)
	}
}

func (d *Driver) classify(posts []models.RawPost, byHandle map[string]models.KOL, report *models.IngestReport) []models.Opinion {
	var opinions []models.Opinion
	for _, post := range posts {
		kol, ok := byHandle[normalizeHandle(post.Author)]
		if !ok {
			report.SkippedUnmatched++
			slog.Info("Skipping post with no matching KOL", "author", post.Author, "post", post.ID)
			continue
		}

		op := d.builder.Build(post, kol, models.SourceTwitter)
		report.Classified++

		if op.Sentiment == models.SentimentNeutral && op.Engagement.Likes < noiseMinLikes {
			report.SkippedNoise++
			continue
		}

		switch op.Sentiment {
		case models.SentimentBullish:
			report.Bullish++
		case models.SentimentBearish:
			report.Bearish++
		default:
			report.Neutral++
		}
		opinions = append(opinions, op)
	}
	return opinions
}

// merge groups opinions by publication date and merge-appends each group.
// Partition writes are independent: one failing date does not roll back the
// others, it is recorded on the report instead.
func (d *Driver) merge(opinions []models.Opinion, report *models.IngestReport) {
	byDate := make(map[string][]models.Opinion)
	for _, op := range opinions {
		byDate[op.DateKey()] = append(byDate[op.DateKey()], op)
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	for _, date := range dates {
		added, skipped, err := d.store.MergeAppend(date, byDate[date])
		if err != nil {
			slog.Error("Failed to save date partition", "date", date, "error", err)
			report.Errors = append(report.Errors, fmt.Sprintf("save %s: %v", date, err))
			continue
		}
		report.Saved += added
		report.Duplicates += skipped
		slog.Info("Merged opinions", "date", date, "added", added, "duplicates", skipped)
	}
}

func preview(opinions []models.Opinion) []models.Opinion {
	if len(opinions) <= previewSize {
		return opinions
	}
	return opinions[:previewSize]
}
