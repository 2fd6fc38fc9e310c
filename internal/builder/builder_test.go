package builder

import (
	"strings"
	"testing"
	"time"

	"github.com/kolboard/kolboard/internal/classifier"
	"github.com/kolboard/kolboard/internal/models"
)

var testKOL = models.KOL{
	ID:     "saylor",
	Name:   "Michael Saylor",
	Handle: "@saylor",
	Bias:   models.SentimentBullish,
}

func newTestBuilder() *Builder {
	fixed := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	return NewWithClock(classifier.New(classifier.DefaultConfig()), func() time.Time { return fixed })
}

func TestBuild(t *testing.T) {
	b := newTestBuilder()
	post := models.RawPost{
		ID:        "1764000000",
		Text:      "short text",
		FullText:  "Bitcoin is hope.\nSecond line ignored in title. #btc",
		Author:    "saylor",
		CreatedAt: time.Date(2024, 3, 14, 23, 30, 0, 0, time.UTC),
		Likes:     5000,
		Retweets:  3000,
		Replies:   120,
	}

	op := b.Build(post, testKOL, models.SourceTwitter)

	if op.ID != "tw-saylor-1764000000" {
		t.Errorf("ID = %q, want tw-saylor-1764000000", op.ID)
	}
	if op.KOLID != "saylor" {
		t.Errorf("KOLID = %q", op.KOLID)
	}
	if op.Title != "Bitcoin is hope." {
		t.Errorf("Title = %q, want first line of full text", op.Title)
	}
	if !strings.Contains(op.Content, "Second line") {
		t.Errorf("Content should keep the full text, got %q", op.Content)
	}
	if op.SourceURL != "https://twitter.com/saylor/status/1764000000" {
		t.Errorf("SourceURL = %q", op.SourceURL)
	}
	if !strings.HasPrefix(op.Asset, "BTC") {
		t.Errorf("Asset = %q, want BTC detected", op.Asset)
	}
	// 5000 + 2*3000 = 11000 -> round(11)+3 = 14 -> clamped to 10
	if op.Confidence != 10 {
		t.Errorf("Confidence = %d, want 10", op.Confidence)
	}
	if op.Engagement == nil || op.Engagement.Likes != 5000 || op.Engagement.Retweets != 3000 || op.Engagement.Replies != 120 {
		t.Errorf("Engagement = %+v", op.Engagement)
	}
	if op.Market != nil {
		t.Error("Market should be nil at creation time")
	}
	if op.Category != "market-analysis" {
		t.Errorf("Category = %q", op.Category)
	}
	if op.DateKey() != "2024-03-14" {
		t.Errorf("DateKey = %q, want publishedAt date", op.DateKey())
	}
	if op.AddedAt.IsZero() || op.AddedAt.Equal(op.PublishedAt) {
		t.Error("AddedAt should be the ingestion time, distinct from PublishedAt")
	}
}

func TestBuild_FallsBackToShortText(t *testing.T) {
	b := newTestBuilder()
	post := models.RawPost{ID: "1", Text: "only short", CreatedAt: time.Now()}
	op := b.Build(post, testKOL, models.SourceTwitter)
	if op.Content != "only short" {
		t.Errorf("Content = %q", op.Content)
	}

	empty := b.Build(models.RawPost{ID: "2", CreatedAt: time.Now()}, testKOL, models.SourceTwitter)
	if empty.Content != "" {
		t.Errorf("empty post Content = %q, want empty string", empty.Content)
	}
	if empty.Asset != "CRYPTO" {
		t.Errorf("empty post Asset = %q, want CRYPTO sentinel", empty.Asset)
	}
}

func TestBuild_KeepsExplicitURL(t *testing.T) {
	b := newTestBuilder()
	post := models.RawPost{ID: "9", Text: "x", URL: "https://example.com/status/9", CreatedAt: time.Now()}
	op := b.Build(post, testKOL, models.SourceTwitter)
	if op.SourceURL != "https://example.com/status/9" {
		t.Errorf("SourceURL = %q, want the post's own URL", op.SourceURL)
	}
}

func TestBuild_IDStableAcrossRuns(t *testing.T) {
	b := newTestBuilder()
	post := models.RawPost{ID: "42", Text: "hodl", CreatedAt: time.Now()}
	a := b.Build(post, testKOL, models.SourceTwitter)
	c := b.Build(post, testKOL, models.SourceTwitter)
	if a.ID != c.ID {
		t.Errorf("ids differ across runs: %q vs %q", a.ID, c.ID)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short unchanged", "short title", "short title"},
		{"exactly max unchanged", strings.Repeat("a", 80), strings.Repeat("a", 80)},
		{"long gets ellipsis", strings.Repeat("a", 81), strings.Repeat("a", 77) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.in, titleMaxLen); got != tt.want {
				t.Errorf("truncate(%d chars) = %q, want %q", len(tt.in), got, tt.want)
			}
		})
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		likes, retweets, want int
	}{
		{0, 0, 3},         // floor offset only
		{5000, 3000, 10},  // 11000 -> 14 -> clamp
		{1000, 0, 4},      // round(1)+3
		{400, 0, 3},       // round(0.4)=0
		{500, 0, 4},       // round(0.5)=1 (half away from zero)
		{7000, 0, 10},     // exactly at ceiling
	}
	for _, tt := range tests {
		if got := confidence(tt.likes, tt.retweets); got != tt.want {
			t.Errorf("confidence(%d, %d) = %d, want %d", tt.likes, tt.retweets, got, tt.want)
		}
	}
}
