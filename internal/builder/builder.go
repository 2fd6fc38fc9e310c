// Package builder turns a raw scraped post plus a KOL profile into a
// persisted Opinion record.
package builder

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/kolboard/kolboard/internal/classifier"
	"github.com/kolboard/kolboard/internal/models"
)

const (
	titleMaxLen = 80

	// Confidence is engagement-derived: retweets weigh double, the sum is
	// normalized by 1000, offset by +3 so zero-engagement posts land
	// mid-scale, then clamped to [1, 10].
	retweetWeight    = 2
	engagementNorm   = 1000
	confidenceFloor  = 1
	confidenceCeil   = 10
	confidenceOffset = 3

	defaultCategory = "market-analysis"
)

// sourcePrefixes keep opinion ids short while staying unique per source.
var sourcePrefixes = map[models.SourceType]string{
	models.SourceTwitter:    "tw",
	models.SourceBlog:       "blog",
	models.SourceYouTube:    "yt",
	models.SourceInterview:  "iv",
	models.SourceNewsletter: "nl",
}

type Builder struct {
	classifier *classifier.Classifier
	now        func() time.Time
}

func New(c *classifier.Classifier) *Builder {
	return &Builder{classifier: c, now: time.Now}
}

// NewWithClock is used by tests that need a fixed AddedAt.
func NewWithClock(c *classifier.Classifier, now func() time.Time) *Builder {
	return &Builder{classifier: c, now: now}
}

// Build converts post into an Opinion attributed to kol. The caller is
// responsible for having matched post.Author to kol beforehand; Build does
// not re-check the attribution.
func (b *Builder) Build(post models.RawPost, kol models.KOL, source models.SourceType) models.Opinion {
	text := post.Body()
	res := b.classifier.Classify(text)

	handle := strings.TrimPrefix(kol.Handle, "@")
	sourceURL := post.URL
	if sourceURL == "" {
		sourceURL = fmt.Sprintf("https://twitter.com/%s/status/%s", handle, post.ID)
	}

	firstLine, _, _ := strings.Cut(text, "\n")

	return models.Opinion{
		ID:          OpinionID(source, kol.ID, post.ID),
		KOLID:       kol.ID,
		Title:       truncate(firstLine, titleMaxLen),
		Content:     text,
		SourceType:  source,
		SourceURL:   sourceURL,
		Sentiment:   res.Sentiment,
		Asset:       classifier.JoinAssets(res.Assets),
		Confidence:  confidence(post.Likes, post.Retweets),
		Tags:        res.Tags,
		Category:    defaultCategory,
		PublishedAt: post.CreatedAt,
		AddedAt:     b.now().UTC(),
		Engagement: &models.Engagement{
			Likes:    post.Likes,
			Retweets: post.Retweets,
			Replies:  post.Replies,
		},
		Market: nil,
	}
}

// OpinionID derives the stable opinion identity from the source type, the
// KOL and the source post id. Re-ingesting the same post yields the same id;
// the store's merge step relies on that for idempotence.
func OpinionID(source models.SourceType, kolID, postID string) string {
	prefix, ok := sourcePrefixes[source]
	if !ok {
		prefix = string(source)
	}
	return fmt.Sprintf("%s-%s-%s", prefix, kolID, postID)
}

// truncate cuts s to maxLen runes, appending "..." only when something was
// actually cut.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}

func confidence(likes, retweets int) int {
	score := likes + retweets*retweetWeight
	c := int(math.Round(float64(score)/engagementNorm)) + confidenceOffset
	if c < confidenceFloor {
		return confidenceFloor
	}
	if c > confidenceCeil {
		return confidenceCeil
	}
	return c
}
