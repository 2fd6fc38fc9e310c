package models

import (
	"errors"
	"time"
)

// ErrOpinionExists is returned when appending an opinion whose id is already
// present in its date partition.
var ErrOpinionExists = errors.New("opinion already exists")

// ErrOpinionNotFound is returned when an opinion id does not exist in the
// requested date partition.
var ErrOpinionNotFound = errors.New("opinion not found")

type SourceType string

const (
	SourceTwitter    SourceType = "twitter"
	SourceBlog       SourceType = "blog"
	SourceYouTube    SourceType = "youtube"
	SourceInterview  SourceType = "interview"
	SourceNewsletter SourceType = "newsletter"
)

// Engagement mirrors the counters of the source post. Missing counters are
// stored as zero.
type Engagement struct {
	Likes    int `json:"likes"`
	Retweets int `json:"retweets"`
	Replies  int `json:"replies"`
}

// MarketCheckpoint is one price observation recorded while an opinion is
// being verified.
type MarketCheckpoint struct {
	Date   string  `json:"date"`
	Price  float64 `json:"price"`
	Change string  `json:"change"`
}

// MarketResult tracks how an opinion played out against the market. It is
// populated by an external price-verification process; this service only
// round-trips it.
type MarketResult struct {
	PriceAtPost   float64            `json:"priceAtPost"`
	CurrentPrice  float64            `json:"currentPrice"`
	PriceChange   string             `json:"priceChange"`
	Outcome       string             `json:"outcome"`
	Checkpoints   []MarketCheckpoint `json:"checkpoints,omitempty"`
	FinalVerified bool               `json:"finalVerified"`
	VerifiedAt    *string            `json:"verifiedAt"`
}

// Opinion is one classified post attributed to a KOL. Its id is derived from
// the source post so re-ingesting the same post yields the same id.
type Opinion struct {
	ID          string        `json:"id" validate:"required"`
	KOLID       string        `json:"kolId" validate:"required"`
	Title       string        `json:"title"`
	Content     string        `json:"content"`
	SourceType  SourceType    `json:"sourceType" validate:"required,oneof=twitter blog youtube interview newsletter"`
	SourceURL   string        `json:"sourceUrl" validate:"omitempty,url"`
	ArchiveURL  string        `json:"archiveUrl,omitempty" validate:"omitempty,url"`
	Sentiment   Sentiment     `json:"sentiment" validate:"required,oneof=bullish bearish neutral"`
	Asset       string        `json:"asset" validate:"required"`
	Confidence  int           `json:"confidence" validate:"gte=1,lte=10"`
	TargetPrice float64       `json:"targetPrice,omitempty"`
	Timeframe   string        `json:"timeframe,omitempty"`
	Tags        []string      `json:"tags"`
	Category    string        `json:"category,omitempty" validate:"omitempty,oneof=price-prediction risk-warning market-analysis trade-idea"`
	PublishedAt time.Time     `json:"publishedAt" validate:"required"`
	AddedAt     time.Time     `json:"addedAt"`
	Engagement  *Engagement   `json:"engagement,omitempty"`
	Market      *MarketResult `json:"marketResult"`
}

// DateKey returns the calendar date partition the opinion belongs to,
// derived from PublishedAt in UTC.
func (o Opinion) DateKey() string {
	return o.PublishedAt.UTC().Format("2006-01-02")
}

// OpinionWithKOL is the read-side join of an opinion and its author.
type OpinionWithKOL struct {
	Opinion
	KOL KOL `json:"kol"`
}
