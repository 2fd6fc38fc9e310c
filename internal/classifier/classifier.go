// Package classifier maps free post text to a market sentiment, a set of
// asset tickers and a set of hashtags using keyword matching. It holds no
// mutable state: the keyword tables are fixed at construction.
package classifier

import (
	"regexp"
	"strings"

	"github.com/kolboard/kolboard/internal/models"
)

// AssetPattern maps a ticker symbol to its alias keywords. Aliases are
// matched case-insensitively as substrings.
type AssetPattern struct {
	Symbol  string   `json:"symbol"`
	Aliases []string `json:"aliases"`
}

// Config is the immutable keyword configuration of a Classifier. Detected
// assets are reported in the order the patterns are declared here, not in
// the order they appear in the text.
type Config struct {
	BullishKeywords []string       `json:"bullish_keywords"`
	BearishKeywords []string       `json:"bearish_keywords"`
	Assets          []AssetPattern `json:"assets"`
	FallbackAsset   string         `json:"fallback_asset"`
	MaxTags         int            `json:"max_tags"`
}

// Result is the full classification of one text.
type Result struct {
	Sentiment models.Sentiment
	Assets    []string
	Tags      []string
}

type Classifier struct {
	cfg Config
}

func New(cfg Config) *Classifier {
	return &Classifier{cfg: cfg}
}

var hashtagRe = regexp.MustCompile(`#\w+`)

// Classify is total and deterministic: any input, including the empty
// string, yields a result.
func (c *Classifier) Classify(text string) Result {
	return Result{
		Sentiment: c.Sentiment(text),
		Assets:    c.DetectAssets(text),
		Tags:      c.ExtractTags(text),
	}
}

// Sentiment scores the text against the bullish and bearish keyword lists.
// Every occurrence of every keyword counts; keywords are not deduplicated
// against each other. The branch order matters: the >=2 gate is checked
// before the plain majority fallback, and ties are always neutral.
func (c *Classifier) Sentiment(text string) models.Sentiment {
	lower := strings.ToLower(text)

	var bullScore, bearScore int
	for _, kw := range c.cfg.BullishKeywords {
		bullScore += strings.Count(lower, kw)
	}
	for _, kw := range c.cfg.BearishKeywords {
		bearScore += strings.Count(lower, kw)
	}

	switch {
	case bullScore > bearScore && bullScore >= 2:
		return models.SentimentBullish
	case bearScore > bullScore && bearScore >= 2:
		return models.SentimentBearish
	case bullScore > bearScore:
		return models.SentimentBullish
	case bearScore > bullScore:
		return models.SentimentBearish
	default:
		return models.SentimentNeutral
	}
}

// DetectAssets returns the tickers whose alias lists match the text, in
// declaration order. A text that matches nothing gets the fallback asset.
func (c *Classifier) DetectAssets(text string) []string {
	lower := strings.ToLower(text)

	var found []string
	for _, asset := range c.cfg.Assets {
		for _, alias := range asset.Aliases {
			if strings.Contains(lower, alias) {
				found = append(found, asset.Symbol)
				break
			}
		}
	}
	if len(found) == 0 {
		return []string{c.cfg.FallbackAsset}
	}
	return found
}

// ExtractTags collects hashtags, lower-cased, deduplicated in first-seen
// order and capped at MaxTags.
func (c *Classifier) ExtractTags(text string) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, tag := range hashtagRe.FindAllString(text, -1) {
		tag = strings.ToLower(tag)
		if seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
		if len(tags) == c.cfg.MaxTags {
			break
		}
	}
	return tags
}

// JoinAssets encodes multiple detected tickers as the separator-joined
// string persisted on an Opinion, e.g. "BTC + ETH".
func JoinAssets(assets []string) string {
	return strings.Join(assets, " + ")
}

// SplitAssets is the inverse of JoinAssets, trimming whitespace around each
// ticker.
func SplitAssets(joined string) []string {
	parts := strings.Split(joined, "+")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
