package models

import "errors"

// ErrKOLExists is returned when creating a KOL whose id is already registered.
var ErrKOLExists = errors.New("kol already exists")

// ErrKOLNotFound is returned when a KOL id does not resolve to a record.
var ErrKOLNotFound = errors.New("kol not found")

// Sentiment is a directional market call. A KOL carries one as a static bias,
// an Opinion carries one derived per post; the two are independent.
type Sentiment string

const (
	SentimentBullish Sentiment = "bullish"
	SentimentBearish Sentiment = "bearish"
	SentimentNeutral Sentiment = "neutral"
)

// KOL is a tracked commentator. The id is a stable slug, unique across the
// collection, and never changes after creation.
type KOL struct {
	ID          string    `json:"id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Handle      string    `json:"handle" validate:"required"`
	Avatar      string    `json:"avatar,omitempty"`
	Bias        Sentiment `json:"bias" validate:"required,oneof=bullish bearish neutral"`
	Credibility int       `json:"credibility" validate:"gte=0,lte=100"`
	Tags        []string  `json:"tags"`
	TwitterURL  string    `json:"twitterUrl,omitempty" validate:"omitempty,url"`
	Verified    bool      `json:"verified,omitempty"`
	Followers   string    `json:"followers,omitempty"`
	AddedAt     string    `json:"addedAt,omitempty"`
}

// KOLPatch carries a partial admin edit. Nil fields are left untouched.
type KOLPatch struct {
	Name        *string    `json:"name,omitempty"`
	Handle      *string    `json:"handle,omitempty"`
	Avatar      *string    `json:"avatar,omitempty"`
	Bias        *Sentiment `json:"bias,omitempty" validate:"omitempty,oneof=bullish bearish neutral"`
	Credibility *int       `json:"credibility,omitempty" validate:"omitempty,gte=0,lte=100"`
	Tags        *[]string  `json:"tags,omitempty"`
	TwitterURL  *string    `json:"twitterUrl,omitempty" validate:"omitempty,url"`
	Verified    *bool      `json:"verified,omitempty"`
	Followers   *string    `json:"followers,omitempty"`
}

// Apply copies the non-nil patch fields onto k.
func (p KOLPatch) Apply(k *KOL) {
	if p.Name != nil {
		k.Name = *p.Name
	}
	if p.Handle != nil {
		k.Handle = *p.Handle
	}
	if p.Avatar != nil {
		k.Avatar = *p.Avatar
	}
	if p.Bias != nil {
		k.Bias = *p.Bias
	}
	if p.Credibility != nil {
		k.Credibility = *p.Credibility
	}
	if p.Tags != nil {
		k.Tags = *p.Tags
	}
	if p.TwitterURL != nil {
		k.TwitterURL = *p.TwitterURL
	}
	if p.Verified != nil {
		k.Verified = *p.Verified
	}
	if p.Followers != nil {
		k.Followers = *p.Followers
	}
}
