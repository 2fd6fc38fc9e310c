package models

import "time"

// RawPost is the minimal shape contract with the external post source: an id,
// some text, an attributed author handle, a creation time and engagement
// counters. Anything beyond that is source-specific and dropped at the edge.
type RawPost struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	FullText  string    `json:"full_text,omitempty"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	URL       string    `json:"url,omitempty"`
	Likes     int       `json:"likes"`
	Retweets  int       `json:"retweets"`
	Replies   int       `json:"replies"`
}

// Body returns the canonical text of the post: the full-text variant when the
// source provides one, else the short text.
func (p RawPost) Body() string {
	if p.FullText != "" {
		return p.FullText
	}
	return p.Text
}
