// Package fetcher obtains raw posts from external sources: the Apify tweet
// scraper for twitter handles and plain article pages for blog posts.
package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/kolboard/kolboard/internal/models"
)

const defaultActor = "apidojo~tweet-scraper"

type ApifyClient struct {
	token      string
	actor      string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
}

// NewApify builds a client for the Apify run-sync API. The token is
// required; a missing one is a configuration error surfaced immediately
// rather than on first use.
func NewApify(token, actor string) (*ApifyClient, error) {
	if token == "" {
		return nil, fmt.Errorf("missing Apify API token: set APIFY_API_KEY or APIFY_TOKEN")
	}
	if actor == "" {
		actor = defaultActor
	}
	return &ApifyClient{
		token:      token,
		actor:      actor,
		baseURL:    "https://api.apify.com",
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		// Actor runs are slow and billed; one concurrent run per second is plenty.
		limiter:    rate.NewLimiter(rate.Every(time.Second), 1),
		maxRetries: 3,
	}, nil
}

type apifyRunInput struct {
	TwitterHandles     []string `json:"twitterHandles"`
	MaxItems           int      `json:"maxItems"`
	AddUserInfo        bool     `json:"addUserInfo"`
	ScrapeTweetReplies bool     `json:"scrapeTweetReplies"`
}

type apifyTweet struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	FullText string `json:"full_text"`
	Created  string `json:"created_at"`
	URL      string `json:"url"`
	User     struct {
		ScreenName string `json:"screen_name"`
	} `json:"user"`
	RetweetCount  int `json:"retweet_count"`
	FavoriteCount int `json:"favorite_count"`
	ReplyCount    int `json:"reply_count"`
}

// FetchPosts runs the tweet-scraper actor for the given handles and returns
// every tweet it produced, mapped to the minimal RawPost shape. Handles are
// passed without their leading "@".
func (c *ApifyClient) FetchPosts(ctx context.Context, handles []string, maxPerHandle int) ([]models.RawPost, error) {
	clean := make([]string, 0, len(handles))
	for _, h := range handles {
		clean = append(clean, strings.TrimPrefix(h, "@"))
	}

	input := apifyRunInput{
		TwitterHandles: clean,
		MaxItems:       maxPerHandle * len(clean),
		AddUserInfo:    true,
	}
	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("marshal actor input: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items?token=%s",
		c.baseURL, c.actor, url.QueryEscape(c.token))

	slog.Info("Starting Apify actor run", "handles", clean, "maxItems", input.MaxItems)

	var tweets []apifyTweet
	err = c.withRetry(ctx, c.maxRetries, func() error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create actor request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("run actor: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return fmt.Errorf("actor run failed: status %s: %s", resp.Status, snippet)
		}

		tweets = nil
		if err := json.NewDecoder(resp.Body).Decode(&tweets); err != nil {
			return fmt.Errorf("decode dataset items: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	posts := make([]models.RawPost, 0, len(tweets))
	for _, tw := range tweets {
		created, err := parseTweetTime(tw.Created)
		if err != nil {
			slog.Warn("Skipping tweet with unparseable timestamp", "id", tw.ID, "created_at", tw.Created)
			continue
		}
		posts = append(posts, models.RawPost{
			ID:        tw.ID,
			Text:      tw.Text,
			FullText:  tw.FullText,
			Author:    tw.User.ScreenName,
			CreatedAt: created,
			URL:       tw.URL,
			Likes:     tw.FavoriteCount,
			Retweets:  tw.RetweetCount,
			Replies:   tw.ReplyCount,
		})
	}
	slog.Info("Fetched tweets", "count", len(posts))
	return posts, nil
}

// withRetry runs fn with exponential backoff. Attempts are 0-indexed; the
// context aborts the wait between attempts.
func (c *ApifyClient) withRetry(ctx context.Context, maxRetries int, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == maxRetries {
			break
		}
		backoff := time.Duration(1<<attempt) * time.Second
		slog.Warn("Apify request failed, retrying", "attempt", attempt+1, "backoff", backoff, "error", lastErr)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}

// parseTweetTime accepts both ISO timestamps and twitter's legacy
// "Mon Jan 02 15:04:05 -0700 2006" format, which the scraper emits
// depending on actor version.
func parseTweetTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RubyDate, s)
}
