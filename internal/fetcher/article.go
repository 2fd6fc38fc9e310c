package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/kolboard/kolboard/internal/models"
)

// ArticleFetcher pulls a single blog post or article page and reduces it to
// the RawPost shape so it can flow through the same classification pipeline
// as tweets. Engagement counters stay zero; blogs expose none.
type ArticleFetcher struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewArticle() *ArticleFetcher {
	return &ArticleFetcher{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
}

// FetchArticle downloads the page at rawURL and extracts its title and body
// text. The URL doubles as the post id, which keeps re-imports of the same
// article idempotent downstream.
func (f *ArticleFetcher) FetchArticle(ctx context.Context, rawURL string) (models.RawPost, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return models.RawPost{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return models.RawPost{}, fmt.Errorf("create article request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return models.RawPost{}, fmt.Errorf("fetch article %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.RawPost{}, fmt.Errorf("fetch article %s: status %d", rawURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return models.RawPost{}, fmt.Errorf("parse article %s: %w", rawURL, err)
	}

	post := extractArticle(doc)
	post.ID = rawURL
	post.URL = rawURL
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	return post, nil
}

// extractArticle prefers OpenGraph metadata and falls back to the document
// structure. Title becomes the first content line so the builder derives
// the opinion title from it.
func extractArticle(doc *goquery.Document) models.RawPost {
	var post models.RawPost

	title, _ := doc.Find(`meta[property="og:title"]`).Attr("content")
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	var paragraphs []string
	container := doc.Find("article")
	if container.Length() == 0 {
		container = doc.Selection
	}
	container.Find("p").Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})

	if published, ok := doc.Find(`meta[property="article:published_time"]`).Attr("content"); ok {
		if t, err := time.Parse(time.RFC3339, published); err == nil {
			post.CreatedAt = t
		}
	}

	body := strings.Join(paragraphs, "\n\n")
	if title != "" {
		post.FullText = title + "\n" + body
	} else {
		post.FullText = body
	}
	post.Text = post.FullText
	return post
}
