package fetcher

import (
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const articleHTML = `<!doctype html>
<html>
<head>
<title>Fallback Title</title>
<meta property="og:title" content="Why I Am Long Bitcoin">
<meta property="article:published_time" content="2024-03-14T09:00:00Z">
</head>
<body>
<article>
<h1>Why I Am Long Bitcoin</h1>
<p>The halving changes everything.</p>
<p>Institutional adoption is accelerating.</p>
</article>
</body>
</html>`

func TestExtractArticle(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(articleHTML))
	if err != nil {
		t.Fatal(err)
	}

	post := extractArticle(doc)

	firstLine, _, _ := strings.Cut(post.FullText, "\n")
	if firstLine != "Why I Am Long Bitcoin" {
		t.Errorf("first line = %q, want og:title", firstLine)
	}
	if !strings.Contains(post.FullText, "halving changes everything") {
		t.Errorf("body paragraphs missing from %q", post.FullText)
	}
	want := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	if !post.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", post.CreatedAt, want)
	}
}

func TestExtractArticle_FallsBackToH1(t *testing.T) {
	html := `<html><head><title>Tab Title</title></head><body><h1> Heading </h1><p>Body.</p></body></html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	post := extractArticle(doc)
	firstLine, _, _ := strings.Cut(post.FullText, "\n")
	if firstLine != "Heading" {
		t.Errorf("first line = %q, want h1 text", firstLine)
	}
	if post.CreatedAt.IsZero() == false {
		t.Errorf("CreatedAt should stay zero without published_time meta, got %v", post.CreatedAt)
	}
}

func TestParseTweetTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-14T10:30:00Z", time.Date(2024, 3, 14, 10, 30, 0, 0, time.UTC)},
		{"Thu Mar 14 10:30:00 +0000 2024", time.Date(2024, 3, 14, 10, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseTweetTime(tt.in)
		if err != nil {
			t.Errorf("parseTweetTime(%q) error = %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseTweetTime(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := parseTweetTime("yesterday"); err == nil {
		t.Error("parseTweetTime should reject unknown formats")
	}
}
