package classifier

import (
	"reflect"
	"testing"

	"github.com/kolboard/kolboard/internal/models"
)

func TestSentiment(t *testing.T) {
	c := New(DefaultConfig())

	tests := []struct {
		name string
		text string
		want models.Sentiment
	}{
		{
			name: "two bullish matches",
			text: "$BTC to the moon, huge breakout incoming",
			want: models.SentimentBullish,
		},
		{
			name: "single bullish match still wins",
			text: "eyeing a breakout here",
			want: models.SentimentBullish,
		},
		{
			name: "single bearish match still wins",
			text: "this looks like a bubble",
			want: models.SentimentBearish,
		},
		{
			name: "one bull one bear ties to neutral",
			text: "moon or crash, who knows",
			want: models.SentimentNeutral,
		},
		{
			name: "no keywords",
			text: "just had lunch",
			want: models.SentimentNeutral,
		},
		{
			name: "repeated keyword counts per occurrence",
			text: "pump pump and a crash",
			want: models.SentimentBullish,
		},
		{
			name: "bearish majority",
			text: "sell now, total capitulation, this is dead",
			want: models.SentimentBearish,
		},
		{
			name: "empty input",
			text: "",
			want: models.SentimentNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Sentiment(tt.text); got != tt.want {
				t.Errorf("Sentiment(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestSentiment_Deterministic(t *testing.T) {
	c := New(DefaultConfig())
	text := "accumulate $ETH on every dip #ethereum"
	first := c.Classify(text)
	for i := 0; i < 10; i++ {
		if got := c.Classify(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("Classify not deterministic: run %d got %+v, want %+v", i, got, first)
		}
	}
}

func TestDetectAssets(t *testing.T) {
	c := New(DefaultConfig())

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single ticker via cashtag",
			text: "$BTC to the moon",
			want: []string{"BTC"},
		},
		{
			name: "multiple tickers in declaration order",
			text: "ethereum will flip bitcoin one day",
			want: []string{"BTC", "ETH"},
		},
		{
			name: "fallback sentinel",
			text: "just had lunch",
			want: []string{"CRYPTO"},
		},
		{
			name: "stock alias",
			text: "jensen keeps shipping",
			want: []string{"NVDA"},
		},
		{
			name: "empty input",
			text: "",
			want: []string{"CRYPTO"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.DetectAssets(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DetectAssets(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractTags(t *testing.T) {
	c := New(DefaultConfig())

	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercased and deduplicated",
			text: "#Bitcoin is #BITCOIN is #bitcoin",
			want: []string{"#bitcoin"},
		},
		{
			name: "capped at five in first-seen order",
			text: "#a #b #c #d #e #f #g",
			want: []string{"#a", "#b", "#c", "#d", "#e"},
		},
		{
			name: "no hashtags",
			text: "plain text",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.ExtractTags(tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractTags(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestJoinAndSplitAssets(t *testing.T) {
	joined := JoinAssets([]string{"BTC", "ETH"})
	if joined != "BTC + ETH" {
		t.Errorf("JoinAssets = %q, want %q", joined, "BTC + ETH")
	}
	if got := SplitAssets(joined); !reflect.DeepEqual(got, []string{"BTC", "ETH"}) {
		t.Errorf("SplitAssets(%q) = %v", joined, got)
	}
	if got := SplitAssets("BTC"); !reflect.DeepEqual(got, []string{"BTC"}) {
		t.Errorf("SplitAssets single = %v", got)
	}
}
