// Package query is the read side of the board: side-effect-free lookups
// over the flat-file store, joining opinions with their KOL records.
package query

import (
	"fmt"
	"strings"

	"github.com/kolboard/kolboard/internal/classifier"
	"github.com/kolboard/kolboard/internal/models"
)

// Store is the subset of the file store the read API needs.
type Store interface {
	LoadKOLs() ([]models.KOL, error)
	LoadOpinions(date string) ([]models.Opinion, error)
	ListAvailableDates() ([]string, error)
}

type Service struct {
	store Store
}

func New(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) KOLs() ([]models.KOL, error) {
	return s.store.LoadKOLs()
}

func (s *Service) AvailableDates() ([]string, error) {
	return s.store.ListAvailableDates()
}

// LatestDate returns the most recent date with opinions, or "" when the
// store is empty.
func (s *Service) LatestDate() (string, error) {
	dates, err := s.store.ListAvailableDates()
	if err != nil {
		return "", err
	}
	if len(dates) == 0 {
		return "", nil
	}
	return dates[0], nil
}

// OpinionsWithKOLs returns the opinions of one date joined with their
// authors. Opinions whose kolId resolves to no KOL are dropped from the
// view; the records stay untouched in the partition file.
func (s *Service) OpinionsWithKOLs(date string) ([]models.OpinionWithKOL, error) {
	ops, err := s.store.LoadOpinions(date)
	if err != nil {
		return nil, fmt.Errorf("load opinions for %s: %w", date, err)
	}
	kols, err := s.store.LoadKOLs()
	if err != nil {
		return nil, fmt.Errorf("load kols: %w", err)
	}

	byID := make(map[string]models.KOL, len(kols))
	for _, k := range kols {
		byID[k.ID] = k
	}

	joined := make([]models.OpinionWithKOL, 0, len(ops))
	for _, op := range ops {
		kol, ok := byID[op.KOLID]
		if !ok {
			continue
		}
		joined = append(joined, models.OpinionWithKOL{Opinion: op, KOL: kol})
	}
	return joined, nil
}

// FilterByAsset keeps the opinions whose separator-joined asset string
// contains the requested ticker, case-insensitively.
func FilterByAsset(ops []models.OpinionWithKOL, asset string) []models.OpinionWithKOL {
	want := strings.ToUpper(strings.TrimSpace(asset))
	if want == "" {
		return ops
	}
	var out []models.OpinionWithKOL
	for _, op := range ops {
		for _, a := range classifier.SplitAssets(op.Asset) {
			if strings.EqualFold(a, want) {
				out = append(out, op)
				break
			}
		}
	}
	return out
}

// Stats is the per-date sentiment tally rendered on the board header.
type Stats struct {
	Date    string `json:"date"`
	Total   int    `json:"total"`
	Bullish int    `json:"bullish"`
	Bearish int    `json:"bearish"`
	Neutral int    `json:"neutral"`
}

// StatsForDate tallies sentiments over the joined (resolvable) opinions of
// one date.
func (s *Service) StatsForDate(date string) (Stats, error) {
	ops, err := s.OpinionsWithKOLs(date)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{Date: date, Total: len(ops)}
	for _, op := range ops {
		switch op.Sentiment {
		case models.SentimentBullish:
			stats.Bullish++
		case models.SentimentBearish:
			stats.Bearish++
		default:
			stats.Neutral++
		}
	}
	return stats, nil
}
