package models

// IngestReport summarizes one ingestion run. Counts are reported instead of
// failing silently; partial per-date write failures land in Errors.
type IngestReport struct {
	Handles          []string  `json:"handles"`
	Fetched          int       `json:"fetched"`
	Classified       int       `json:"classified"`
	SkippedUnmatched int       `json:"skippedUnmatched"`
	SkippedNoise     int       `json:"skippedNoise"`
	Duplicates       int       `json:"duplicates"`
	Saved            int       `json:"saved"`
	Bullish          int       `json:"bullish"`
	Bearish          int       `json:"bearish"`
	Neutral          int       `json:"neutral"`
	DryRun           bool      `json:"dryRun"`
	Preview          []Opinion `json:"preview,omitempty"`
	Errors           []string  `json:"errors,omitempty"`
}
