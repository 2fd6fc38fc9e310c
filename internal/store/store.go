// Package store persists KOLs and opinions as flat JSON files under a data
// directory: kols.json holds the whole KOL collection, opinions/<date>.json
// holds the opinions published on that calendar date, and twitter-raw/
// archives raw fetches. Every write is a whole-file read-modify-write; the
// deployment assumes a single writer, so there is no locking and concurrent
// writers to the same file race at last-write-wins granularity.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kolboard/kolboard/internal/models"
)

const (
	kolsFile    = "kols.json"
	opinionsDir = "opinions"
	rawDir      = "twitter-raw"
)

// ErrCorruptFile marks a partition or collection file that exists but does
// not parse. Corruption is surfaced, never silently treated as empty.
var ErrCorruptFile = errors.New("corrupt data file")

type FileStore struct {
	dir string
}

// New creates a FileStore rooted at dir, creating the directory tree if
// needed.
func New(dir string) (*FileStore, error) {
	for _, d := range []string{dir, filepath.Join(dir, opinionsDir), filepath.Join(dir, rawDir)} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the data directory root.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) kolsPath() string {
	return filepath.Join(s.dir, kolsFile)
}

func (s *FileStore) opinionsPath(date string) string {
	return filepath.Join(s.dir, opinionsDir, date+".json")
}

// --- KOLs ---

// LoadKOLs reads the whole KOL collection. A missing kols.json is a
// configuration error, not an empty collection.
func (s *FileStore) LoadKOLs() ([]models.KOL, error) {
	data, err := os.ReadFile(s.kolsPath())
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", kolsFile, err)
	}
	var kols []models.KOL
	if err := json.Unmarshal(data, &kols); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptFile, kolsFile, err)
	}
	return kols, nil
}

// SaveKOLs replaces the whole KOL collection.
func (s *FileStore) SaveKOLs(kols []models.KOL) error {
	return writeJSON(s.kolsPath(), kols)
}

// GetKOL returns the KOL with the given id.
func (s *FileStore) GetKOL(id string) (models.KOL, error) {
	kols, err := s.LoadKOLs()
	if err != nil {
		return models.KOL{}, err
	}
	for _, k := range kols {
		if k.ID == id {
			return k, nil
		}
	}
	return models.KOL{}, models.ErrKOLNotFound
}

// AddKOL appends a KOL, rejecting duplicate ids.
func (s *FileStore) AddKOL(kol models.KOL) error {
	kols, err := s.LoadKOLs()
	if err != nil {
		// First KOL ever: create the collection.
		if errors.Is(err, fs.ErrNotExist) {
			kols = nil
		} else {
			return err
		}
	}
	for _, k := range kols {
		if k.ID == kol.ID {
			return models.ErrKOLExists
		}
	}
	return s.SaveKOLs(append(kols, kol))
}

// UpdateKOL applies a partial admin edit to the KOL with the given id.
func (s *FileStore) UpdateKOL(id string, patch models.KOLPatch) (models.KOL, error) {
	kols, err := s.LoadKOLs()
	if err != nil {
		return models.KOL{}, err
	}
	for i := range kols {
		if kols[i].ID == id {
			patch.Apply(&kols[i])
			if err := s.SaveKOLs(kols); err != nil {
				return models.KOL{}, err
			}
			return kols[i], nil
		}
	}
	return models.KOL{}, models.ErrKOLNotFound
}

// DeleteKOL removes the KOL with the given id. Opinions referencing it are
// left in place; the read API filters the dangling references.
func (s *FileStore) DeleteKOL(id string) error {
	kols, err := s.LoadKOLs()
	if err != nil {
		return err
	}
	filtered := kols[:0:0]
	for _, k := range kols {
		if k.ID != id {
			filtered = append(filtered, k)
		}
	}
	if len(filtered) == len(kols) {
		return models.ErrKOLNotFound
	}
	return s.SaveKOLs(filtered)
}

// --- Opinions ---

// LoadOpinions reads one date partition. A missing file means no opinions
// were published that day and yields an empty slice; an unparseable file is
// an error.
func (s *FileStore) LoadOpinions(date string) ([]models.Opinion, error) {
	data, err := os.ReadFile(s.opinionsPath(date))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read opinions %s: %w", date, err)
	}
	var ops []models.Opinion
	if err := json.Unmarshal(data, &ops); err != nil {
		return nil, fmt.Errorf("%w: opinions/%s.json: %v", ErrCorruptFile, date, err)
	}
	return ops, nil
}

// MergeAppend appends the opinions whose ids are not already present in the
// date partition and reports how many were added and how many were skipped
// as duplicates. Calling it twice with the same input is a no-op the second
// time.
func (s *FileStore) MergeAppend(date string, newOps []models.Opinion) (added, skipped int, err error) {
	existing, err := s.LoadOpinions(date)
	if err != nil {
		return 0, 0, err
	}

	existingIDs := make(map[string]bool, len(existing))
	for _, op := range existing {
		existingIDs[op.ID] = true
	}

	merged := existing
	for _, op := range newOps {
		if existingIDs[op.ID] {
			skipped++
			continue
		}
		existingIDs[op.ID] = true
		merged = append(merged, op)
		added++
	}

	if added == 0 {
		return 0, skipped, nil
	}
	if err := writeJSON(s.opinionsPath(date), merged); err != nil {
		return 0, skipped, err
	}
	return added, skipped, nil
}

// AddOpinion stores a single opinion in the partition derived from its
// PublishedAt, rejecting duplicates.
func (s *FileStore) AddOpinion(op models.Opinion) error {
	added, _, err := s.MergeAppend(op.DateKey(), []models.Opinion{op})
	if err != nil {
		return err
	}
	if added == 0 {
		return models.ErrOpinionExists
	}
	return nil
}

// DeleteOpinion removes one opinion from a date partition.
func (s *FileStore) DeleteOpinion(date, id string) error {
	ops, err := s.LoadOpinions(date)
	if err != nil {
		return err
	}
	filtered := ops[:0:0]
	for _, op := range ops {
		if op.ID != id {
			filtered = append(filtered, op)
		}
	}
	if len(filtered) == len(ops) {
		return models.ErrOpinionNotFound
	}
	return writeJSON(s.opinionsPath(date), filtered)
}

// ListAvailableDates enumerates the opinion partitions, most recent date
// first. Callers rely on the descending order for the "latest date" default.
func (s *FileStore) ListAvailableDates() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dir, opinionsDir))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list opinion dates: %w", err)
	}
	var dates []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		dates = append(dates, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

// --- Raw archive ---

// SaveRawPosts archives one handle's raw fetch under twitter-raw/ and
// returns the file path. Archives are append-only; each fetch gets a
// timestamped file.
func (s *FileStore) SaveRawPosts(handle string, posts []models.RawPost) (string, error) {
	ts := time.Now().UTC().Format("2006-01-02T15-04-05Z")
	path := filepath.Join(s.dir, rawDir, fmt.Sprintf("%s-%s.json", handle, ts))
	if err := writeJSON(path, posts); err != nil {
		return "", err
	}
	return path, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
