package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/jask/trackmysleep/internal/database/repository"
)

// Record is the JSON shape of one exported night.
type Record struct {
	ID      int64      `json:"id"`
	Start   time.Time  `json:"start"`
	End     *time.Time `json:"end,omitempty"`
	Quality *int       `json:"quality,omitempty"`
	Open    bool       `json:"open"`
}

// Records converts nights; open nights carry no end and unrated nights no quality.
func Records(nights []repository.Night) []Record {
	out := make([]Record, 0, len(nights))
	for _, n := range nights {
		r := Record{ID: n.ID, Start: n.Start, Open: n.Open()}
		if !r.Open {
			end := n.End
			r.End = &end
		}
		if n.Quality != repository.Unrated {
			q := n.Quality
			r.Quality = &q
		}
		out = append(out, r)
	}
	return out
}

// Night converts r back into a night. The ID is kept so callers can report
// it; stores assign their own on insert.
func (r Record) Night() repository.Night {
	n := repository.NewNight(r.Start)
	n.ID = r.ID
	if r.End != nil {
		n.End = r.End.UTC().Truncate(time.Millisecond)
	}
	if r.Quality != nil {
		n.Quality = *r.Quality
	}
	return n
}

// Encode writes nights as indented JSON.
func Encode(w io.Writer, nights []repository.Night) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Records(nights))
}

// WriteFile writes nights to path through a temp file and rename, so readers
// never see a partial export.
func WriteFile(path string, nights []repository.Night) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir export dir: %w", err)
	}
	data, err := json.MarshalIndent(Records(nights), "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ReadFile loads an export written by WriteFile.
func ReadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}
