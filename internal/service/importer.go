package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/jask/trackmysleep/internal/database"
	"github.com/jask/trackmysleep/internal/database/repository"
	"github.com/jask/trackmysleep/internal/report"
)

// ImportResult reports what an import did.
type ImportResult struct {
	Imported int
	Skipped  int // open nights
	Total    int // nights stored afterwards
}

// ImportService restores nights from an export.
type ImportService struct {
	DB     *sql.DB
	Nights *repository.NightRepo
	Log    logrus.FieldLogger
}

// Import appends the closed nights, oldest first, in one transaction. Open
// nights are skipped; imported nights get new IDs.
func (s *ImportService) Import(ctx context.Context, nights []repository.Night) (ImportResult, error) {
	if s.DB == nil || s.Nights == nil {
		return ImportResult{}, fmt.Errorf("import: db not configured")
	}

	var res ImportResult
	closed := make([]repository.Night, 0, len(nights))
	for _, n := range nights {
		if n.Open() {
			res.Skipped++
			continue
		}
		if n.End.Before(n.Start) {
			return ImportResult{}, fmt.Errorf("import: night #%d ends before it starts", n.ID)
		}
		if n.Quality != repository.Unrated && (n.Quality < report.MinQuality || n.Quality > report.MaxQuality) {
			return ImportResult{}, fmt.Errorf("import: night #%d: %w: %d", n.ID, ErrInvalidQuality, n.Quality)
		}
		closed = append(closed, n)
	}
	sort.SliceStable(closed, func(i, j int) bool { return closed[i].Start.Before(closed[j].Start) })

	err := database.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		repo := s.Nights.WithTx(tx)
		for i := range closed {
			n := closed[i]
			n.ID = 0
			if err := repo.Insert(ctx, &n); err != nil {
				return fmt.Errorf("insert night from %s: %w", n.Start.Format("2006-01-02"), err)
			}
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	res.Imported = len(closed)

	total, err := s.Nights.Count(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	res.Total = total
	if s.Log != nil {
		s.Log.WithFields(logrus.Fields{"imported": res.Imported, "skipped": res.Skipped, "total": total}).Info("nights imported")
	}
	return res, nil
}
