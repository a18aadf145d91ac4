package testdata

import (
	"context"
	"math/rand"
	"time"

	"github.com/jask/trackmysleep/internal/database/repository"
	"github.com/jask/trackmysleep/internal/report"
)

// NightInserter is satisfied by repository.NightRepo.
type NightInserter interface {
	Insert(ctx context.Context, n *repository.Night) error
}

// Nights builds count closed nights ending before now, oldest first. Bedtimes
// fall between 21:30 and 00:30, sleep lasts 5 to 9.5 hours.
func Nights(rng *rand.Rand, now time.Time, count int) []repository.Night {
	out := make([]repository.Night, 0, count)
	// the latest night can end at 10:00 on the day after its bedtime
	ref := now.Add(-10 * time.Hour)
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	for i := count; i >= 1; i-- {
		bed := day.AddDate(0, 0, -i).Add(21*time.Hour + 30*time.Minute)
		bed = bed.Add(time.Duration(rng.Intn(180)) * time.Minute)
		sleep := 5*time.Hour + time.Duration(rng.Intn(270))*time.Minute

		n := repository.NewNight(bed)
		n.End = n.Start.Add(sleep)
		n.Quality = rng.Intn(report.MaxQuality + 1)
		out = append(out, n)
	}
	return out
}

// Seed inserts count demo nights and returns them with their IDs.
func Seed(ctx context.Context, repo NightInserter, now time.Time, count int) ([]repository.Night, error) {
	rng := rand.New(rand.NewSource(now.UnixNano()))
	nights := Nights(rng, now, count)
	for i := range nights {
		if err := repo.Insert(ctx, &nights[i]); err != nil {
			return nil, err
		}
	}
	return nights, nil
}
