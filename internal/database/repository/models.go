package repository

import "time"

// Unrated is the quality of a night nobody has rated yet.
const Unrated = -1

// Night represents a daily_sleep_quality_table row.
type Night struct {
	ID      int64
	Start   time.Time
	End     time.Time
	Quality int
}

// NewNight returns an open night starting at now.
func NewNight(now time.Time) Night {
	now = now.UTC().Truncate(time.Millisecond)
	return Night{Start: now, End: now, Quality: Unrated}
}

// Open reports whether the night is still being tracked. End == Start is the
// sentinel for "not ended yet".
func (n Night) Open() bool { return n.End.Equal(n.Start) }

// Duration is End - Start; zero for an open night.
func (n Night) Duration() time.Duration { return n.End.Sub(n.Start) }
