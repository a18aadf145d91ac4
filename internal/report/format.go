// Package report turns nights into text for people.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/jask/trackmysleep/internal/database/repository"
)

// DefaultDateLayout renders like "Monday Oct-19-2026 Time: 22:40".
const DefaultDateLayout = "Monday Jan-02-2006 Time: 15:04"

// Title heads the history text.
const Title = "Here is your sleep data"

// FormatNights renders the history: a title, then one block per night. Open
// nights only show their start.
func FormatNights(nights []repository.Night, layout string, loc *time.Location) string {
	if layout == "" {
		layout = DefaultDateLayout
	}
	if loc == nil {
		loc = time.Local
	}
	var b strings.Builder
	b.WriteString(Title)
	b.WriteString("\n")
	for _, n := range nights {
		b.WriteString("\n")
		fmt.Fprintf(&b, "Start:\t%s\n", n.Start.In(loc).Format(layout))
		if n.Open() {
			continue
		}
		fmt.Fprintf(&b, "End:\t%s\n", n.End.In(loc).Format(layout))
		fmt.Fprintf(&b, "Quality:\t%s\n", QualityString(n.Quality))
		fmt.Fprintf(&b, "Hours:Minutes:Seconds:\t%s\n", FormatDuration(n.Duration()))
	}
	return b.String()
}

// FormatDuration renders d as H:MM:SS. Negative durations render as 0:00:00.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// Summary is a one-line description of a night, printed after rating.
func Summary(n repository.Night, layout string, loc *time.Location) string {
	if layout == "" {
		layout = DefaultDateLayout
	}
	if loc == nil {
		loc = time.Local
	}
	if n.Open() {
		return fmt.Sprintf("#%d tracking since %s", n.ID, n.Start.In(loc).Format(layout))
	}
	return fmt.Sprintf("#%d %s -> %s (%s, quality %s)", n.ID,
		n.Start.In(loc).Format(layout), n.End.In(loc).Format(layout),
		FormatDuration(n.Duration()), QualityString(n.Quality))
}
