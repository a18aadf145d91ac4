package report

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// ErrUnknownQuality is returned when a rating cannot be parsed.
var ErrUnknownQuality = errors.New("unknown sleep quality")

// MinQuality and MaxQuality bound a rated night.
const (
	MinQuality = 0
	MaxQuality = 5
)

var qualityLabels = [...]string{
	"Very bad",
	"Poor",
	"So-so",
	"OK",
	"Pretty good",
	"Excellent",
}

// QualityString returns the label for q, or "--" for unrated and out of range values.
func QualityString(q int) string {
	if q < MinQuality || q > MaxQuality {
		return "--"
	}
	return qualityLabels[q]
}

// QualityLabels returns the labels indexed by rating.
func QualityLabels() []string {
	out := make([]string, len(qualityLabels))
	copy(out, qualityLabels[:])
	return out
}

// maxTypoDistance is how far a typed label may be from a known one. Short
// labels get less slack, see typoTolerance.
const maxTypoDistance = 2

// ParseQuality accepts a rating number or a label. Labels are matched
// case-insensitively and tolerate small typos ("prety good"); anything with
// digits or punctuation that is not a plain number is rejected.
func ParseQuality(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrUnknownQuality
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < MinQuality || n > MaxQuality {
			return 0, fmt.Errorf("%w: %d is outside %d..%d", ErrUnknownQuality, n, MinQuality, MaxQuality)
		}
		return n, nil
	}

	in := normalizeLabel(s)
	if in == "" || strings.IndexFunc(in, func(r rune) bool { return !unicode.IsLetter(r) }) >= 0 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownQuality, s)
	}

	best, bestDist, tie := -1, maxTypoDistance+1, false
	for i, label := range qualityLabels {
		norm := normalizeLabel(label)
		d := levenshtein.ComputeDistance(in, norm)
		if d > typoTolerance(norm) {
			continue
		}
		switch {
		case d < bestDist:
			best, bestDist, tie = i, d, false
		case d == bestDist:
			tie = true
		}
	}
	if best < 0 || tie {
		return 0, fmt.Errorf("%w: %q", ErrUnknownQuality, s)
	}
	return best, nil
}

// typoTolerance allows one edit per three letters, capped at maxTypoDistance,
// so "ok" only matches exactly.
func typoTolerance(label string) int {
	return min(maxTypoDistance, len([]rune(label))/3)
}

func normalizeLabel(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer("-", "", " ", "", "_", "").Replace(s)
	return s
}
