package engine

import (
	"strconv"
	"strings"
	"time"

	"github.com/mintaka-labs/pennywise/pkg/domain"
)

// weekBounds returns the Monday-to-Monday window containing t, in t's
// location.
func weekBounds(t time.Time) (time.Time, time.Time) {
	sinceMonday := (int(t.Weekday()) + 6) % 7
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, -sinceMonday)
	return start, start.AddDate(0, 0, 7)
}

// grainBounds expands a moment to the window of its grain. Grains finer
// than a day collapse to the containing day.
func grainBounds(m domain.Moment) (time.Time, time.Time) {
	v := m.Value
	switch m.Grain {
	case "week":
		return weekBounds(v)
	case "month":
		start := time.Date(v.Year(), v.Month(), 1, 0, 0, 0, 0, v.Location())
		return start, start.AddDate(0, 1, 0)
	case "year":
		start := time.Date(v.Year(), time.January, 1, 0, 0, 0, 0, v.Location())
		return start, start.AddDate(1, 0, 0)
	default:
		start := time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, v.Location())
		return start, start.AddDate(0, 0, 1)
	}
}

// reportingWindow resolves the interval a summary covers: an explicit
// interval fact, else a moment expanded to its grain, else the current
// week.
func reportingWindow(f domain.Facts, now time.Time) (time.Time, time.Time) {
	switch {
	case f.Interval != nil:
		return f.Interval.From, f.Interval.To
	case f.Moment != nil:
		return grainBounds(*f.Moment)
	default:
		return weekBounds(now)
	}
}

// formatAmount renders a dollar amount with cents, trimming the ".00"
// suffix on whole values.
func formatAmount(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	return strings.TrimSuffix(s, ".00")
}
