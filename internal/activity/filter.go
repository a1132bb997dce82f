package activity

import (
	"errors"
	"time"

	"github.com/samber/lo"
)

// ErrMissingTimestamp reports a row without a start instant. Normalize never
// produces one, so seeing it means the table was built some other way.
var ErrMissingTimestamp = errors.New("activity has no start timestamp")

// Criteria selects rows. Zero Start or End leaves that side unbounded. An
// empty Categories slice means all categories.
type Criteria struct {
	Start      time.Time
	End        time.Time
	Categories []string
}

// Filter returns the rows of t that match c. Both bounds are inclusive and
// compare the start instant, not the date.
func Filter(t Table, c Criteria) (Table, error) {
	out := make(Table, 0, len(t))
	for _, a := range t {
		if a.Start.IsZero() {
			return nil, ErrMissingTimestamp
		}
		if !c.Start.IsZero() && a.Start.Before(c.Start) {
			continue
		}
		if !c.End.IsZero() && a.Start.After(c.End) {
			continue
		}
		if len(c.Categories) > 0 && !lo.Contains(c.Categories, a.Category) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// DayRange turns two calendar days into inclusive instant bounds: midnight
// UTC of from through the last second of to.
func DayRange(from, to time.Time) (start, end time.Time) {
	start = CivilDate(from)
	end = CivilDate(to).AddDate(0, 0, 1).Add(-time.Second)
	return start, end
}

// DefaultCriteria covers the lookback window ending today and preselects
// "Run" when the table has any.
func DefaultCriteria(t Table, now time.Time, lookback time.Duration) Criteria {
	start, end := DayRange(now.Add(-lookback), now)
	c := Criteria{Start: start, End: end}
	if lo.Contains(t.Categories(), "Run") {
		c.Categories = []string{"Run"}
	}
	return c
}
