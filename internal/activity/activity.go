package activity

import (
	"sort"
	"time"

	"github.com/samber/lo"
)

// Activity is one normalized exercise session.
type Activity struct {
	ID       int64
	Name     string
	Start    time.Time // instant with the offset it was recorded in
	Date     time.Time // civil date of Start, at UTC midnight
	Category string

	DistanceKM float64
	MovingMin  float64
	ElevationM float64

	// Optional physiological fields. nil means the provider did not report it.
	AvgHeartrate *float64
	SufferScore  *float64
	AvgWatts     *float64

	Year      int
	ISOYear   int
	ISOWeek   int
	WeekLabel string    // "2024-W09", sorts chronologically
	WeekStart time.Time // Monday of the ISO week, UTC midnight
	Month     string    // "2024-03"
}

// Table is an ordered collection of activities, newest first once
// normalized. Tables are replaced, never mutated, after a load.
type Table []Activity

// Categories returns the distinct sport tags in the table, sorted.
func (t Table) Categories() []string {
	cats := lo.Uniq(lo.Map(t, func(a Activity, _ int) string { return a.Category }))
	sort.Strings(cats)
	return cats
}

// Clone returns a copy that shares no backing array with t.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	copy(out, t)
	return out
}

// Span returns the earliest and latest start instants. ok is false for an
// empty table.
func (t Table) Span() (first, last time.Time, ok bool) {
	if len(t) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = t[0].Start, t[0].Start
	for _, a := range t[1:] {
		if a.Start.Before(first) {
			first = a.Start
		}
		if a.Start.After(last) {
			last = a.Start
		}
	}
	return first, last, true
}

// SortNewestFirst orders the table descending by start instant.
func (t Table) SortNewestFirst() {
	sort.SliceStable(t, func(i, j int) bool { return t[i].Start.After(t[j].Start) })
}
