package activity

import (
	"errors"
	"fmt"
	"time"

	"github.com/sadopc/endurance/internal/strava"
)

// ErrNormalization means a raw record had no parseable start timestamp. It
// fails the whole batch since it points at an upstream schema change.
var ErrNormalization = errors.New("normalize activities")

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Normalize converts raw provider records into a Table sorted newest first.
// Empty input yields an empty table.
func Normalize(raw []strava.RawActivity) (Table, error) {
	out := make(Table, 0, len(raw))
	for i, r := range raw {
		start, err := startOf(r)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d (id %d): %v", ErrNormalization, i, r.ID, err)
		}

		a := Activity{
			ID:           r.ID,
			Name:         deref(r.Name, "Untitled"),
			Start:        start,
			Category:     category(r),
			DistanceKM:   nonNegative(r.Distance) / 1000,
			MovingMin:    nonNegative(r.MovingTime) / 60,
			ElevationM:   nonNegative(r.TotalElevationGain),
			AvgHeartrate: copyFloat(r.AverageHeartrate),
			SufferScore:  copyFloat(r.SufferScore),
			AvgWatts:     copyFloat(r.AverageWatts),
		}
		Derive(&a)
		out = append(out, a)
	}
	out.SortNewestFirst()
	return out, nil
}

// Derive fills the calendar keys of a from its Start instant.
func Derive(a *Activity) {
	a.Date = CivilDate(a.Start)
	a.Year = a.Start.Year()
	a.ISOYear, a.ISOWeek = a.Start.ISOWeek()
	a.WeekLabel = WeekLabel(a.Start)
	a.WeekStart = WeekStart(a.Start)
	a.Month = MonthLabel(a.Start)
}

// startOf prefers the local start time and falls back to the UTC one.
func startOf(r strava.RawActivity) (time.Time, error) {
	var lastErr error
	for _, s := range []*string{r.StartDateLocal, r.StartDate} {
		if s == nil || *s == "" {
			continue
		}
		t, err := parseTimestamp(*s)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = errors.New("no start timestamp")
	}
	return time.Time{}, lastErr
}

func parseTimestamp(s string) (time.Time, error) {
	var err error
	for _, layout := range timestampLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func category(r strava.RawActivity) string {
	if r.Type != nil && *r.Type != "" {
		return *r.Type
	}
	if r.SportType != nil && *r.SportType != "" {
		return *r.SportType
	}
	return "Unknown"
}

func deref(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

func nonNegative(f *float64) float64 {
	if f == nil || *f < 0 {
		return 0
	}
	return *f
}

func copyFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}
