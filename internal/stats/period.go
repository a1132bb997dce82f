package stats

import (
	"strconv"

	"github.com/sadopc/endurance/internal/activity"
)

// PeriodBucket aggregates a calendar year ("2024") or month ("2024-03").
type PeriodBucket struct {
	Period string `json:"period"`
	Totals
	// Change is the percent change from the previous bucket. It is nil until
	// YoYChange fills it.
	Change *Change `json:"change,omitempty"`
}

func (b PeriodBucket) Key() string { return b.Period }

// Change holds percent deltas per metric. A nil field means undefined: the
// first bucket, or a previous value of zero.
type Change struct {
	DistanceKM  *float64 `json:"total_distance_km"`
	ElevationM  *float64 `json:"total_elevation_m"`
	DurationMin *float64 `json:"total_duration_min"`
	Count       *float64 `json:"activity_count"`
}

// Get returns the delta for m.
func (c Change) Get(m Metric) *float64 {
	switch m {
	case Distance:
		return c.DistanceKM
	case Elevation:
		return c.ElevationM
	case Duration:
		return c.DurationMin
	case Count:
		return c.Count
	}
	return nil
}

// Yearly groups t by calendar year, oldest first. Years with no activities
// are not emitted.
func Yearly(t activity.Table) []PeriodBucket {
	return groupBy(t, func(a activity.Activity) string { return strconv.Itoa(a.Year) })
}

// Monthly groups t by "YYYY-MM", oldest first.
func Monthly(t activity.Table) []PeriodBucket {
	return groupBy(t, func(a activity.Activity) string { return a.Month })
}

// YoYChange returns a copy of buckets where each one carries its percent
// change against the bucket before it: (cur - prev) / prev * 100.
func YoYChange(buckets []PeriodBucket) []PeriodBucket {
	out := make([]PeriodBucket, len(buckets))
	for i, b := range buckets {
		c := &Change{}
		if i > 0 {
			prev := buckets[i-1].Totals
			c.DistanceKM = pctChange(prev.DistanceKM, b.DistanceKM)
			c.ElevationM = pctChange(prev.ElevationM, b.ElevationM)
			c.DurationMin = pctChange(prev.DurationMin, b.DurationMin)
			c.Count = pctChange(float64(prev.Count), float64(b.Count))
		}
		b.Change = c
		out[i] = b
	}
	return out
}

func pctChange(prev, cur float64) *float64 {
	if prev == 0 {
		return nil
	}
	v := (cur - prev) / prev * 100
	return &v
}

func groupBy(t activity.Table, key func(activity.Activity) string) []PeriodBucket {
	if len(t) == 0 {
		return nil
	}
	groups := make(map[string]*Totals)
	for _, a := range t {
		k := key(a)
		tot, ok := groups[k]
		if !ok {
			tot = &Totals{}
			groups[k] = tot
		}
		tot.Add(a)
	}

	keys := sortedKeys(groups)
	out := make([]PeriodBucket, len(keys))
	for i, k := range keys {
		out[i] = PeriodBucket{Period: k, Totals: *groups[k]}
	}
	return out
}
