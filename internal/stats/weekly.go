package stats

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/sadopc/endurance/internal/activity"
)

// DefaultWindow is the rolling average window, in weeks.
const DefaultWindow = 4

// WeeklyBucket aggregates one ISO week.
type WeeklyBucket struct {
	Label     string    `json:"week"`
	WeekStart time.Time `json:"week_start"`
	Totals
	// Rolling holds trailing means keyed by window size in weeks.
	Rolling map[int]Averages `json:"rolling,omitempty"`
}

func (b WeeklyBucket) Key() string { return b.Label }

// Range formats the Monday to Sunday span, e.g. "Mar 04 - Mar 10".
func (b WeeklyBucket) Range() string { return activity.WeekRange(b.WeekStart) }

// Averages are per-bucket means of each metric.
type Averages struct {
	DistanceKM  float64 `json:"distance_km"`
	ElevationM  float64 `json:"elevation_m"`
	DurationMin float64 `json:"duration_min"`
	Count       float64 `json:"activity_count"`
}

// Weekly groups t by ISO week and returns one bucket per calendar week from
// the earliest to the latest observed week, oldest first. Weeks without
// activities are present with zero totals.
func Weekly(t activity.Table) []WeeklyBucket {
	if len(t) == 0 {
		return nil
	}

	byStart := make(map[time.Time]*Totals)
	var first, last time.Time
	for _, a := range t {
		ws := a.WeekStart
		if ws.IsZero() {
			ws = activity.WeekStart(a.Start)
		}
		tot, ok := byStart[ws]
		if !ok {
			tot = &Totals{}
			byStart[ws] = tot
		}
		tot.Add(a)
		if first.IsZero() || ws.Before(first) {
			first = ws
		}
		if ws.After(last) {
			last = ws
		}
	}

	var out []WeeklyBucket
	for ws := first; !ws.After(last); ws = ws.AddDate(0, 0, 7) {
		b := WeeklyBucket{Label: activity.WeekLabel(ws), WeekStart: ws}
		if tot, ok := byStart[ws]; ok {
			b.Totals = *tot
		}
		out = append(out, b)
	}
	return out
}

// AddRollingAverages returns a copy of buckets with a trailing mean for each
// window. At the start of the sequence fewer samples are averaged, never
// fewer than one. With no windows DefaultWindow is used.
func AddRollingAverages(buckets []WeeklyBucket, windows ...int) []WeeklyBucket {
	if len(windows) == 0 {
		windows = []int{DefaultWindow}
	}
	out := make([]WeeklyBucket, len(buckets))
	for i, b := range buckets {
		b.Rolling = make(map[int]Averages, len(windows)+len(b.Rolling))
		for w, avg := range buckets[i].Rolling {
			b.Rolling[w] = avg
		}
		out[i] = b
	}

	for _, w := range windows {
		if w < 1 {
			continue
		}
		var sum Averages
		for i := range buckets {
			sum.DistanceKM += buckets[i].DistanceKM
			sum.ElevationM += buckets[i].ElevationM
			sum.DurationMin += buckets[i].DurationMin
			sum.Count += float64(buckets[i].Count)
			if i >= w {
				old := buckets[i-w]
				sum.DistanceKM -= old.DistanceKM
				sum.ElevationM -= old.ElevationM
				sum.DurationMin -= old.DurationMin
				sum.Count -= float64(old.Count)
			}
			n := float64(min(i+1, w))
			out[i].Rolling[w] = Averages{
				DistanceKM:  sum.DistanceKM / n,
				ElevationM:  sum.ElevationM / n,
				DurationMin: sum.DurationMin / n,
				Count:       sum.Count / n,
			}
		}
	}
	return out
}

// MeanWeekly averages each metric across buckets, gap weeks included.
func MeanWeekly(buckets []WeeklyBucket) Averages {
	if len(buckets) == 0 {
		return Averages{}
	}
	var a Averages
	for _, b := range buckets {
		a.DistanceKM += b.DistanceKM
		a.ElevationM += b.ElevationM
		a.DurationMin += b.DurationMin
		a.Count += float64(b.Count)
	}
	n := float64(len(buckets))
	return Averages{a.DistanceKM / n, a.ElevationM / n, a.DurationMin / n, a.Count / n}
}

// Recent returns the last n buckets, or all of them if there are fewer.
func Recent(buckets []WeeklyBucket, n int) []WeeklyBucket {
	if n <= 0 || n >= len(buckets) {
		return buckets
	}
	return buckets[len(buckets)-n:]
}

// sortedKeys is shared by the period aggregators.
func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
