// Package stats computes weekly, monthly and yearly rollups of an activity
// table. Every function is pure and works on a copy of its input.
package stats

import (
	"fmt"
	"math"

	"github.com/sadopc/endurance/internal/activity"
)

// Metric names one summed column of a bucket.
type Metric string

const (
	Distance  Metric = "total_distance_km"
	Elevation Metric = "total_elevation_m"
	Duration  Metric = "total_duration_min"
	Count     Metric = "activity_count"
)

// Metrics lists every metric in display order.
var Metrics = []Metric{Distance, Elevation, Duration, Count}

// ParseMetric accepts a metric name, defaulting to Distance for "".
func ParseMetric(s string) (Metric, error) {
	if s == "" {
		return Distance, nil
	}
	m := Metric(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown metric %q", s)
	}
	return m, nil
}

func (m Metric) Valid() bool {
	switch m {
	case Distance, Elevation, Duration, Count:
		return true
	}
	return false
}

// Totals are the summed aggregates shared by every bucket kind.
type Totals struct {
	DistanceKM  float64 `json:"total_distance_km"`
	ElevationM  float64 `json:"total_elevation_m"`
	DurationMin float64 `json:"total_duration_min"`
	Count       int     `json:"activity_count"`
}

func (t *Totals) Add(a activity.Activity) {
	t.DistanceKM += a.DistanceKM
	t.ElevationM += a.ElevationM
	t.DurationMin += a.MovingMin
	t.Count++
}

// Value returns the named metric, NaN if m is unknown.
func (t Totals) Value(m Metric) float64 {
	switch m {
	case Distance:
		return t.DistanceKM
	case Elevation:
		return t.ElevationM
	case Duration:
		return t.DurationMin
	case Count:
		return float64(t.Count)
	}
	return math.NaN()
}

// Summarize totals the whole table.
func Summarize(t activity.Table) Totals {
	var s Totals
	for _, a := range t {
		s.Add(a)
	}
	return s
}

// Bucket is anything keyed by a period label that carries Totals.
type Bucket interface {
	Key() string
	Value(Metric) float64
}

// FindBest returns the label and value of the bucket with the highest m.
// Ties go to the earliest bucket. Empty input or an unknown metric returns
// ("N/A", 0).
func FindBest[B Bucket](buckets []B, m Metric) (string, float64) {
	if len(buckets) == 0 || !m.Valid() {
		return "N/A", 0
	}
	best := 0
	for i := 1; i < len(buckets); i++ {
		if buckets[i].Value(m) > buckets[best].Value(m) {
			best = i
		}
	}
	return buckets[best].Key(), buckets[best].Value(m)
}
