package stats

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/sadopc/endurance/internal/activity"
)

// Granularity selects the period used by ByCategory.
type Granularity string

const (
	Week  Granularity = "week"
	Month Granularity = "month"
	Year  Granularity = "year"
)

func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case Week, Month, Year:
		return g, nil
	case "":
		return Week, nil
	}
	return "", fmt.Errorf("unknown granularity %q", s)
}

// CategoryBucket is the totals of one category within one period.
type CategoryBucket struct {
	Period   string `json:"period"`
	Category string `json:"sport"`
	Totals
}

// ByCategory splits totals by period and category. Rows are ordered by
// period, then category. Unlike Weekly, empty periods are not filled.
func ByCategory(t activity.Table, g Granularity) []CategoryBucket {
	type key struct{ period, category string }
	groups := make(map[key]*Totals)
	for _, a := range t {
		k := key{periodOf(a, g), a.Category}
		tot, ok := groups[k]
		if !ok {
			tot = &Totals{}
			groups[k] = tot
		}
		tot.Add(a)
	}

	out := make([]CategoryBucket, 0, len(groups))
	for k, tot := range groups {
		out = append(out, CategoryBucket{Period: k.period, Category: k.category, Totals: *tot})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Period != out[j].Period {
			return out[i].Period < out[j].Period
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func periodOf(a activity.Activity, g Granularity) string {
	switch g {
	case Month:
		return a.Month
	case Year:
		return strconv.Itoa(a.Year)
	}
	if a.WeekLabel != "" {
		return a.WeekLabel
	}
	return activity.WeekLabel(a.Start)
}

// CategoryCount is the number of activities of one category.
type CategoryCount struct {
	Category string `json:"sport"`
	Count    int    `json:"count"`
}

// CountByCategory counts activities per category, most frequent first and
// then by name.
func CountByCategory(t activity.Table) []CategoryCount {
	counts := make(map[string]int)
	for _, a := range t {
		counts[a.Category]++
	}
	out := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}
