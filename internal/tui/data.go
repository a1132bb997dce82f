package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/sadopc/endurance/internal/activity"
	"github.com/sadopc/endurance/internal/stats"
	"github.com/sadopc/endurance/internal/store"
)

const dateLayout = "2006-01-02"

// dataset is everything the views render, derived from one filtered table.
type dataset struct {
	all        activity.Table
	table      activity.Table
	criteria   activity.Criteria
	categories []string // every sport in all, for stable colors
	window     int

	totals  stats.Totals
	weekly  []stats.WeeklyBucket
	perWeek []stats.CategoryBucket
	monthly []stats.PeriodBucket
	yearly  []stats.PeriodBucket
	counts  []stats.CategoryCount
}

func (d dataset) empty() bool { return len(d.table) == 0 }

// buildDataset filters all by the saved preferences and runs the
// aggregators over the result.
func buildDataset(all activity.Table, p store.Preferences, now time.Time) (dataset, error) {
	c, err := criteriaFor(p, all, now)
	if err != nil {
		return dataset{}, err
	}
	t, err := activity.Filter(all, c)
	if err != nil {
		return dataset{}, err
	}

	window := p.RollingWindow
	if window <= 0 {
		window = stats.DefaultWindow
	}
	return dataset{
		all:        all,
		table:      t,
		criteria:   c,
		categories: all.Categories(),
		window:     window,
		totals:     stats.Summarize(t),
		weekly:     stats.AddRollingAverages(stats.Weekly(t), window),
		perWeek:    stats.ByCategory(t, stats.Week),
		monthly:    stats.Monthly(t),
		yearly:     stats.YoYChange(stats.Yearly(t)),
		counts:     stats.CountByCategory(t),
	}, nil
}

// criteriaFor turns preferences into filter criteria. Empty dates fall back
// to the lookback window ending today. Saved sports that the table does not
// contain are ignored; if none remain every sport is included.
func criteriaFor(p store.Preferences, t activity.Table, now time.Time) (activity.Criteria, error) {
	lookback := p.LookbackDays
	if lookback <= 0 {
		lookback = 1825
	}
	from, to := now.AddDate(0, 0, -lookback), now

	if p.StartDate != "" {
		d, err := time.Parse(dateLayout, p.StartDate)
		if err != nil {
			return activity.Criteria{}, fmt.Errorf("start date %q: %w", p.StartDate, err)
		}
		from = d
	}
	if p.EndDate != "" {
		d, err := time.Parse(dateLayout, p.EndDate)
		if err != nil {
			return activity.Criteria{}, fmt.Errorf("end date %q: %w", p.EndDate, err)
		}
		to = d
	}
	if activity.CivilDate(from).After(activity.CivilDate(to)) {
		return activity.Criteria{}, errors.New("start date is after end date")
	}

	start, end := activity.DayRange(from, to)
	c := activity.Criteria{Start: start, End: end}
	if sports := lo.Intersect(t.Categories(), p.Sports); len(sports) > 0 {
		c.Categories = sports
	}
	return c, nil
}

// validDate accepts an empty string or YYYY-MM-DD.
func validDate(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, s); err != nil {
		return errors.New("use YYYY-MM-DD or leave empty")
	}
	return nil
}
