package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/endurance/internal/activity"
	"github.com/sadopc/endurance/internal/loader"
	"github.com/sadopc/endurance/internal/stats"
	"github.com/sadopc/endurance/internal/store"
	"github.com/sadopc/endurance/internal/strava"
)

// viewState represents the currently active view.
type viewState int

const (
	viewOverview viewState = iota
	viewWeekly
	viewYearly
	viewActivities
	viewSettings
)

var viewNames = []string{"Overview", "Weekly", "Yearly", "Activities", "Settings"}

// --- Messages ---

// progressMsg carries the channel it came from so the app can keep
// listening until the load finishes.
type progressMsg struct {
	page  int
	total int
	ch    <-chan tea.Msg
}

type loadedMsg struct {
	res    *loader.Result
	err    error
	forced bool
}

type athleteMsg struct {
	athlete *strava.Athlete
	err     error
}

type lastSyncMsg struct {
	run *store.SyncRun
}

type prefsMsg struct {
	prefs store.Preferences
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path  string
	count int
}

// --- Helpers ---

func metricTitle(m stats.Metric) string {
	switch m {
	case stats.Distance:
		return "Distance"
	case stats.Elevation:
		return "Elevation"
	case stats.Duration:
		return "Time"
	case stats.Count:
		return "Activities"
	}
	return string(m)
}

func formatMetric(m stats.Metric, v float64) string {
	switch m {
	case stats.Distance:
		return activity.FormatDistance(v)
	case stats.Elevation:
		return activity.FormatElevation(v)
	case stats.Duration:
		return activity.FormatDuration(v)
	case stats.Count:
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

// formatPct renders a year-over-year change; nil means there is nothing to
// compare against.
func formatPct(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", *p)
}

func nextMetric(m stats.Metric) stats.Metric {
	for i, candidate := range stats.Metrics {
		if candidate == m {
			return stats.Metrics[(i+1)%len(stats.Metrics)]
		}
	}
	return stats.Distance
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 1 || len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
