package tui

import (
	"fmt"
	"strconv"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/endurance/internal/activity"
	"github.com/sadopc/endurance/internal/stats"
)

type weeklyModel struct {
	width  int
	height int

	data    dataset
	metric  stats.Metric
	stacked bool

	chart barchart.Model
	table table.Model
}

func newWeeklyModel() weeklyModel {
	return weeklyModel{
		metric: stats.Distance,
		chart:  barchart.New(60, 12),
		table:  newTable(),
	}
}

func (wm *weeklyModel) setSize(w, h int) {
	wm.width = w
	wm.height = h
	wm.table.SetWidth(max(w-8, 20))
	wm.table.SetHeight(max(h-26, 5))
	wm.buildChart()
}

func (wm *weeklyModel) setData(d dataset) {
	wm.data = d
	wm.buildTable()
	wm.buildChart()
}

func (wm weeklyModel) update(msg tea.Msg) (weeklyModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.Metric):
			wm.metric = nextMetric(wm.metric)
			wm.buildTable()
			wm.buildChart()
			return wm, nil
		case key.Matches(msg, keys.Stack):
			wm.stacked = !wm.stacked
			wm.buildChart()
			return wm, nil
		}
	}
	var cmd tea.Cmd
	wm.table, cmd = wm.table.Update(msg)
	return wm, cmd
}

// visibleWeeks is how many bars fit the current width.
func (wm weeklyModel) visibleWeeks() int {
	return min(max((wm.width-8)/5, 4), 26)
}

func (wm *weeklyModel) buildChart() {
	chartWidth := max(wm.width-8, 20)
	chartHeight := 12
	if wm.height > 40 {
		chartHeight = 16
	}
	wm.chart = barchart.New(chartWidth, chartHeight)

	recent := stats.Recent(wm.data.weekly, wm.visibleWeeks())
	if len(recent) == 0 {
		return
	}

	bars := make([]barchart.BarData, 0, len(recent))
	for _, b := range recent {
		var values []barchart.BarValue
		if wm.stacked {
			for _, cb := range wm.data.perWeek {
				if cb.Period != b.Label {
					continue
				}
				values = append(values, barchart.BarValue{
					Name:  cb.Category,
					Value: cb.Value(wm.metric),
					Style: lipgloss.NewStyle().Foreground(categoryColor(cb.Category, wm.data.categories)),
				})
			}
		}
		if len(values) == 0 {
			values = []barchart.BarValue{{
				Name:  b.Label,
				Value: b.Value(wm.metric),
				Style: lipgloss.NewStyle().Foreground(colorPrimary),
			}}
		}
		bars = append(bars, barchart.BarData{Label: weekShort(b.Label), Values: values})
	}
	wm.chart.PushAll(bars)
	wm.chart.Draw()
}

func (wm *weeklyModel) buildTable() {
	avgTitle := strconv.Itoa(wm.data.window) + "w avg"
	wm.table.SetRows(nil)
	wm.table.SetColumns([]table.Column{
		{Title: "Week", Width: 9},
		{Title: "Dates", Width: 16},
		{Title: "Distance", Width: 12},
		{Title: "Elevation", Width: 10},
		{Title: "Time", Width: 9},
		{Title: "Count", Width: 6},
		{Title: avgTitle, Width: 12},
	})

	rows := make([]table.Row, 0, len(wm.data.weekly))
	for i := len(wm.data.weekly) - 1; i >= 0; i-- {
		b := wm.data.weekly[i]
		rows = append(rows, table.Row{
			b.Label,
			b.Range(),
			activity.FormatDistance(b.DistanceKM),
			activity.FormatElevation(b.ElevationM),
			activity.FormatDuration(b.DurationMin),
			strconv.Itoa(b.Count),
			formatMetric(wm.metric, rollingValue(b.Rolling[wm.data.window], wm.metric)),
		})
	}
	wm.table.SetRows(rows)
	wm.table.GotoTop()
}

func rollingValue(a stats.Averages, m stats.Metric) float64 {
	switch m {
	case stats.Elevation:
		return a.ElevationM
	case stats.Duration:
		return a.DurationMin
	case stats.Count:
		return a.Count
	}
	return a.DistanceKM
}

func (wm weeklyModel) view() string {
	w := wm.width - 4

	if wm.data.empty() {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Weekly"), "", mutedStyle.Render("No weeks to show for the current filters."),
		))
	}

	mode := "total"
	if wm.stacked {
		mode = "by sport"
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Weekly "+metricTitle(wm.metric)),
		"  ",
		mutedStyle.Render(fmt.Sprintf("%s, last %d weeks", mode, len(stats.Recent(wm.data.weekly, wm.visibleWeeks())))),
	)

	mean := stats.MeanWeekly(wm.data.weekly)
	averages := fmt.Sprintf("  Avg per week: %s  %s  %s  %.1f activities",
		highlightStyle.Render(activity.FormatDistance(mean.DistanceKM)),
		highlightStyle.Render(activity.FormatElevation(mean.ElevationM)),
		highlightStyle.Render(activity.FormatDuration(mean.DurationMin)),
		mean.Count,
	)

	parts := []string{header, "", wm.chart.View()}
	if wm.stacked {
		parts = append(parts, "", wm.renderLegend())
	}
	parts = append(parts, "", averages, "", wm.table.View(), "",
		mutedStyle.Render("  m: metric  s: stack by sport  ↑/↓: scroll"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (wm weeklyModel) renderLegend() string {
	var items []string
	for _, c := range wm.data.counts {
		dot := lipgloss.NewStyle().Foreground(categoryColor(c.Category, wm.data.categories)).Render("●")
		items = append(items, dot+" "+c.Category)
	}
	return "  " + lipgloss.JoinHorizontal(lipgloss.Bottom, joinSpaced(items)...)
}

func joinSpaced(items []string) []string {
	out := make([]string, 0, 2*len(items))
	for i, s := range items {
		if i > 0 {
			out = append(out, "  ")
		}
		out = append(out, s)
	}
	return out
}

// newTable returns a focused table styled like the rest of the UI.
func newTable() table.Model {
	t := table.New(table.WithFocused(true), table.WithHeight(10))
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorSubtle).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(colorFg).
		Background(colorSubtle).
		Bold(false)
	t.SetStyles(s)
	return t
}
