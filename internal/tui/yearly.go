package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/endurance/internal/activity"
	"github.com/sadopc/endurance/internal/stats"
)

const yearlyMonths = 12

type yearlyModel struct {
	width  int
	height int

	data   dataset
	metric stats.Metric
	chart  barchart.Model
}

func newYearlyModel() yearlyModel {
	return yearlyModel{
		metric: stats.Distance,
		chart:  barchart.New(60, 10),
	}
}

func (y *yearlyModel) setSize(w, h int) {
	y.width = w
	y.height = h
	y.buildChart()
}

func (y *yearlyModel) setData(d dataset) {
	y.data = d
	y.buildChart()
}

func (y yearlyModel) update(msg tea.Msg) (yearlyModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, keys.Metric) {
		y.metric = nextMetric(y.metric)
		y.buildChart()
	}
	return y, nil
}

func (y *yearlyModel) buildChart() {
	y.chart = barchart.New(max(y.width-8, 20), 10)

	months := y.data.monthly
	if len(months) > yearlyMonths {
		months = months[len(months)-yearlyMonths:]
	}
	if len(months) == 0 {
		return
	}
	style := lipgloss.NewStyle().Foreground(colorSecondary)
	bars := make([]barchart.BarData, 0, len(months))
	for _, m := range months {
		bars = append(bars, barchart.BarData{
			Label:  monthShort(m.Period),
			Values: []barchart.BarValue{{Name: m.Period, Value: m.Value(y.metric), Style: style}},
		})
	}
	y.chart.PushAll(bars)
	y.chart.Draw()
}

func (y yearlyModel) view() string {
	w := y.width - 4

	if y.data.empty() {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Yearly"), "", mutedStyle.Render("No years to show for the current filters."),
		))
	}

	bestYear, bestYearValue := stats.FindBest(y.data.yearly, y.metric)
	bestMonth, bestMonthValue := stats.FindBest(y.data.monthly, y.metric)
	bests := fmt.Sprintf("  Best year %s %s   Best month %s %s",
		bestYear, successStyle.Render(formatMetric(y.metric, bestYearValue)),
		bestMonth, successStyle.Render(formatMetric(y.metric, bestMonthValue)),
	)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Yearly totals"),
		"",
		y.renderTable(w),
		"",
		bests,
		"",
		titleStyle.Render(fmt.Sprintf("Monthly %s", strings.ToLower(metricTitle(y.metric)))),
		y.chart.View(),
		"",
		mutedStyle.Render("  m: metric"),
	))
}

func (y yearlyModel) renderTable(w int) string {
	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-6s %14s %8s %11s %8s %10s %8s %6s %8s",
		"Year", "Distance", "YoY", "Elevation", "YoY", "Time", "YoY", "Count", "YoY")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 88))))

	for _, b := range y.data.yearly {
		var change stats.Change
		if b.Change != nil {
			change = *b.Change
		}
		rows = append(rows, fmt.Sprintf("  %-6s %14s %s %11s %s %10s %s %6d %s",
			b.Period,
			activity.FormatDistance(b.DistanceKM), pctCell(change.DistanceKM),
			activity.FormatElevation(b.ElevationM), pctCell(change.ElevationM),
			activity.FormatDuration(b.DurationMin), pctCell(change.DurationMin),
			b.Count, pctCell(change.Count),
		))
	}
	return strings.Join(rows, "\n")
}

// pctCell colors a YoY figure and pads it to the column width.
func pctCell(p *float64) string {
	s := fmt.Sprintf("%8s", formatPct(p))
	switch {
	case p == nil:
		return mutedStyle.Render(s)
	case *p < 0:
		return errorStyle.Render(s)
	}
	return successStyle.Render(s)
}

// monthShort turns "2024-03" into "Mar".
func monthShort(period string) string {
	t, err := time.Parse("2006-01", period)
	if err != nil {
		return period
	}
	return t.Format("Jan")
}
