package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"github.com/sadopc/endurance/internal/activity"
	"github.com/sadopc/endurance/internal/stats"
)

const overviewWeeks = 12

type overviewModel struct {
	width  int
	height int

	data  dataset
	chart barchart.Model
}

func newOverviewModel() overviewModel {
	return overviewModel{chart: barchart.New(60, 10)}
}

func (o *overviewModel) setSize(w, h int) {
	o.width = w
	o.height = h
	o.buildChart()
}

func (o *overviewModel) setData(d dataset) {
	o.data = d
	o.buildChart()
}

func (o *overviewModel) buildChart() {
	chartWidth := max(o.width-8, 20)
	chartHeight := 10
	if o.height > 36 {
		chartHeight = 14
	}
	o.chart = barchart.New(chartWidth, chartHeight)

	recent := stats.Recent(o.data.weekly, overviewWeeks)
	if len(recent) == 0 {
		return
	}
	style := lipgloss.NewStyle().Foreground(colorPrimary)
	bars := make([]barchart.BarData, 0, len(recent))
	for _, b := range recent {
		bars = append(bars, barchart.BarData{
			Label:  weekShort(b.Label),
			Values: []barchart.BarValue{{Name: b.Label, Value: b.DistanceKM, Style: style}},
		})
	}
	o.chart.PushAll(bars)
	o.chart.Draw()
}

func (o overviewModel) view() string {
	if o.width < 20 {
		return "Terminal too small"
	}
	w := o.width - 4

	if o.data.empty() {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Overview"),
			"",
			mutedStyle.Render("No activities match the current filters."),
			mutedStyle.Render("Press r to fetch from Strava or 5 to change filters."),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		o.renderKPIs(w),
		o.renderChart(w),
		o.renderBests(w),
	)
}

func (o overviewModel) renderKPIs(w int) string {
	t := o.data.totals
	cards := []struct{ label, value string }{
		{"Distance", activity.FormatDistance(t.DistanceKM)},
		{"Elevation", activity.FormatElevation(t.ElevationM)},
		{"Moving time", activity.FormatDuration(t.DurationMin)},
		{"Activities", fmt.Sprintf("%d", t.Count)},
	}
	cardWidth := max(w/len(cards)-2, 12)
	rendered := make([]string, 0, len(cards))
	for _, c := range cards {
		rendered = append(rendered, kpiStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Center, subtitleStyle.Render(c.label), kpiValueStyle.Render(c.value)),
		))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (o overviewModel) renderChart(w int) string {
	title := titleStyle.Render(fmt.Sprintf("Weekly distance, last %d weeks", overviewWeeks))

	var avgLine string
	if n := len(o.data.weekly); n > 0 {
		last := o.data.weekly[n-1]
		mean := stats.MeanWeekly(o.data.weekly)
		avgLine = fmt.Sprintf("  %d-week avg %s   weekly mean %s   %.1f activities/week",
			o.data.window,
			highlightStyle.Render(activity.FormatDistance(last.Rolling[o.data.window].DistanceKM)),
			highlightStyle.Render(activity.FormatDistance(mean.DistanceKM)),
			mean.Count,
		)
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		title, "", o.chart.View(), "", avgLine,
	))
}

func (o overviewModel) renderBests(w int) string {
	rows := []string{titleStyle.Render("Personal bests")}

	for _, m := range []stats.Metric{stats.Distance, stats.Elevation} {
		label, value := stats.FindBest(o.data.weekly, m)
		span := ""
		if b, ok := lo.Find(o.data.weekly, func(b stats.WeeklyBucket) bool { return b.Label == label }); ok {
			span = mutedStyle.Render(" (" + b.Range() + ")")
		}
		rows = append(rows, fmt.Sprintf("  Week by %-10s %s%s  %s",
			strings.ToLower(metricTitle(m)), label, span, successStyle.Render(formatMetric(m, value))))
	}

	label, value := stats.FindBest(o.data.monthly, stats.Distance)
	rows = append(rows, fmt.Sprintf("  Month by %-9s %s  %s", "distance", label, successStyle.Render(formatMetric(stats.Distance, value))))

	label, value = stats.FindBest(o.data.yearly, stats.Distance)
	rows = append(rows, fmt.Sprintf("  Year by %-10s %s  %s", "distance", label, successStyle.Render(formatMetric(stats.Distance, value))))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// weekShort turns "2024-W05" into "W05".
func weekShort(label string) string {
	if _, week, ok := strings.Cut(label, "-"); ok {
		return week
	}
	return label
}
