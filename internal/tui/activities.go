package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/endurance/internal/activity"
)

type activitiesModel struct {
	width  int
	height int

	data  dataset
	table table.Model
}

func newActivitiesModel() activitiesModel {
	t := newTable()
	t.SetColumns([]table.Column{
		{Title: "Date", Width: 10},
		{Title: "Name", Width: 28},
		{Title: "Sport", Width: 12},
		{Title: "Distance", Width: 11},
		{Title: "Time", Width: 8},
		{Title: "Elev", Width: 8},
		{Title: "HR", Width: 4},
	})
	return activitiesModel{table: t}
}

func (am *activitiesModel) setSize(w, h int) {
	am.width = w
	am.height = h
	am.table.SetWidth(max(w-36, 40))
	am.table.SetHeight(max(h-8, 5))
}

func (am *activitiesModel) setData(d dataset) {
	am.data = d
	rows := make([]table.Row, 0, len(d.table))
	for _, a := range d.table {
		hr := ""
		if a.AvgHeartrate != nil {
			hr = fmt.Sprintf("%.0f", *a.AvgHeartrate)
		}
		rows = append(rows, table.Row{
			a.Date.Format(dateLayout),
			truncate(a.Name, 28),
			a.Category,
			activity.FormatDistance(a.DistanceKM),
			activity.FormatDuration(a.MovingMin),
			activity.FormatElevation(a.ElevationM),
			hr,
		})
	}
	am.table.SetRows(rows)
	am.table.GotoTop()
}

func (am activitiesModel) update(msg tea.Msg) (activitiesModel, tea.Cmd) {
	var cmd tea.Cmd
	am.table, cmd = am.table.Update(msg)
	return am, cmd
}

func (am activitiesModel) view() string {
	w := am.width - 4

	if am.data.empty() {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Activities"), "", mutedStyle.Render("No activities match the current filters."),
		))
	}

	first, last, _ := am.data.table.Span()
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Activities"),
		"  ",
		mutedStyle.Render(fmt.Sprintf("%d from %s to %s", len(am.data.table), first.Format(dateLayout), last.Format(dateLayout))),
	)

	list := lipgloss.JoinVertical(lipgloss.Left, header, "", am.table.View())
	return lipgloss.JoinHorizontal(lipgloss.Top,
		panelStyle.Width(max(w-32, 44)).Render(list),
		panelStyle.Width(30).Render(am.renderDistribution()),
	)
}

func (am activitiesModel) renderDistribution() string {
	rows := []string{titleStyle.Render("By sport"), ""}
	total := len(am.data.table)
	for _, c := range am.data.counts {
		dot := lipgloss.NewStyle().Foreground(categoryColor(c.Category, am.data.categories)).Render("●")
		share := 100 * float64(c.Count) / float64(total)
		rows = append(rows, fmt.Sprintf("%s %-12s %4d %5.1f%%", dot, truncate(c.Category, 12), c.Count, share))
	}
	return strings.Join(rows, "\n")
}
