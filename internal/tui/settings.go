package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/endurance/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	prefs      store.Preferences
	categories []string
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	startDate     *string
	endDate       *string
	sports        *[]string
	lookbackDays  *string
	rollingWindow *string
}

func newSettingsModel(s *store.Store) settingsModel {
	sd, ed, lb, rw := "", "", "", ""
	var sports []string
	return settingsModel{
		store:         s,
		startDate:     &sd,
		endDate:       &ed,
		sports:        &sports,
		lookbackDays:  &lb,
		rollingWindow: &rw,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s *settingsModel) setCategories(c []string) {
	s.categories = c
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		p, err := s.store.Preferences()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Settings error: %v", err), isError: true}
		}
		return prefsMsg{prefs: p}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case prefsMsg:
		s.prefs = msg.prefs
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Edit) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.startDate = s.prefs.StartDate
	*s.endDate = s.prefs.EndDate
	*s.sports = append([]string(nil), s.prefs.Sports...)
	*s.lookbackDays = strconv.Itoa(s.prefs.LookbackDays)
	*s.rollingWindow = strconv.Itoa(s.prefs.RollingWindow)

	options := make([]huh.Option[string], 0, len(s.categories))
	for _, c := range s.categories {
		options = append(options, huh.NewOption(c, c).Selected(containsFold(*s.sports, c)))
	}

	dateGroup := huh.NewGroup(
		huh.NewInput().Title("Start date").Description("YYYY-MM-DD, empty for the lookback window").
			Value(s.startDate).Validate(validDate),
		huh.NewInput().Title("End date").Description("YYYY-MM-DD, empty for today").
			Value(s.endDate).Validate(validDate),
		huh.NewInput().Title("Lookback (days)").Value(s.lookbackDays).Validate(positiveInt(1, 36500)),
	).Title("Date range")

	viewGroup := huh.NewGroup(
		huh.NewInput().Title("Rolling average window (weeks)").Value(s.rollingWindow).Validate(positiveInt(1, 52)),
	).Title("Weekly view")

	groups := []*huh.Group{dateGroup}
	if len(options) > 0 {
		groups = append(groups, huh.NewGroup(
			huh.NewMultiSelect[string]().Title("Sports").
				Description("None selected shows every sport").
				Options(options...).
				Value(s.sports),
		).Title("Sports"))
	}
	groups = append(groups, viewGroup)

	s.form = huh.NewForm(groups...).WithShowHelp(true).WithShowErrors(true)
	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		p := s.formPreferences()
		if err := s.store.SavePreferences(p); err != nil {
			return s, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
			}
		}
		return s, tea.Batch(
			func() tea.Msg { return prefsMsg{prefs: p} },
			func() tea.Msg { return statusMsg{text: "Settings saved"} },
		)
	}

	return s, cmd
}

// formPreferences reads the form values back. Inputs are validated, so the
// fallbacks only apply if validation was bypassed.
func (s settingsModel) formPreferences() store.Preferences {
	p := store.Preferences{
		StartDate:     strings.TrimSpace(*s.startDate),
		EndDate:       strings.TrimSpace(*s.endDate),
		Sports:        append([]string(nil), *s.sports...),
		LookbackDays:  s.prefs.LookbackDays,
		RollingWindow: s.prefs.RollingWindow,
	}
	if len(s.categories) == 0 {
		p.Sports = s.prefs.Sports
	}
	if n, err := strconv.Atoi(strings.TrimSpace(*s.lookbackDays)); err == nil && n > 0 {
		p.LookbackDays = n
	}
	if n, err := strconv.Atoi(strings.TrimSpace(*s.rollingWindow)); err == nil && n > 0 {
		p.RollingWindow = n
	}
	return p
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	sports := "all"
	if len(s.prefs.Sports) > 0 {
		sports = strings.Join(s.prefs.Sports, ", ")
	}
	items := []struct{ label, value string }{
		{"Start date", orDefault(s.prefs.StartDate, fmt.Sprintf("last %d days", s.prefs.LookbackDays))},
		{"End date", orDefault(s.prefs.EndDate, "today")},
		{"Sports", sports},
		{"Lookback", fmt.Sprintf("%d days", s.prefs.LookbackDays)},
		{"Rolling window", fmt.Sprintf("%d weeks", s.prefs.RollingWindow)},
	}

	rows := []string{title, ""}
	for _, it := range items {
		label := lipgloss.NewStyle().Width(24).Render(it.label)
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(it.value)))
	}
	rows = append(rows, "", mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

func positiveInt(lower, upper int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n < lower || n > upper {
			return fmt.Errorf("enter a whole number from %d to %d", lower, upper)
		}
		return nil
	}
}
