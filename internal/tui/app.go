package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/sadopc/endurance/internal/export"
	"github.com/sadopc/endurance/internal/loader"
	"github.com/sadopc/endurance/internal/store"
	"github.com/sadopc/endurance/internal/strava"
)

// TableLoader produces the activity table. *loader.Loader implements it.
type TableLoader interface {
	Load(forceRefresh bool, progress strava.ProgressFunc) (*loader.Result, error)
}

// AthleteSource returns the authenticated athlete. *strava.Client implements it.
type AthleteSource interface {
	Athlete() (*strava.Athlete, error)
}

// Options wires the app to the pipeline. Athletes may be nil.
type Options struct {
	Loader    TableLoader
	Athletes  AthleteSource
	Store     *store.Store
	ExportDir string
	Logger    zerolog.Logger
	Now       func() time.Time
}

// App is the root Bubble Tea model.
type App struct {
	loader    TableLoader
	athletes  AthleteSource
	store     *store.Store
	exportDir string
	log       zerolog.Logger
	now       func() time.Time

	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	result   *loader.Result
	prefs    store.Preferences
	data     dataset
	athlete  *strava.Athlete
	lastSync *store.SyncRun

	loading  bool
	progress string
	spinner  spinner.Model

	overview   overviewModel
	weekly     weeklyModel
	yearly     yearlyModel
	activities activitiesModel
	settings   settingsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(opts Options) App {
	h := help.New()
	h.ShowAll = false

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return App{
		loader:     opts.Loader,
		athletes:   opts.Athletes,
		store:      opts.Store,
		exportDir:  opts.ExportDir,
		log:        opts.Logger,
		now:        now,
		activeView: viewOverview,
		loading:    true,
		prefs:      store.Preferences{LookbackDays: 1825, RollingWindow: 4},
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(lipgloss.NewStyle().Foreground(colorPrimary))),
		overview:   newOverviewModel(),
		weekly:     newWeeklyModel(),
		yearly:     newYearlyModel(),
		activities: newActivitiesModel(),
		settings:   newSettingsModel(opts.Store),
		help:       h,
	}
}

// Init starts the first (unforced) load; NewApp already marks the app as
// loading.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.settings.refresh(),
		a.startLoad(false),
		a.fetchAthlete(),
		a.loadLastSync(),
		a.spinner.Tick,
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.overview.setSize(a.width, contentHeight)
		a.weekly.setSize(a.width, contentHeight)
		a.yearly.setSize(a.width, contentHeight)
		a.activities.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// A child view capturing input (the settings form) sees keys first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Refresh):
			if a.loading {
				return a, nil
			}
			a.loading = true
			a.progress = "Refreshing from Strava"
			return a, tea.Batch(a.startLoad(true), a.spinner.Tick)
		case key.Matches(msg, keys.Export):
			if a.data.empty() {
				a.setStatus("Nothing to export", true)
				return a, nil
			}
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewOverview
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewWeekly
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewYearly
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewActivities
			return a, nil
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, nil
		}

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case progressMsg:
		a.progress = fmt.Sprintf("Fetched page %d, %d activities", msg.page, msg.total)
		return a, waitForLoad(msg.ch)

	case loadedMsg:
		a.loading = false
		a.progress = ""
		if msg.err != nil {
			a.log.Error().Err(msg.err).Bool("forced", msg.forced).Msg("load activities")
			a.setStatus(msg.err.Error(), true)
			return a, a.loadLastSync()
		}
		a.result = msg.res
		if err := a.rebuild(); err != nil {
			a.setStatus("Filter error: "+err.Error(), true)
		} else if len(msg.res.Warnings) > 0 {
			a.setStatus(strings.Join(msg.res.Warnings, "; "), true)
		} else {
			a.setStatus(fmt.Sprintf("Loaded %d activities from %s", len(msg.res.Table), msg.res.Source), false)
		}
		return a, a.loadLastSync()

	case athleteMsg:
		if msg.err != nil {
			a.log.Warn().Err(msg.err).Msg("fetch athlete")
			return a, nil
		}
		a.athlete = msg.athlete
		return a, nil

	case lastSyncMsg:
		a.lastSync = msg.run
		return a, nil

	case prefsMsg:
		a.prefs = msg.prefs
		if err := a.rebuild(); err != nil {
			a.setStatus("Filter error: "+err.Error(), true)
		}
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd

	case statusMsg:
		a.setStatus(msg.text, msg.isError)
		return a, nil

	case exportDoneMsg:
		a.log.Info().Str("path", msg.path).Int("rows", msg.count).Msg("exported activities")
		a.setStatus(fmt.Sprintf("Exported %d activities to %s", msg.count, msg.path), false)
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a *App) setStatus(text string, isError bool) {
	a.status = text
	a.statusErr = isError
}

// rebuild refilters the current table with the current preferences and
// pushes the result into every view.
func (a *App) rebuild() error {
	if a.result == nil {
		return nil
	}
	d, err := buildDataset(a.result.Table, a.prefs, a.now())
	if err != nil {
		return err
	}
	a.data = d
	a.overview.setData(d)
	a.weekly.setData(d)
	a.yearly.setData(d)
	a.activities.setData(d)
	a.settings.setCategories(d.categories)
	return nil
}

// startLoad runs the loader off the UI goroutine. Page progress and the
// final result arrive on one channel; progress is dropped rather than
// blocking the fetch.
func (a App) startLoad(force bool) tea.Cmd {
	l := a.loader
	return func() tea.Msg {
		ch := make(chan tea.Msg, 8)
		go func() {
			defer close(ch)
			var progress strava.ProgressFunc = func(page, total int) {
				select {
				case ch <- progressMsg{page: page, total: total, ch: ch}:
				default:
				}
			}
			res, err := l.Load(force, progress)
			ch <- loadedMsg{res: res, err: err, forced: force}
		}()
		return waitForLoad(ch)()
	}
}

func waitForLoad(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

func (a App) fetchAthlete() tea.Cmd {
	if a.athletes == nil {
		return nil
	}
	src := a.athletes
	return func() tea.Msg {
		ath, err := src.Athlete()
		return athleteMsg{athlete: ath, err: err}
	}
}

func (a App) loadLastSync() tea.Cmd {
	s := a.store
	return func() tea.Msg {
		run, err := s.LastSync()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Sync history error: %v", err), isError: true}
		}
		return lastSyncMsg{run: run}
	}
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewWeekly:
		a.weekly, cmd = a.weekly.update(msg)
	case viewYearly:
		a.yearly, cmd = a.yearly.update(msg)
	case viewActivities:
		a.activities, cmd = a.activities.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	return a.activeView == viewSettings && a.settings.formActive
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch {
	case a.result == nil && a.activeView != viewSettings:
		content = a.renderWaiting()
	default:
		switch a.activeView {
		case viewOverview:
			content = a.overview.view()
		case viewWeekly:
			content = a.weekly.view()
		case viewYearly:
			content = a.yearly.view()
		case viewActivities:
			content = a.activities.view()
		case viewSettings:
			content = a.settings.view()
		}
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(a.height-headerHeight-footerHeight, 1)

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderWaiting() string {
	w := a.width - 4
	if a.loading {
		msg := a.progress
		if msg == "" {
			msg = "Loading activities"
		}
		return panelStyle.Width(w).Render(a.spinner.View() + " " + msg + "...")
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
		errorStyle.Render("No activity data loaded."),
		mutedStyle.Render("Press r to try again."),
	))
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("endurance")
	if a.athlete != nil {
		if name := a.athlete.DisplayName(); name != "" {
			title += mutedStyle.Render("  " + name)
		}
	}
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	var right string
	switch {
	case a.loading:
		msg := a.progress
		if msg == "" {
			msg = "Loading"
		}
		right = a.spinner.View() + " " + mutedStyle.Render(msg)
	case a.status != "" && a.statusErr:
		right = errorStyle.Render(" " + a.status)
	case a.status != "":
		right = mutedStyle.Render(" " + a.status)
	}
	if a.lastSync != nil && !a.loading {
		synced := "synced " + humanize.Time(a.lastSync.FinishedAt)
		if !a.lastSync.OK() {
			synced = warningStyle.Render("last sync failed " + humanize.Time(a.lastSync.FinishedAt))
		} else {
			synced = successStyle.Render(synced)
		}
		right += "  " + synced
	}

	left := footerStyle.Render(helpView)

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	rows := []string{
		titleStyle.Render("Export Format"),
		mutedStyle.Render(fmt.Sprintf("%d filtered activities to %s", len(a.data.table), a.exportDir)),
		"",
	}
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	return activePanelStyle.Width(a.width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes the filtered table, not the whole cache.
func (a App) doExport(format int) tea.Cmd {
	t := a.data.table
	dir := a.exportDir
	now := a.now()
	return func() tea.Msg {
		var path string
		if format == 0 {
			path = filepath.Join(dir, export.FileName("csv", now))
			if err := export.ToCSV(t, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(dir, export.FileName("json", now))
			if err := export.ToJSON(t, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}
		return exportDoneMsg{path: path, count: len(t)}
	}
}
