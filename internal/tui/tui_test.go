package tui

import (
	"errors"
	"math"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/sadopc/endurance/internal/activity"
	"github.com/sadopc/endurance/internal/loader"
	"github.com/sadopc/endurance/internal/stats"
	"github.com/sadopc/endurance/internal/store"
	"github.com/sadopc/endurance/internal/strava"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func act(id int64, start time.Time, category string, km float64) activity.Activity {
	a := activity.Activity{
		ID:         id,
		Name:       "Activity",
		Start:      start,
		Category:   category,
		DistanceKM: km,
		MovingMin:  km * 6,
		ElevationM: km * 10,
	}
	activity.Derive(&a)
	return a
}

func sampleTable() activity.Table {
	at := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 7, 30, 0, 0, time.UTC) }
	return activity.Table{
		act(1, at(2024, 3, 11), "Run", 10),
		act(2, at(2024, 3, 5), "Ride", 30),
		act(3, at(2024, 3, 4), "Run", 5),
		act(4, at(2023, 3, 10), "Run", 8),
		act(5, at(2019, 1, 1), "Run", 12), // outside the default lookback
	}
}

// allSports keeps every sport so counts are easy to reason about.
var allSports = store.Preferences{LookbackDays: 1825, RollingWindow: 4}

type fakeLoader struct {
	res    *loader.Result
	err    error
	pages  []int
	forced []bool
}

func (f *fakeLoader) Load(force bool, progress strava.ProgressFunc) (*loader.Result, error) {
	f.forced = append(f.forced, force)
	for i, p := range f.pages {
		if progress != nil {
			progress(i+1, p)
		}
	}
	return f.res, f.err
}

type fakeAthletes struct{ athlete *strava.Athlete }

func (f fakeAthletes) Athlete() (*strava.Athlete, error) { return f.athlete, nil }

func newTestApp(t *testing.T, l TableLoader) App {
	t.Helper()
	app := NewApp(Options{
		Loader:    l,
		Store:     newTestStore(t),
		ExportDir: t.TempDir(),
		Logger:    zerolog.Nop(),
		Now:       func() time.Time { return testNow },
	})
	return step(t, app, tea.WindowSizeMsg{Width: 140, Height: 50})
}

func step(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	m, _ := a.Update(msg)
	app, ok := m.(App)
	if !ok {
		t.Fatalf("Update returned %T", m)
	}
	return app
}

func loaded(t *testing.T, a App) App {
	t.Helper()
	a = step(t, a, prefsMsg{prefs: allSports})
	return step(t, a, loadedMsg{res: &loader.Result{Table: sampleTable(), Source: loader.SourceCache}})
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// ============================================================
// Filters and dataset
// ============================================================

func TestCriteriaForDefaults(t *testing.T) {
	p := store.Preferences{Sports: []string{"Run"}, LookbackDays: 1825, RollingWindow: 4}
	c, err := criteriaFor(p, sampleTable(), testNow)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2019, 3, 17, 0, 0, 0, 0, time.UTC); !c.Start.Equal(want) {
		t.Fatalf("start = %v, want %v", c.Start, want)
	}
	if want := time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC); !c.End.Equal(want) {
		t.Fatalf("end = %v, want %v", c.End, want)
	}
	if len(c.Categories) != 1 || c.Categories[0] != "Run" {
		t.Fatalf("categories = %v", c.Categories)
	}
}

func TestCriteriaForExplicitDates(t *testing.T) {
	p := store.Preferences{StartDate: "2024-03-04", EndDate: "2024-03-05", LookbackDays: 30}
	c, err := criteriaFor(p, sampleTable(), testNow)
	if err != nil {
		t.Fatal(err)
	}
	got, err := activity.Filter(sampleTable(), c)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 activities on Mar 4-5, got %d", len(got))
	}
}

func TestCriteriaForErrors(t *testing.T) {
	cases := []struct {
		name string
		p    store.Preferences
	}{
		{"bad start", store.Preferences{StartDate: "03/04/2024"}},
		{"bad end", store.Preferences{EndDate: "yesterday"}},
		{"reversed", store.Preferences{StartDate: "2024-03-10", EndDate: "2024-03-01"}},
	}
	for _, tc := range cases {
		if _, err := criteriaFor(tc.p, sampleTable(), testNow); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestCriteriaForUnknownSportsMeansAll(t *testing.T) {
	p := store.Preferences{Sports: []string{"Swim"}, LookbackDays: 1825}
	c, err := criteriaFor(p, sampleTable(), testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Categories) != 0 {
		t.Fatalf("expected no category filter, got %v", c.Categories)
	}
}

func TestBuildDataset(t *testing.T) {
	d, err := buildDataset(sampleTable(), allSports, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.table) != 4 {
		t.Fatalf("filtered rows = %d, want 4", len(d.table))
	}
	if d.totals.DistanceKM != 53 || d.totals.Count != 4 {
		t.Fatalf("totals = %+v", d.totals)
	}
	// 2023-W10 through 2024-W11, gaps filled
	if len(d.weekly) != 54 {
		t.Fatalf("weeks = %d, want 54", len(d.weekly))
	}
	if _, ok := d.weekly[0].Rolling[4]; !ok {
		t.Fatal("rolling window 4 missing")
	}
	if len(d.yearly) != 2 || d.yearly[1].Change == nil || d.yearly[1].Change.DistanceKM == nil {
		t.Fatalf("yearly = %+v", d.yearly)
	}
	if got := *d.yearly[1].Change.DistanceKM; math.Abs(got-462.5) > 1e-9 {
		t.Fatalf("yoy distance = %v, want 462.5", got)
	}
	if len(d.categories) != 2 {
		t.Fatalf("categories = %v", d.categories)
	}
}

func TestBuildDatasetDefaultsWindow(t *testing.T) {
	d, err := buildDataset(sampleTable(), store.Preferences{}, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if d.window != stats.DefaultWindow {
		t.Fatalf("window = %d", d.window)
	}
}

func TestBuildDatasetEmpty(t *testing.T) {
	d, err := buildDataset(nil, allSports, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if !d.empty() || len(d.weekly) != 0 {
		t.Fatal("expected an empty dataset")
	}
}

func TestValidDate(t *testing.T) {
	for _, s := range []string{"", "2024-02-29"} {
		if err := validDate(s); err != nil {
			t.Fatalf("validDate(%q): %v", s, err)
		}
	}
	for _, s := range []string{"2024-13-01", "today", "2024/01/01"} {
		if err := validDate(s); err == nil {
			t.Fatalf("validDate(%q) should fail", s)
		}
	}
}

// ============================================================
// Helpers
// ============================================================

func TestFormatPct(t *testing.T) {
	up, down := 12.5, -3.0
	tests := []struct {
		in   *float64
		want string
	}{
		{nil, "n/a"},
		{&up, "+12.5%"},
		{&down, "-3.0%"},
	}
	for _, tt := range tests {
		if got := formatPct(tt.in); got != tt.want {
			t.Fatalf("formatPct = %q, want %q", got, tt.want)
		}
	}
}

func TestFormatMetric(t *testing.T) {
	tests := []struct {
		m    stats.Metric
		v    float64
		want string
	}{
		{stats.Distance, 1234.56, "1,234.6 km"},
		{stats.Elevation, 812.4, "812 m"},
		{stats.Duration, 125, "2h 5m"},
		{stats.Count, 3, "3"},
	}
	for _, tt := range tests {
		if got := formatMetric(tt.m, tt.v); got != tt.want {
			t.Fatalf("formatMetric(%s) = %q, want %q", tt.m, got, tt.want)
		}
	}
}

func TestNextMetricCycles(t *testing.T) {
	m := stats.Distance
	for range stats.Metrics {
		m = nextMetric(m)
	}
	if m != stats.Distance {
		t.Fatalf("expected to cycle back to distance, got %s", m)
	}
	if nextMetric("bogus") != stats.Distance {
		t.Fatal("unknown metric should reset to distance")
	}
}

func TestLabels(t *testing.T) {
	if got := weekShort("2024-W05"); got != "W05" {
		t.Fatalf("weekShort = %q", got)
	}
	if got := monthShort("2024-03"); got != "Mar" {
		t.Fatalf("monthShort = %q", got)
	}
	if got := monthShort("junk"); got != "junk" {
		t.Fatalf("monthShort passthrough = %q", got)
	}
	if got := truncate("Morning Run", 8); got != "Morning…" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("Run", 8); got != "Run" {
		t.Fatalf("truncate short = %q", got)
	}
}

func TestCategoryColorStable(t *testing.T) {
	cats := []string{"Ride", "Run"}
	if categoryColor("Run", cats) != categoryColor("Run", cats) {
		t.Fatal("color should be stable")
	}
	if categoryColor("Ride", cats) == categoryColor("Run", cats) {
		t.Fatal("different sports should get different colors")
	}
	if categoryColor("Swim", cats) != colorMuted {
		t.Fatal("unknown sport should be muted")
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	app := NewApp(Options{Store: newTestStore(t)})

	if app.activeView != viewOverview {
		t.Fatal("default view should be overview")
	}
	if !app.loading {
		t.Fatal("app should start loading")
	}
	if app.showHelp || app.exportPicking {
		t.Fatal("overlays should be hidden by default")
	}
}

func TestAppLoadingState(t *testing.T) {
	app := NewApp(Options{Store: newTestStore(t)})
	if out := app.View(); out != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", out)
	}
}

func TestAppWaitingBeforeFirstLoad(t *testing.T) {
	app := newTestApp(t, &fakeLoader{})
	if out := app.View(); !strings.Contains(out, "Loading activities") {
		t.Fatal("expected a loading panel before the first result")
	}
}

func TestAppLoadedRendersAllViews(t *testing.T) {
	app := loaded(t, newTestApp(t, &fakeLoader{}))

	if app.loading {
		t.Fatal("loading should be cleared")
	}
	if len(app.data.table) != 4 {
		t.Fatalf("filtered rows = %d", len(app.data.table))
	}
	if !strings.Contains(app.status, "Loaded 5 activities from cache") {
		t.Fatalf("status = %q", app.status)
	}

	for v := range viewNames {
		app.activeView = viewState(v)
		if out := app.View(); out == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}

	app.activeView = viewOverview
	if out := app.View(); !strings.Contains(out, "Personal bests") {
		t.Fatal("overview should show personal bests")
	}
	app.activeView = viewYearly
	if out := app.View(); !strings.Contains(out, "+462.5%") {
		t.Fatal("yearly view should show the YoY change")
	}
}

func TestAppLoadError(t *testing.T) {
	app := newTestApp(t, &fakeLoader{})
	app = step(t, app, loadedMsg{err: loader.ErrRateLimitedNoCache})

	if app.loading || !app.statusErr {
		t.Fatal("expected an error status")
	}
	if !strings.Contains(app.status, "rate limited") {
		t.Fatalf("status = %q", app.status)
	}
	if out := app.View(); !strings.Contains(out, "No activity data loaded") {
		t.Fatal("expected the empty-state panel")
	}
}

func TestAppWarningsShownAsErrors(t *testing.T) {
	app := newTestApp(t, &fakeLoader{})
	app = step(t, app, loadedMsg{res: &loader.Result{
		Table:    sampleTable(),
		Source:   loader.SourceCache,
		Warnings: []string{"rate limited", "showing cached data"},
	}})
	if !app.statusErr || app.status != "rate limited; showing cached data" {
		t.Fatalf("status = %q (err=%v)", app.status, app.statusErr)
	}
}

func TestStartLoadForwardsProgress(t *testing.T) {
	fl := &fakeLoader{
		res:   &loader.Result{Table: sampleTable(), Source: loader.SourceAPI},
		pages: []int{200, 250},
	}
	app := newTestApp(t, fl)

	msg := app.startLoad(true)()
	first, ok := msg.(progressMsg)
	if !ok || first.page != 1 || first.total != 200 {
		t.Fatalf("first message = %#v", msg)
	}
	second, ok := waitForLoad(first.ch)().(progressMsg)
	if !ok || second.page != 2 || second.total != 250 {
		t.Fatalf("second message = %#v", second)
	}
	done, ok := waitForLoad(second.ch)().(loadedMsg)
	if !ok || done.err != nil || !done.forced || done.res.Source != loader.SourceAPI {
		t.Fatalf("final message = %#v", done)
	}
	if waitForLoad(second.ch)() != nil {
		t.Fatal("channel should be closed after the result")
	}
	if len(fl.forced) != 1 || !fl.forced[0] {
		t.Fatalf("loader calls = %v", fl.forced)
	}

	app = step(t, app, first)
	if !strings.Contains(app.progress, "page 1") {
		t.Fatalf("progress = %q", app.progress)
	}
}

func TestAppRefreshKey(t *testing.T) {
	app := loaded(t, newTestApp(t, &fakeLoader{}))

	m, cmd := app.Update(keyPress("r"))
	app = m.(App)
	if !app.loading || cmd == nil {
		t.Fatal("refresh should start a load")
	}

	// A second press while loading is ignored.
	if _, cmd := app.Update(keyPress("r")); cmd != nil {
		t.Fatal("refresh while loading should be a no-op")
	}
}

func TestAppTabKeys(t *testing.T) {
	app := loaded(t, newTestApp(t, &fakeLoader{}))

	app = step(t, app, keyPress("2"))
	if app.activeView != viewWeekly {
		t.Fatalf("view = %d, want weekly", app.activeView)
	}
	app = step(t, app, keyPress("tab"))
	if app.activeView != viewYearly {
		t.Fatalf("view = %d, want yearly", app.activeView)
	}
	app = step(t, app, keyPress("5"))
	app = step(t, app, keyPress("tab"))
	if app.activeView != viewOverview {
		t.Fatalf("tab should wrap to overview, got %d", app.activeView)
	}
	app = step(t, app, keyPress("?"))
	if !app.showHelp {
		t.Fatal("? should toggle help")
	}
}

func TestAppWeeklyKeysReachView(t *testing.T) {
	app := loaded(t, newTestApp(t, &fakeLoader{}))
	app = step(t, app, keyPress("2"))
	app = step(t, app, keyPress("m"))
	app = step(t, app, keyPress("s"))

	if app.weekly.metric != stats.Elevation {
		t.Fatalf("metric = %s", app.weekly.metric)
	}
	if !app.weekly.stacked {
		t.Fatal("s should stack by sport")
	}
	if out := app.View(); !strings.Contains(out, "by sport") {
		t.Fatal("weekly view should show the stacked mode")
	}
}

func TestAppPrefsRebuild(t *testing.T) {
	app := loaded(t, newTestApp(t, &fakeLoader{}))

	app = step(t, app, prefsMsg{prefs: store.Preferences{Sports: []string{"Ride"}, LookbackDays: 1825, RollingWindow: 2}})
	if len(app.data.table) != 1 || app.data.window != 2 {
		t.Fatalf("rows = %d window = %d", len(app.data.table), app.data.window)
	}
	if app.settings.prefs.RollingWindow != 2 {
		t.Fatal("settings view should see the new preferences")
	}
}

func TestAppBadPrefsKeepData(t *testing.T) {
	app := loaded(t, newTestApp(t, &fakeLoader{}))

	app = step(t, app, prefsMsg{prefs: store.Preferences{StartDate: "garbage"}})
	if !app.statusErr || !strings.Contains(app.status, "Filter error") {
		t.Fatalf("status = %q", app.status)
	}
	if len(app.data.table) != 4 {
		t.Fatal("previous dataset should be kept")
	}
}

func TestAppExport(t *testing.T) {
	app := loaded(t, newTestApp(t, &fakeLoader{}))

	for format, ext := range []string{".csv", ".json"} {
		msg := app.doExport(format)()
		done, ok := msg.(exportDoneMsg)
		if !ok {
			t.Fatalf("export %s: %#v", ext, msg)
		}
		if !strings.HasSuffix(done.path, "strava_activities_2024-03-15"+ext) || done.count != 4 {
			t.Fatalf("export = %+v", done)
		}
		if _, err := os.Stat(done.path); err != nil {
			t.Fatalf("exported file missing: %v", err)
		}
	}
}

func TestAppExportPicker(t *testing.T) {
	app := loaded(t, newTestApp(t, &fakeLoader{}))

	app = step(t, app, keyPress("e"))
	if !app.exportPicking {
		t.Fatal("e should open the export picker")
	}
	app = step(t, app, keyPress("j"))
	if app.exportCursor != 1 {
		t.Fatalf("cursor = %d", app.exportCursor)
	}
	app = step(t, app, keyPress("esc"))
	if app.exportPicking {
		t.Fatal("esc should close the picker")
	}
}

func TestAppExportNothing(t *testing.T) {
	app := newTestApp(t, &fakeLoader{})
	app = step(t, app, keyPress("e"))
	if app.exportPicking || app.status != "Nothing to export" {
		t.Fatalf("picker=%v status=%q", app.exportPicking, app.status)
	}
}

func TestAppHeaderShowsAthlete(t *testing.T) {
	app := newTestApp(t, &fakeLoader{})
	app = step(t, app, athleteMsg{athlete: &strava.Athlete{FirstName: "Ada", LastName: "Lovelace"}})

	header := app.renderHeader()
	if !strings.Contains(header, "Ada Lovelace") {
		t.Fatal("header should show the athlete")
	}
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppAthleteErrorIgnored(t *testing.T) {
	app := newTestApp(t, &fakeLoader{})
	app = step(t, app, athleteMsg{err: errors.New("boom")})
	if app.athlete != nil || app.statusErr {
		t.Fatal("athlete errors should not surface in the UI")
	}
}

func TestFetchAthlete(t *testing.T) {
	app := newTestApp(t, &fakeLoader{})
	if app.fetchAthlete() != nil {
		t.Fatal("no athlete source means no command")
	}

	app.athletes = fakeAthletes{athlete: &strava.Athlete{Username: "ada"}}
	msg, ok := app.fetchAthlete()().(athleteMsg)
	if !ok || msg.athlete.DisplayName() != "ada" {
		t.Fatalf("msg = %#v", msg)
	}
}

func TestAppLastSync(t *testing.T) {
	app := newTestApp(t, &fakeLoader{})
	finished := time.Now().Add(-2 * time.Hour)
	if _, err := app.store.RecordSync(store.SyncRun{
		StartedAt:     finished.Add(-time.Minute),
		FinishedAt:    finished,
		Source:        "api",
		ActivityCount: 5,
		Pages:         1,
	}); err != nil {
		t.Fatal(err)
	}

	msg, ok := app.loadLastSync()().(lastSyncMsg)
	if !ok || msg.run == nil || msg.run.ActivityCount != 5 {
		t.Fatalf("msg = %#v", msg)
	}
	app = loaded(t, app)
	app = step(t, app, msg)
	if footer := app.renderFooter(); !strings.Contains(footer, "synced 2 hours ago") {
		t.Fatalf("footer missing last sync: %q", footer)
	}
}

func TestAppStatusMessage(t *testing.T) {
	app := newTestApp(t, &fakeLoader{})
	app.loading = false
	app = step(t, app, statusMsg{text: "test status"})

	if !strings.Contains(app.renderFooter(), "test status") {
		t.Fatal("footer should contain status message")
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsRefreshReadsStore(t *testing.T) {
	s := newTestStore(t)
	m := newSettingsModel(s)

	msg, ok := m.refresh()().(prefsMsg)
	if !ok {
		t.Fatal("expected prefsMsg")
	}
	if len(msg.prefs.Sports) != 1 || msg.prefs.Sports[0] != "Run" || msg.prefs.RollingWindow != 4 {
		t.Fatalf("prefs = %+v", msg.prefs)
	}
}

func TestSettingsFormPreferences(t *testing.T) {
	m := newSettingsModel(newTestStore(t))
	m.prefs = store.Preferences{LookbackDays: 365, RollingWindow: 4}
	m.categories = []string{"Ride", "Run"}

	*m.startDate = " 2024-01-01 "
	*m.endDate = ""
	*m.sports = []string{"Ride"}
	*m.lookbackDays = "90"
	*m.rollingWindow = "oops"

	p := m.formPreferences()
	if p.StartDate != "2024-01-01" || p.EndDate != "" {
		t.Fatalf("dates = %q %q", p.StartDate, p.EndDate)
	}
	if len(p.Sports) != 1 || p.Sports[0] != "Ride" {
		t.Fatalf("sports = %v", p.Sports)
	}
	if p.LookbackDays != 90 || p.RollingWindow != 4 {
		t.Fatalf("numbers = %d %d", p.LookbackDays, p.RollingWindow)
	}
}

func TestSettingsFormOpensAndCancels(t *testing.T) {
	app := loaded(t, newTestApp(t, &fakeLoader{}))
	app = step(t, app, keyPress("5"))
	app = step(t, app, keyPress("enter"))
	if !app.isFormActive() {
		t.Fatal("enter should open the settings form")
	}

	// q goes to the form, not the quit binding.
	app = step(t, app, keyPress("q"))
	if !app.isFormActive() {
		t.Fatal("q must not leave the form")
	}

	app = step(t, app, keyPress("esc"))
	if app.isFormActive() {
		t.Fatal("esc should close the form")
	}
}

func TestPositiveInt(t *testing.T) {
	v := positiveInt(1, 52)
	for _, ok := range []string{"1", " 4 ", "52"} {
		if err := v(ok); err != nil {
			t.Fatalf("%q: %v", ok, err)
		}
	}
	for _, bad := range []string{"0", "53", "four", ""} {
		if err := v(bad); err == nil {
			t.Fatalf("%q should fail", bad)
		}
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test, just verify they render)
// ============================================================

func TestStylesRender(t *testing.T) {
	styles := []struct {
		name string
		fn   func() string
	}{
		{"activeTab", func() string { return activeTabStyle.Render("test") }},
		{"inactiveTab", func() string { return inactiveTabStyle.Render("test") }},
		{"panel", func() string { return panelStyle.Render("test") }},
		{"activePanel", func() string { return activePanelStyle.Render("test") }},
		{"kpi", func() string { return kpiStyle.Render("test") }},
		{"kpiValue", func() string { return kpiValueStyle.Render("test") }},
		{"title", func() string { return titleStyle.Render("test") }},
		{"subtitle", func() string { return subtitleStyle.Render("test") }},
		{"success", func() string { return successStyle.Render("test") }},
		{"warning", func() string { return warningStyle.Render("test") }},
		{"error", func() string { return errorStyle.Render("test") }},
		{"muted", func() string { return mutedStyle.Render("test") }},
		{"highlight", func() string { return highlightStyle.Render("test") }},
		{"header", func() string { return headerStyle.Render("test") }},
		{"footer", func() string { return footerStyle.Render("test") }},
		{"selectedItem", func() string { return selectedItemStyle.Render("test") }},
		{"normalItem", func() string { return normalItemStyle.Render("test") }},
	}

	for _, s := range styles {
		if s.fn() == "" {
			t.Fatalf("style %q rendered empty", s.name)
		}
	}
}
