package store

import (
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// recordRun is a test helper that inserts a sync run started offset seconds ago.
func recordRun(t *testing.T, s *Store, offset int, source string, count int, errMsg string) int64 {
	t.Helper()
	start := time.Now().UTC().Add(time.Duration(-offset) * time.Second)
	id, err := s.RecordSync(SyncRun{
		StartedAt:     start,
		FinishedAt:    start.Add(2 * time.Second),
		Source:        source,
		ActivityCount: count,
		Pages:         count/200 + 1,
		Error:         errMsg,
	})
	if err != nil {
		t.Fatalf("record sync: %v", err)
	}
	return id
}

// ============================================================
// Store initialization
// ============================================================

func TestNewMemory(t *testing.T) {
	s, err := NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var version int
	s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if version != 1 {
		t.Fatalf("expected user_version 1, got %d", version)
	}
}

func TestNewWithPath(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/sub/endurance.db"
	s, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	recordRun(t, s, 10, "api", 5, "")
	s.Close()

	// Reopen; data survives and migrations do not run again.
	s2, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	runs, err := s2.ListSyncs(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 persisted run, got %d", len(runs))
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)
	if err := s.migrate(); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}
}

// ============================================================
// Sync runs
// ============================================================

func TestRecordAndListSyncs(t *testing.T) {
	s := newTestStore(t)

	started := time.Date(2024, 3, 4, 7, 0, 0, 123000000, time.UTC)
	id, err := s.RecordSync(SyncRun{
		StartedAt:     started,
		FinishedAt:    started.Add(3 * time.Second),
		Source:        "api",
		ActivityCount: 412,
		Pages:         3,
		Truncated:     true,
		Error:         "API request failed: HTTP 502: bad gateway",
	})
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 {
		t.Fatal("expected non-zero id")
	}

	runs, err := s.ListSyncs(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	r := runs[0]
	if !r.StartedAt.Equal(started) || !r.FinishedAt.Equal(started.Add(3*time.Second)) {
		t.Fatalf("times not preserved: %v %v", r.StartedAt, r.FinishedAt)
	}
	if r.Source != "api" || r.ActivityCount != 412 || r.Pages != 3 || !r.Truncated {
		t.Fatalf("unexpected run %+v", r)
	}
	if r.OK() {
		t.Fatal("run with an error should not be OK")
	}
}

func TestListSyncsNewestFirstWithLimit(t *testing.T) {
	s := newTestStore(t)
	recordRun(t, s, 300, "api", 1, "")
	recordRun(t, s, 200, "cache", 2, "")
	last := recordRun(t, s, 100, "api", 3, "")

	runs, err := s.ListSyncs(2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != last || runs[0].ActivityCount != 3 {
		t.Fatalf("expected newest run first, got %+v", runs[0])
	}
}

func TestLastSync(t *testing.T) {
	s := newTestStore(t)

	r, err := s.LastSync()
	if err != nil {
		t.Fatal(err)
	}
	if r != nil {
		t.Fatal("expected nil with no runs")
	}

	recordRun(t, s, 100, "api", 10, "")
	recordRun(t, s, 50, "api", 0, "rate limit exceeded")

	r, _ = s.LastSync()
	if r == nil || r.OK() {
		t.Fatalf("expected the failed run, got %+v", r)
	}

	ok, err := s.LastSuccessfulSync()
	if err != nil {
		t.Fatal(err)
	}
	if ok == nil || ok.ActivityCount != 10 {
		t.Fatalf("expected the successful run, got %+v", ok)
	}
}

func TestLastSuccessfulSyncNone(t *testing.T) {
	s := newTestStore(t)
	recordRun(t, s, 10, "cache", 5, "")
	r, err := s.LastSuccessfulSync()
	if err != nil {
		t.Fatal(err)
	}
	if r != nil {
		t.Fatalf("cache runs should not count, got %+v", r)
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsDefaults(t *testing.T) {
	s := newTestStore(t)

	defaults := map[string]string{
		"start_date":     "",
		"end_date":       "",
		"sports":         "Run",
		"lookback_days":  "1825",
		"rolling_window": "4",
	}

	for k, expected := range defaults {
		val, err := s.GetSetting(k)
		if err != nil {
			t.Fatalf("GetSetting(%q): %v", k, err)
		}
		if val != expected {
			t.Fatalf("GetSetting(%q) = %q, want %q", k, val, expected)
		}
	}
}

func TestSetSettingOverwrite(t *testing.T) {
	s := newTestStore(t)

	s.SetSetting("key", "v1")
	s.SetSetting("key", "v2")
	val, _ := s.GetSetting("key")
	if val != "v2" {
		t.Fatalf("expected v2, got %s", val)
	}
}

func TestGetSettingNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetSetting("nonexistent")
	if err == nil {
		t.Fatal("expected error for missing setting")
	}
}

func TestGetAllSettings(t *testing.T) {
	s := newTestStore(t)
	all, err := s.GetAllSettings()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 default settings, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].Key >= all[i].Key {
			t.Fatalf("settings not sorted: %s >= %s", all[i-1].Key, all[i].Key)
		}
	}
}

// ============================================================
// Preferences
// ============================================================

func TestPreferencesDefaults(t *testing.T) {
	s := newTestStore(t)
	p, err := s.Preferences()
	if err != nil {
		t.Fatal(err)
	}
	if p.StartDate != "" || p.EndDate != "" {
		t.Fatalf("expected empty dates, got %q %q", p.StartDate, p.EndDate)
	}
	if len(p.Sports) != 1 || p.Sports[0] != "Run" {
		t.Fatalf("expected [Run], got %v", p.Sports)
	}
	if p.LookbackDays != 1825 || p.RollingWindow != 4 {
		t.Fatalf("unexpected numbers %+v", p)
	}
}

func TestSavePreferences(t *testing.T) {
	s := newTestStore(t)
	want := Preferences{
		StartDate:     "2023-01-01",
		EndDate:       "2023-12-31",
		Sports:        []string{"Ride", "Run"},
		LookbackDays:  365,
		RollingWindow: 8,
	}
	if err := s.SavePreferences(want); err != nil {
		t.Fatal(err)
	}
	got, err := s.Preferences()
	if err != nil {
		t.Fatal(err)
	}
	if got.StartDate != want.StartDate || got.EndDate != want.EndDate ||
		got.LookbackDays != 365 || got.RollingWindow != 8 {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if len(got.Sports) != 2 || got.Sports[0] != "Ride" || got.Sports[1] != "Run" {
		t.Fatalf("unexpected sports %v", got.Sports)
	}
}

func TestPreferencesEmptySportsAndBadNumbers(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("sports", " , ")
	s.SetSetting("rolling_window", "zero")
	p, err := s.Preferences()
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Sports) != 0 {
		t.Fatalf("expected no sports, got %v", p.Sports)
	}
	if p.RollingWindow != 4 {
		t.Fatalf("expected default window, got %d", p.RollingWindow)
	}
}

// ============================================================
// Close
// ============================================================

func TestCloseStore(t *testing.T) {
	s, _ := NewMemory()
	err := s.Close()
	if err != nil {
		t.Fatalf("first close: %v", err)
	}
}
