package store

import "time"

// SyncRun is one attempt to load activities from the provider.
type SyncRun struct {
	ID            int64
	StartedAt     time.Time
	FinishedAt    time.Time
	Source        string // api, cache
	ActivityCount int
	Pages         int
	Truncated     bool
	Error         string
}

// OK reports whether the run finished without an error.
func (r SyncRun) OK() bool { return r.Error == "" }

type Setting struct {
	Key   string
	Value string
}

// Preferences are the dashboard filters remembered between sessions. Empty
// dates mean "derive from LookbackDays" and "today".
type Preferences struct {
	StartDate     string // YYYY-MM-DD
	EndDate       string // YYYY-MM-DD
	Sports        []string
	LookbackDays  int
	RollingWindow int
}
