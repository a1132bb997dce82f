// Package loader decides whether a session's activity table comes from the
// local cache or from the provider, and applies the rate-limit fallback.
package loader

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/sadopc/endurance/internal/activity"
	"github.com/sadopc/endurance/internal/metrics"
	"github.com/sadopc/endurance/internal/store"
	"github.com/sadopc/endurance/internal/strava"
)

// ErrRateLimitedNoCache is returned when the provider refused a fetch and
// there is no cached table to fall back to. The error also wraps the
// *strava.RateLimitError.
var ErrRateLimitedNoCache = errors.New("rate limited and no cached data available; try again later")

// DefaultMemoTTL bounds how long a fetched table is reused in-process.
const DefaultMemoTTL = time.Hour

// Source names where a Result's table came from.
type Source string

const (
	SourceCache Source = "cache"
	SourceAPI   Source = "api"
	SourceMemo  Source = "memo"
)

// Fetcher pages through the provider. *strava.Client implements it.
type Fetcher interface {
	FetchAll(progress strava.ProgressFunc) (*strava.FetchResult, error)
}

// Cache is the durable table snapshot. *cache.Store implements it.
type Cache interface {
	Load() (activity.Table, bool, error)
	Save(activity.Table) error
}

// History records sync attempts. *store.Store implements it.
type History interface {
	RecordSync(store.SyncRun) (int64, error)
}

// Result is one load outcome. Warnings are non-fatal conditions the caller
// should show to the user.
type Result struct {
	Table     activity.Table
	Source    Source
	Warnings  []string
	Truncated bool
	LoadedAt  time.Time
}

type memo struct {
	table   activity.Table
	expires time.Time
}

// Loader is the single owner of the cache file and the fetch path. All
// methods are safe for concurrent use; loads are serialized.
type Loader struct {
	mu      sync.Mutex
	fetcher Fetcher
	cache   Cache
	history History
	log     zerolog.Logger
	now     func() time.Time
	memoTTL time.Duration

	memo    *memo
	current *Result
}

type Option func(*Loader)

func WithHistory(h History) Option         { return func(l *Loader) { l.history = h } }
func WithLogger(log zerolog.Logger) Option { return func(l *Loader) { l.log = log } }
func WithMemoTTL(d time.Duration) Option   { return func(l *Loader) { l.memoTTL = d } }
func WithClock(now func() time.Time) Option {
	return func(l *Loader) { l.now = now }
}

func New(f Fetcher, c Cache, opts ...Option) *Loader {
	l := &Loader{
		fetcher: f,
		cache:   c,
		log:     zerolog.Nop(),
		now:     time.Now,
		memoTTL: DefaultMemoTTL,
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load returns the activity table for this session.
//
// Without forceRefresh a present cache always wins; it is not checked for
// staleness. Otherwise the table is fetched, normalized and saved. When the
// provider rate limits a fetch, the cached table is returned with a warning,
// or ErrRateLimitedNoCache if there is none. A truncated fetch never replaces
// a cached table that has more rows, and an empty fetch is never cached.
func (l *Loader) Load(forceRefresh bool, progress strava.ProgressFunc) (*Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if forceRefresh {
		l.memo = nil
	} else {
		t, ok, err := l.cache.Load()
		switch {
		case err != nil:
			l.log.Warn().Err(err).Msg("cache unreadable; fetching from API")
		case ok:
			l.log.Debug().Int("activities", len(t)).Msg("loaded from cache")
			return l.finish(&Result{Table: t, Source: SourceCache}), nil
		}

		if m := l.memo; m != nil && l.now().Before(m.expires) {
			l.log.Debug().Msg("serving memoized fetch")
			res := &Result{Table: m.table.Clone(), Source: SourceMemo}
			if err := l.cache.Save(m.table); err != nil {
				l.log.Warn().Err(err).Msg("could not write cache")
			}
			return l.finish(res), nil
		}
	}

	return l.fetch(progress)
}

// Current returns the last successful result, or nil before the first load.
func (l *Loader) Current() *Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

func (l *Loader) fetch(progress strava.ProgressFunc) (*Result, error) {
	started := l.now()
	run := store.SyncRun{StartedAt: started, Source: string(SourceAPI)}

	fr, err := l.fetcher.FetchAll(progress)
	if err != nil {
		run.Error = err.Error()
		var rl *strava.RateLimitError
		if errors.As(err, &rl) {
			l.log.Warn().Err(err).Msg("rate limited; falling back to cache")
			t, ok, cerr := l.cache.Load()
			if cerr != nil || !ok {
				l.record(run)
				return nil, fmt.Errorf("%w: %w", ErrRateLimitedNoCache, err)
			}
			run.Source = string(SourceCache)
			run.ActivityCount = len(t)
			l.record(run)
			return l.finish(&Result{
				Table:    t,
				Source:   SourceCache,
				Warnings: []string{err.Error() + "; showing cached data"},
			}), nil
		}
		l.record(run)
		return nil, fmt.Errorf("fetch activities: %w", err)
	}

	run.Pages = fr.Pages
	run.Truncated = fr.Truncated
	if fr.Err != nil {
		run.Error = fr.Err.Error()
	}

	t, err := activity.Normalize(fr.Records)
	if err != nil {
		run.Error = err.Error()
		l.record(run)
		return nil, err
	}
	run.ActivityCount = len(t)

	res := &Result{Table: t, Source: SourceAPI, Truncated: fr.Truncated}
	if fr.Truncated {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("fetch stopped after %d activities: %v", len(t), fr.Err))

		if cached, ok, cerr := l.cache.Load(); cerr == nil && ok && len(cached) > len(t) {
			l.log.Warn().Int("fetched", len(t)).Int("cached", len(cached)).Msg("keeping larger cache over truncated fetch")
			res.Table = cached
			res.Source = SourceCache
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("kept cached data with %d activities", len(cached)))
			l.record(run)
			return l.finish(res), nil
		}
	}

	// An empty table is never cached: it would satisfy every later
	// unforced load and hide a recovered upstream.
	if len(t) == 0 {
		l.log.Warn().Int("pages", fr.Pages).Bool("truncated", fr.Truncated).Msg("no activities fetched; cache not written")
		res.Warnings = append(res.Warnings, "no activities returned; nothing cached")
		l.record(run)
		return l.finish(res), nil
	}

	if err := l.cache.Save(t); err != nil {
		l.log.Warn().Err(err).Msg("could not write cache")
		res.Warnings = append(res.Warnings, "could not save cache: "+err.Error())
	}
	if !fr.Truncated {
		l.memo = &memo{table: t.Clone(), expires: l.now().Add(l.memoTTL)}
	}

	l.log.Info().Int("activities", len(t)).Int("pages", fr.Pages).Bool("truncated", fr.Truncated).Msg("fetched activities")
	l.record(run)
	return l.finish(res), nil
}

func (l *Loader) finish(res *Result) *Result {
	res.LoadedAt = l.now()
	metrics.Load(string(res.Source))
	l.current = res
	return res
}

func (l *Loader) record(run store.SyncRun) {
	if l.history == nil {
		return
	}
	run.FinishedAt = l.now()
	if _, err := l.history.RecordSync(run); err != nil {
		l.log.Warn().Err(err).Msg("could not record sync run")
	}
}
