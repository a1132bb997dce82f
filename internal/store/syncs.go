package store

import (
	"database/sql"
	"fmt"
	"time"
)

// RecordSync appends a sync run and returns its id.
func (s *Store) RecordSync(r SyncRun) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO sync_runs (started_at, finished_at, source, activity_count, pages, truncated, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.StartedAt.UTC().Format(time.RFC3339Nano), r.FinishedAt.UTC().Format(time.RFC3339Nano),
		r.Source, r.ActivityCount, r.Pages, r.Truncated, r.Error,
	)
	if err != nil {
		return 0, fmt.Errorf("record sync: %w", err)
	}
	id, _ := res.LastInsertId()
	return id, nil
}

// LastSync returns the most recent run, or nil if there is none.
func (s *Store) LastSync() (*SyncRun, error) {
	runs, err := s.ListSyncs(1)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

// LastSuccessfulSync returns the most recent error-free run from the API,
// or nil if there is none.
func (s *Store) LastSuccessfulSync() (*SyncRun, error) {
	row := s.db.QueryRow(
		`SELECT id, started_at, finished_at, source, activity_count, pages, truncated, error
		 FROM sync_runs WHERE error = '' AND source = 'api' ORDER BY id DESC LIMIT 1`,
	)
	r, err := scanSync(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get last successful sync: %w", err)
	}
	return r, nil
}

// ListSyncs returns runs newest first. limit <= 0 returns all of them.
func (s *Store) ListSyncs(limit int) ([]SyncRun, error) {
	query := `SELECT id, started_at, finished_at, source, activity_count, pages, truncated, error
		FROM sync_runs ORDER BY id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list syncs: %w", err)
	}
	defer rows.Close()

	var runs []SyncRun
	for rows.Next() {
		r, err := scanSync(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSync(sc scanner) (*SyncRun, error) {
	r := &SyncRun{}
	var started, finished string
	if err := sc.Scan(&r.ID, &started, &finished, &r.Source, &r.ActivityCount, &r.Pages, &r.Truncated, &r.Error); err != nil {
		return nil, err
	}
	r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
	r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
	return r, nil
}
