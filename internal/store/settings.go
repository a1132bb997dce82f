package store

import (
	"fmt"
	"strconv"
	"strings"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// Preferences reads the dashboard preferences. Unparseable numbers fall
// back to their defaults.
func (s *Store) Preferences() (Preferences, error) {
	all, err := s.GetAllSettings()
	if err != nil {
		return Preferences{}, err
	}
	p := Preferences{LookbackDays: 1825, RollingWindow: 4}
	for _, kv := range all {
		switch kv.Key {
		case "start_date":
			p.StartDate = kv.Value
		case "end_date":
			p.EndDate = kv.Value
		case "sports":
			p.Sports = splitList(kv.Value)
		case "lookback_days":
			if n, err := strconv.Atoi(kv.Value); err == nil && n > 0 {
				p.LookbackDays = n
			}
		case "rolling_window":
			if n, err := strconv.Atoi(kv.Value); err == nil && n > 0 {
				p.RollingWindow = n
			}
		}
	}
	return p, nil
}

// SavePreferences writes every preference in one transaction.
func (s *Store) SavePreferences(p Preferences) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	values := map[string]string{
		"start_date":     p.StartDate,
		"end_date":       p.EndDate,
		"sports":         strings.Join(p.Sports, ","),
		"lookback_days":  strconv.Itoa(p.LookbackDays),
		"rolling_window": strconv.Itoa(p.RollingWindow),
	}
	for k, v := range values {
		if _, err := tx.Exec(
			`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			k, v,
		); err != nil {
			return fmt.Errorf("save setting %q: %w", k, err)
		}
	}
	return tx.Commit()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
