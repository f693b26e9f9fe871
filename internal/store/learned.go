package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"rollcall/internal/attendance"
)

// LoadLearnedMatches returns every learned match, most recently updated first.
func (s *Store) LoadLearnedMatches(ctx context.Context) ([]attendance.LearnedMatch, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT raw_label, roster_phone, roster_display_name, updated_at
        FROM learned_matches
        ORDER BY updated_at DESC, label_key`)
	if err != nil {
		return nil, fmt.Errorf("load learned matches: %w", err)
	}
	defer rows.Close()

	var entries []attendance.LearnedMatch
	for rows.Next() {
		var (
			entry   attendance.LearnedMatch
			updated string
		)
		if err := rows.Scan(&entry.RawLabel, &entry.RosterPhone, &entry.RosterDisplayName, &updated); err != nil {
			return nil, err
		}
		entry.UpdatedAt = parseTime(updated)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// UpsertLearnedMatches writes entries in one transaction. An entry replaces
// any stored match whose raw label differs only in case or surrounding space.
func (s *Store) UpsertLearnedMatches(ctx context.Context, entries []attendance.LearnedMatch) error {
	if len(entries) == 0 {
		return nil
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO learned_matches (
                label_key, raw_label, roster_phone, roster_display_name, updated_at
            ) VALUES (?, ?, ?, ?, ?)
            ON CONFLICT(label_key) DO UPDATE SET
                raw_label = excluded.raw_label,
                roster_phone = excluded.roster_phone,
                roster_display_name = excluded.roster_display_name,
                updated_at = excluded.updated_at`)
		if err != nil {
			return fmt.Errorf("prepare learned upsert: %w", err)
		}
		defer stmt.Close()

		for _, entry := range entries {
			key := attendance.LabelKey(entry.RawLabel)
			if key == "" {
				continue
			}
			updated := entry.UpdatedAt
			if updated.IsZero() {
				updated = time.Now()
			}
			if _, err := stmt.ExecContext(ctx,
				key,
				strings.TrimSpace(entry.RawLabel),
				strings.TrimSpace(entry.RosterPhone),
				strings.TrimSpace(entry.RosterDisplayName),
				formatTime(updated),
			); err != nil {
				return fmt.Errorf("upsert learned match %q: %w", entry.RawLabel, err)
			}
		}
		return nil
	})
}

// DeleteLearnedMatch removes the match stored under key. It reports whether a
// row existed.
func (s *Store) DeleteLearnedMatch(ctx context.Context, key string) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM learned_matches WHERE label_key = ?`, attendance.LabelKey(key))
	if err != nil {
		return false, fmt.Errorf("delete learned match: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// ClearLearnedMatches removes every learned match.
func (s *Store) ClearLearnedMatches(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM learned_matches`)
	if err != nil {
		return 0, fmt.Errorf("clear learned matches: %w", err)
	}
	return res.RowsAffected()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	parsed, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}
