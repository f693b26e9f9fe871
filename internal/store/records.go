package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"rollcall/internal/attendance"
)

// RecordSummary is a listing row for a stored attendance record.
type RecordSummary struct {
	SessionID    string `json:"sessionId"`
	SessionDate  string `json:"sessionDate"`
	ModuleNumber *int   `json:"moduleNumber,omitempty"`
	Matched      int    `json:"matched"`
	Absent       int    `json:"absent"`
	Unmatched    int    `json:"unmatched"`
}

// UpsertAttendance replaces the record stored under record.SessionID. Every
// column is rewritten, so repeating a save leaves an identical row.
func (s *Store) UpsertAttendance(ctx context.Context, record attendance.AttendanceRecord) error {
	sessionID := strings.TrimSpace(record.SessionID)
	if sessionID == "" {
		return errors.New("attendance record requires a session id")
	}
	result := record.MatchResult.Clone()
	matched, err := json.Marshal(result.Matched)
	if err != nil {
		return fmt.Errorf("encode matched: %w", err)
	}
	absent, err := json.Marshal(result.Absent)
	if err != nil {
		return fmt.Errorf("encode absent: %w", err)
	}
	unmatched, err := json.Marshal(result.Unmatched)
	if err != nil {
		return fmt.Errorf("encode unmatched: %w", err)
	}

	_, err = s.execWithRetry(ctx, `INSERT INTO attendance_records (
            session_id, session_date, module_number, matched_json, absent_json, unmatched_json
        ) VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(session_id) DO UPDATE SET
            session_date = excluded.session_date,
            module_number = excluded.module_number,
            matched_json = excluded.matched_json,
            absent_json = excluded.absent_json,
            unmatched_json = excluded.unmatched_json`,
		sessionID,
		strings.TrimSpace(record.SessionDate),
		nullableInt(record.ModuleNumber),
		string(matched),
		string(absent),
		string(unmatched),
	)
	if err != nil {
		return fmt.Errorf("upsert attendance %s: %w", sessionID, err)
	}
	return nil
}

// GetAttendance returns the record stored under sessionID.
func (s *Store) GetAttendance(ctx context.Context, sessionID string) (attendance.AttendanceRecord, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT session_id, session_date, module_number, matched_json, absent_json, unmatched_json
        FROM attendance_records WHERE session_id = ?`, strings.TrimSpace(sessionID))

	var (
		record                     attendance.AttendanceRecord
		module                     sql.NullInt64
		matched, absent, unmatched string
	)
	if err := row.Scan(&record.SessionID, &record.SessionDate, &module, &matched, &absent, &unmatched); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.AttendanceRecord{}, fmt.Errorf("%w: %s", ErrNotFound, sessionID)
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("get attendance %s: %w", sessionID, err)
	}
	record.ModuleNumber = intPtr(module)
	if err := json.Unmarshal([]byte(matched), &record.Matched); err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("decode matched for %s: %w", sessionID, err)
	}
	if err := json.Unmarshal([]byte(absent), &record.Absent); err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("decode absent for %s: %w", sessionID, err)
	}
	if err := json.Unmarshal([]byte(unmatched), &record.Unmatched); err != nil {
		return attendance.AttendanceRecord{}, fmt.Errorf("decode unmatched for %s: %w", sessionID, err)
	}
	record.MatchResult = record.MatchResult.Clone()
	return record, nil
}

// ListAttendance returns a summary of every stored record, newest session date first.
func (s *Store) ListAttendance(ctx context.Context) ([]RecordSummary, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT session_id, session_date, module_number,
            json_array_length(matched_json), json_array_length(absent_json), json_array_length(unmatched_json)
        FROM attendance_records
        ORDER BY session_date DESC, session_id`)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	var summaries []RecordSummary
	for rows.Next() {
		var (
			summary RecordSummary
			module  sql.NullInt64
		)
		if err := rows.Scan(&summary.SessionID, &summary.SessionDate, &module, &summary.Matched, &summary.Absent, &summary.Unmatched); err != nil {
			return nil, err
		}
		summary.ModuleNumber = intPtr(module)
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// DeleteAttendance removes the record stored under sessionID.
func (s *Store) DeleteAttendance(ctx context.Context, sessionID string) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM attendance_records WHERE session_id = ?`, strings.TrimSpace(sessionID))
	if err != nil {
		return false, fmt.Errorf("delete attendance %s: %w", sessionID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func nullableInt(value *int) any {
	if value == nil {
		return nil
	}
	return int64(*value)
}

func intPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int64)
	return &v
}
