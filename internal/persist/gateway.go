package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"rollcall/internal/attendance"
	"rollcall/internal/logging"
	"rollcall/internal/review"
)

// RecordRepository stores attendance records.
type RecordRepository interface {
	UpsertAttendance(ctx context.Context, record attendance.AttendanceRecord) error
}

// LearnedRecorder accepts operator-confirmed matches.
type LearnedRecorder interface {
	RecordMatches(ctx context.Context, entries []attendance.LearnedMatch) (int, error)
}

// Meta carries record fields that do not come from the partition.
type Meta struct {
	SessionDate  string
	ModuleNumber *int
}

// SaveResult reports what a Save wrote.
type SaveResult struct {
	Record  attendance.AttendanceRecord
	Learned int
	// LearnErr is set when the record was saved but learned matches were not.
	LearnErr error
}

// Gateway commits reconciliation sessions.
type Gateway struct {
	records RecordRepository
	learned LearnedRecorder
	logger  *slog.Logger
}

// NewGateway builds a gateway. A nil learned recorder disables learning.
func NewGateway(records RecordRepository, learned LearnedRecorder, logger *slog.Logger) *Gateway {
	return &Gateway{
		records: records,
		learned: learned,
		logger:  logging.NewComponentLogger(logger, "persist"),
	}
}

// Save upserts the session's effective partition under sessionID and then
// learns from its manual additions. The session is never modified.
func (g *Gateway) Save(ctx context.Context, sessionID string, session *review.Session, meta Meta) (SaveResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return SaveResult{}, errors.New("session id is required")
	}
	if session == nil {
		return SaveResult{}, errors.New("session is required")
	}
	if g.records == nil {
		return SaveResult{}, errors.New("record repository unavailable")
	}
	if err := session.Validate(); err != nil {
		return SaveResult{}, fmt.Errorf("validate session %s: %w", sessionID, err)
	}

	record := BuildRecord(sessionID, session.ComputeEffective(), meta)
	if err := g.records.UpsertAttendance(ctx, record); err != nil {
		logging.ErrorWithContext(g.logger, "attendance save failed", "attendance_save_failed",
			logging.String(logging.FieldSessionID, sessionID),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "the review draft is kept; fix the database and save again"))
		return SaveResult{}, fmt.Errorf("save attendance %s: %w", sessionID, err)
	}

	result := SaveResult{Record: record}
	logger := g.logger.With(logging.String(logging.FieldSessionID, sessionID))
	logger.Info("attendance saved",
		logging.String(logging.FieldEventType, "attendance_saved"),
		logging.Int("matched", len(record.Matched)),
		logging.Int("absent", len(record.Absent)),
		logging.Int("unmatched", len(record.Unmatched)))

	manual := session.ManualAdditions()
	if g.learned == nil || len(manual) == 0 {
		return result, nil
	}
	learned, err := g.learned.RecordMatches(ctx, LearnedFrom(manual))
	if err != nil {
		result.LearnErr = err
		logging.WarnWithContext(logger, "learned match recording failed", "learned_record_failed",
			logging.Error(err),
			logging.Int("manual_matches", len(manual)),
			logging.String(logging.FieldErrorHint, "match the labels again in a later session"),
			logging.String(logging.FieldImpact, "future runs will not auto-match these labels"),
		)
		return result, nil
	}
	result.Learned = learned
	logger.Info("learned matches recorded",
		logging.String(logging.FieldEventType, "learned_recorded"),
		logging.Int("learned", learned))
	return result, nil
}

// BuildRecord assembles the stored form of an effective partition. Nil slices
// become empty so identical partitions always produce identical records.
func BuildRecord(sessionID string, effective attendance.MatchResult, meta Meta) attendance.AttendanceRecord {
	result := effective.Clone()
	var module *int
	if meta.ModuleNumber != nil {
		value := *meta.ModuleNumber
		module = &value
	}
	return attendance.AttendanceRecord{
		SessionID:    sessionID,
		SessionDate:  strings.TrimSpace(meta.SessionDate),
		ModuleNumber: module,
		MatchResult:  result,
	}
}

// LearnedFrom converts manual matches into learned-match upserts.
func LearnedFrom(manual []attendance.MatchedEntry) []attendance.LearnedMatch {
	out := make([]attendance.LearnedMatch, 0, len(manual))
	for _, m := range manual {
		out = append(out, attendance.LearnedMatch{
			RawLabel:          m.RawLabel,
			RosterPhone:       m.RosterPhone,
			RosterDisplayName: m.RosterDisplayName,
		})
	}
	return out
}
