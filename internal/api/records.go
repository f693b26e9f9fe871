package api

import (
	"context"
	"fmt"
	"strings"

	"rollcall/internal/attendance"
	"rollcall/internal/logging"
	"rollcall/internal/store"
)

// Record returns the stored attendance record for a session.
func (s *Service) Record(ctx context.Context, sessionID string) (attendance.AttendanceRecord, error) {
	return s.repo.GetAttendance(ctx, strings.TrimSpace(sessionID))
}

// Records lists stored attendance records.
func (s *Service) Records(ctx context.Context) ([]store.RecordSummary, error) {
	return s.repo.ListAttendance(ctx)
}

// DeleteRecord removes a stored attendance record. Learned matches recorded
// when it was saved are kept.
func (s *Service) DeleteRecord(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	removed, err := s.repo.DeleteAttendance(ctx, sessionID)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("%w: %s", store.ErrNotFound, sessionID)
	}
	s.logger.Info("attendance record deleted",
		logging.String(logging.FieldSessionID, sessionID),
		logging.String(logging.FieldEventType, "attendance_deleted"))
	return nil
}
