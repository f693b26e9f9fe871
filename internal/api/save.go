package api

import (
	"context"
	"strings"

	"rollcall/internal/drafts"
	"rollcall/internal/logging"
	"rollcall/internal/persist"
)

// Save commits the session's draft as its attendance record, learns from the
// manual matches and removes the draft. When the record cannot be written the
// draft is kept unchanged.
func (s *Service) Save(ctx context.Context, sessionID string) (SaveOutcome, error) {
	sessionID = strings.TrimSpace(sessionID)
	ctx = logging.WithSessionID(ctx, sessionID)

	var outcome SaveOutcome
	err := s.drafts.Take(ctx, sessionID, func(d drafts.Draft) error {
		session, err := d.Session()
		if err != nil {
			return err
		}
		result, err := s.gateway.Save(ctx, sessionID, session, persist.Meta{
			SessionDate:  d.SessionDate,
			ModuleNumber: d.ModuleNumber,
		})
		if err != nil {
			return err
		}
		outcome = SaveOutcome{Record: result.Record, Learned: result.Learned}
		if result.LearnErr != nil {
			outcome.LearnWarning = result.LearnErr.Error()
		}
		return nil
	})
	if err != nil {
		return SaveOutcome{}, err
	}
	return outcome, nil
}
