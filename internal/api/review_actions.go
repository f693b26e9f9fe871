package api

import (
	"context"
	"fmt"
	"strings"

	"rollcall/internal/attendance"
	"rollcall/internal/drafts"
	"rollcall/internal/logging"
	"rollcall/internal/review"
)

// Draft returns the current view of a session's draft.
func (s *Service) Draft(sessionID string) (ReviewView, error) {
	d, err := s.drafts.Load(strings.TrimSpace(sessionID))
	if err != nil {
		return ReviewView{}, err
	}
	return viewOf(d)
}

// Drafts lists stored drafts, most recently updated first.
func (s *Service) Drafts() ([]drafts.Summary, error) {
	return s.drafts.List()
}

// Edit applies fn to the session's draft under its lock. The draft is only
// rewritten when fn succeeds.
func (s *Service) Edit(ctx context.Context, sessionID string, fn func(*review.Session) error) (ReviewView, error) {
	sessionID = strings.TrimSpace(sessionID)
	d, err := s.drafts.Update(ctx, sessionID, func(d *drafts.Draft) error {
		session, err := d.Session()
		if err != nil {
			return fmt.Errorf("restore draft %s: %w", sessionID, err)
		}
		if err := fn(session); err != nil {
			return err
		}
		d.Review = session.Snapshot()
		return nil
	})
	if err != nil {
		return ReviewView{}, err
	}
	return viewOf(d)
}

// Match binds an absent roster member to an unmatched session label. An empty
// name keeps the roster name.
func (s *Service) Match(ctx context.Context, sessionID, rosterPhone, rawLabel, name string) (attendance.MatchedEntry, ReviewView, error) {
	var entry attendance.MatchedEntry
	view, err := s.Edit(ctx, sessionID, func(session *review.Session) error {
		var err error
		entry, err = session.AddManualMatch(attendance.NormalizePhone(rosterPhone), name, rawLabel, -1)
		return err
	})
	if err != nil {
		s.logDecision(sessionID, "manual_match", "rejected", err.Error())
		return attendance.MatchedEntry{}, ReviewView{}, err
	}
	s.logDecision(sessionID, "manual_match", "accepted", entry.RawLabel)
	return entry, view, nil
}

// Unmatch removes the match held by a roster member.
func (s *Service) Unmatch(ctx context.Context, sessionID, rosterPhone string) (attendance.MatchedEntry, ReviewView, error) {
	var removed attendance.MatchedEntry
	view, err := s.Edit(ctx, sessionID, func(session *review.Session) error {
		entry, manual, err := session.FindMatch(attendance.NormalizePhone(rosterPhone))
		if err != nil {
			return err
		}
		removed = entry
		return session.RemoveMatch(entry, manual)
	})
	if err != nil {
		return attendance.MatchedEntry{}, ReviewView{}, err
	}
	s.logDecision(sessionID, "remove_match", string(removed.Source), removed.RawLabel)
	return removed, view, nil
}

// Undo restores the most recently removed automated match.
func (s *Service) Undo(ctx context.Context, sessionID string) (attendance.MatchedEntry, ReviewView, error) {
	var restored attendance.MatchedEntry
	view, err := s.Edit(ctx, sessionID, func(session *review.Session) error {
		var err error
		restored, err = session.UndoLastRemove()
		return err
	})
	if err != nil {
		return attendance.MatchedEntry{}, ReviewView{}, err
	}
	s.logDecision(sessionID, "undo_remove", "restored", restored.RawLabel)
	return restored, view, nil
}

// Select toggles the selection of an absent roster member. It reports
// whether the member is selected afterwards.
func (s *Service) Select(ctx context.Context, sessionID, rosterPhone string) (bool, ReviewView, error) {
	var selected bool
	view, err := s.Edit(ctx, sessionID, func(session *review.Session) error {
		var err error
		selected, err = session.ToggleAbsent(attendance.NormalizePhone(rosterPhone))
		return err
	})
	if err != nil {
		return false, ReviewView{}, err
	}
	return selected, view, nil
}

// SelectLabel binds the selected absent member to an unmatched label.
func (s *Service) SelectLabel(ctx context.Context, sessionID, rawLabel string) (attendance.MatchedEntry, ReviewView, error) {
	var entry attendance.MatchedEntry
	view, err := s.Edit(ctx, sessionID, func(session *review.Session) error {
		var err error
		entry, err = session.SelectUnmatched(rawLabel)
		return err
	})
	if err != nil {
		return attendance.MatchedEntry{}, ReviewView{}, err
	}
	s.logDecision(sessionID, "manual_match", "accepted", entry.RawLabel)
	return entry, view, nil
}

// Discard deletes a session's draft without saving.
func (s *Service) Discard(ctx context.Context, sessionID string) error {
	if err := s.drafts.Delete(ctx, strings.TrimSpace(sessionID)); err != nil {
		return err
	}
	s.logger.Info("review draft discarded",
		logging.String(logging.FieldSessionID, sessionID),
		logging.String(logging.FieldEventType, "draft_discarded"))
	return nil
}

func (s *Service) logDecision(sessionID, decision, result, reason string) {
	attrs := append(logging.DecisionAttrs(decision, result, reason),
		logging.String(logging.FieldSessionID, sessionID))
	s.logger.Debug("review decision", logging.Args(attrs...)...)
}
