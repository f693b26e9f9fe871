package api

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"rollcall/internal/attendance"
	"rollcall/internal/drafts"
	"rollcall/internal/logging"
	"rollcall/internal/review"
)

// ReconcileRequest carries the inputs of one reconciliation run.
type ReconcileRequest struct {
	SessionID    string
	SessionDate  string
	ModuleNumber *int
	Roster       []attendance.RosterMember
	Participants []attendance.SessionParticipant
	// Force replaces an existing draft for the session.
	Force bool
}

// Reconcile matches the roster against the session log and stores the result
// as a new review draft.
func (s *Service) Reconcile(ctx context.Context, req ReconcileRequest) (ReviewView, error) {
	sessionID := strings.TrimSpace(req.SessionID)
	if err := drafts.ValidateSessionID(sessionID); err != nil {
		return ReviewView{}, err
	}
	if !req.Force && s.drafts.Exists(sessionID) {
		return ReviewView{}, fmt.Errorf("%w: %s (use --force to replace it)", ErrDraftExists, sessionID)
	}

	ctx = logging.WithSessionID(ctx, sessionID)
	logger := logging.WithContext(ctx, s.logger)

	outcome := s.matcher.Reconcile(req.Roster, req.Participants)
	for _, m := range outcome.Result.Matched {
		logger.Debug("participant matched",
			logging.Args(append(logging.DecisionAttrs("match", string(m.Source), m.RawLabel),
				logging.String("roster_phone", m.RosterPhone),
				logging.String("session_key", m.SessionKey))...)...)
	}

	if len(outcome.Result.Unmatched) > 0 && logger.Enabled(ctx, slog.LevelDebug) {
		candidates := make([]string, 0, len(outcome.Result.Absent))
		for _, a := range outcome.Result.Absent {
			candidates = append(candidates, a.RosterDisplayName)
		}
		for _, u := range outcome.Result.Unmatched {
			logger.Debug("participant unmatched",
				logging.Args(append(logging.DecisionAttrsWithOptions("match", "unmatched", u.RawLabel, strings.Join(candidates, ", ")),
					logging.Bool("generic", u.Generic))...)...)
		}
	}

	draft, err := s.drafts.Create(ctx, drafts.Draft{
		SessionID:    sessionID,
		RunID:        runIDFrom(ctx),
		SessionDate:  strings.TrimSpace(req.SessionDate),
		ModuleNumber: req.ModuleNumber,
		Stats:        outcome.Stats,
		Review:       review.New(outcome.Result).Snapshot(),
	})
	if err != nil {
		return ReviewView{}, fmt.Errorf("store draft: %w", err)
	}

	logger.Info("session reconciled",
		logging.String(logging.FieldEventType, "session_reconciled"),
		logging.Int("roster", outcome.Stats.Roster),
		logging.Int("participants", outcome.Stats.Participants),
		logging.Int("matched", len(outcome.Result.Matched)),
		logging.Int("learned", outcome.Stats.Learned),
		logging.Int("fuzzy", outcome.Stats.Fuzzy),
		logging.Int("absent", outcome.Stats.Absent),
		logging.Int("unmatched", outcome.Stats.Unmatched),
		logging.Int("generic_unmatched", outcome.Stats.GenericUnmatched))
	if outcome.Stats.Unmatched > 0 && outcome.Stats.Absent > 0 {
		logger.Info("manual review needed",
			logging.String(logging.FieldEventType, "review_needed"),
			logging.Alert("review"),
			logging.Int("absent", outcome.Stats.Absent),
			logging.Int("unmatched", outcome.Stats.Unmatched))
	}
	return viewOf(draft)
}

func runIDFrom(ctx context.Context) string {
	id, _ := logging.RunIDFromContext(ctx)
	return id
}

func viewOf(d drafts.Draft) (ReviewView, error) {
	session, err := d.Session()
	if err != nil {
		return ReviewView{}, fmt.Errorf("restore draft %s: %w", d.SessionID, err)
	}
	selected, _ := session.Selected()
	return ReviewView{
		SessionID:    d.SessionID,
		RunID:        d.RunID,
		SessionDate:  d.SessionDate,
		ModuleNumber: d.ModuleNumber,
		UpdatedAt:    d.UpdatedAt,
		Stats:        d.Stats,
		Effective:    session.ComputeEffective(),
		Manual:       session.ManualAdditions(),
		Removed:      session.RemovedAutoMatches(),
		Selected:     selected,
	}, nil
}
