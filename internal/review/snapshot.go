package review

import (
	"fmt"

	"rollcall/internal/attendance"
)

// Snapshot is the serializable state of a Session.
type Snapshot struct {
	Base               attendance.MatchResult    `json:"base"`
	ManualAdditions    []attendance.MatchedEntry `json:"manualAdditions"`
	RemovedAutoMatches []attendance.MatchedEntry `json:"removedAutoMatches"`
	Selected           string                    `json:"selected,omitempty"`
}

// Snapshot captures the session.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Base:               s.base.Clone(),
		ManualAdditions:    append([]attendance.MatchedEntry{}, s.manual...),
		RemovedAutoMatches: append([]attendance.MatchedEntry{}, s.removed...),
		Selected:           s.selected,
	}
}

// Restore rebuilds a session by replaying the snapshot's removals and manual
// additions over its base. A snapshot that cannot be replayed is rejected.
// A selection that is no longer absent is dropped.
func Restore(snap Snapshot) (*Session, error) {
	s := New(snap.Base)
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("restore base: %w", err)
	}
	for _, r := range snap.RemovedAutoMatches {
		if err := s.RemoveMatch(r, false); err != nil {
			return nil, fmt.Errorf("restore removal: %w", err)
		}
	}
	for _, m := range snap.ManualAdditions {
		effective := s.ComputeEffective()
		absent, ok := findAbsent(effective.Absent, m.RosterPhone)
		if !ok {
			return nil, fmt.Errorf("restore manual match for %s: %w", m.RosterPhone, ErrAlreadyMatched)
		}
		unmatched, ok := findUnmatchedByKey(effective.Unmatched, m.SessionKey)
		if !ok {
			return nil, fmt.Errorf("restore manual match for %q: %w", m.RawLabel, ErrAlreadyMatched)
		}
		s.bind(absent, unmatched, m.RosterDisplayName, m.DurationSeconds)
	}
	if snap.Selected != "" {
		_, _ = s.ToggleAbsent(snap.Selected)
	}
	return s, nil
}
