package review

import (
	"fmt"

	"rollcall/internal/attendance"
)

// Selected returns the roster phone of the currently selected absent entry.
func (s *Session) Selected() (string, bool) {
	return s.selected, s.selected != ""
}

// ToggleAbsent selects an effective-absent roster member, or clears the
// selection when that member is already selected. Selecting another member
// replaces the selection.
func (s *Session) ToggleAbsent(rosterPhone string) (bool, error) {
	if s.selected == rosterPhone && rosterPhone != "" {
		s.selected = ""
		return false, nil
	}
	if _, ok := findAbsent(s.ComputeEffective().Absent, rosterPhone); !ok {
		if s.knownPhone(rosterPhone) {
			return false, fmt.Errorf("select %s: %w", rosterPhone, ErrAlreadyMatched)
		}
		return false, fmt.Errorf("select %s: %w", rosterPhone, ErrNotFound)
	}
	s.selected = rosterPhone
	return true, nil
}

// ClearSelection drops any selection.
func (s *Session) ClearSelection() {
	s.selected = ""
}

// SelectUnmatched binds the selected absent member to the given unmatched
// session entry. The selection is cleared on success and kept on failure.
func (s *Session) SelectUnmatched(rawLabel string) (attendance.MatchedEntry, error) {
	if s.selected == "" {
		return attendance.MatchedEntry{}, ErrNoSelection
	}
	return s.AddManualMatch(s.selected, "", rawLabel, -1)
}
