package review

import (
	"errors"
	"fmt"
	"strings"

	"rollcall/internal/attendance"
)

var (
	// ErrAlreadyMatched reports an edit whose roster member or session entry is
	// not currently available on its side of the partition.
	ErrAlreadyMatched = errors.New("already matched")
	// ErrNotFound reports an edit that references an unknown entry.
	ErrNotFound = errors.New("entry not found")
	// ErrNoSelection is returned by SelectUnmatched when no absent entry is selected.
	ErrNoSelection = errors.New("no absent entry selected")
)

// Session is one operator's review of a Matcher result. It is not safe for
// concurrent use; a session has a single owner.
type Session struct {
	base     attendance.MatchResult
	manual   []attendance.MatchedEntry
	removed  []attendance.MatchedEntry
	selected string
}

// New wraps a base partition.
func New(base attendance.MatchResult) *Session {
	return &Session{base: base.Clone()}
}

// Base returns a copy of the Matcher's partition.
func (s *Session) Base() attendance.MatchResult {
	return s.base.Clone()
}

// ManualAdditions returns the operator's manual matches in the order they were made.
func (s *Session) ManualAdditions() []attendance.MatchedEntry {
	return append([]attendance.MatchedEntry(nil), s.manual...)
}

// RemovedAutoMatches returns automated matches the operator removed, oldest first.
func (s *Session) RemovedAutoMatches() []attendance.MatchedEntry {
	return append([]attendance.MatchedEntry(nil), s.removed...)
}

// Pristine reports whether the session carries no edits.
func (s *Session) Pristine() bool {
	return len(s.manual) == 0 && len(s.removed) == 0
}

// ComputeEffective returns the partition after manual edits: base matches minus
// removed ones followed by manual additions; absent and unmatched entries are
// the base ones plus anything released by a removal, minus anything now
// manually matched.
func (s *Session) ComputeEffective() attendance.MatchResult {
	manualPhones := make(map[string]bool, len(s.manual))
	manualKeys := make(map[string]bool, len(s.manual))
	for _, m := range s.manual {
		manualPhones[m.RosterPhone] = true
		manualKeys[m.SessionKey] = true
	}

	out := attendance.MatchResult{
		Matched:   make([]attendance.MatchedEntry, 0, len(s.base.Matched)+len(s.manual)),
		Absent:    make([]attendance.AbsentEntry, 0, len(s.base.Absent)+len(s.removed)),
		Unmatched: make([]attendance.UnmatchedEntry, 0, len(s.base.Unmatched)+len(s.removed)),
	}
	for _, m := range s.base.Matched {
		if s.removedIndex(m) >= 0 {
			continue
		}
		out.Matched = append(out.Matched, m)
	}
	out.Matched = append(out.Matched, s.manual...)

	for _, a := range s.base.Absent {
		if !manualPhones[a.RosterPhone] {
			out.Absent = append(out.Absent, a)
		}
	}
	for _, r := range s.removed {
		if !manualPhones[r.RosterPhone] {
			out.Absent = append(out.Absent, r.Absent())
		}
	}

	for _, u := range s.base.Unmatched {
		if !manualKeys[u.SessionKey] {
			out.Unmatched = append(out.Unmatched, u)
		}
	}
	for _, r := range s.removed {
		if !manualKeys[r.SessionKey] {
			out.Unmatched = append(out.Unmatched, r.Unmatch())
		}
	}
	return out
}

// AddManualMatch binds an effective-absent roster member to an
// effective-unmatched session entry identified by its raw label. An empty
// display name falls back to the absent entry's; a negative duration falls
// back to the session entry's.
func (s *Session) AddManualMatch(rosterPhone, rosterDisplayName, rawLabel string, durationSeconds int64) (attendance.MatchedEntry, error) {
	effective := s.ComputeEffective()

	absent, ok := findAbsent(effective.Absent, rosterPhone)
	if !ok {
		if s.knownPhone(rosterPhone) {
			return attendance.MatchedEntry{}, fmt.Errorf("roster member %s: %w", rosterPhone, ErrAlreadyMatched)
		}
		return attendance.MatchedEntry{}, fmt.Errorf("roster member %s: %w", rosterPhone, ErrNotFound)
	}
	unmatched, ok := findUnmatched(effective.Unmatched, rawLabel)
	if !ok {
		if s.knownLabel(rawLabel) {
			return attendance.MatchedEntry{}, fmt.Errorf("session entry %q: %w", rawLabel, ErrAlreadyMatched)
		}
		return attendance.MatchedEntry{}, fmt.Errorf("session entry %q: %w", rawLabel, ErrNotFound)
	}

	return s.bind(absent, unmatched, rosterDisplayName, durationSeconds), nil
}

func (s *Session) bind(absent attendance.AbsentEntry, unmatched attendance.UnmatchedEntry, rosterDisplayName string, durationSeconds int64) attendance.MatchedEntry {
	name := strings.TrimSpace(rosterDisplayName)
	if name == "" {
		name = absent.RosterDisplayName
	}
	if durationSeconds < 0 {
		durationSeconds = unmatched.DurationSeconds
	}
	entry := attendance.MatchedEntry{
		RosterPhone:       absent.RosterPhone,
		RosterDisplayName: name,
		RawLabel:          unmatched.RawLabel,
		SessionKey:        unmatched.SessionKey,
		DurationSeconds:   durationSeconds,
		JoinTime:          unmatched.JoinTime,
		LeaveTime:         unmatched.LeaveTime,
		Source:            attendance.SourceManual,
		Generic:           unmatched.Generic,
	}
	s.manual = append(s.manual, entry)
	if s.selected == entry.RosterPhone {
		s.selected = ""
	}
	return entry
}

// RemoveMatch undoes a match. Manual matches are discarded, returning both
// sides to absent and unmatched. Automated matches move to the removed list so
// UndoRemove can restore them.
func (s *Session) RemoveMatch(match attendance.MatchedEntry, wasManual bool) error {
	if wasManual {
		idx := indexOf(s.manual, match)
		if idx < 0 {
			return fmt.Errorf("manual match %s/%q: %w", match.RosterPhone, match.RawLabel, ErrNotFound)
		}
		s.manual = append(s.manual[:idx], s.manual[idx+1:]...)
		return nil
	}

	idx := indexOf(s.base.Matched, match)
	if idx < 0 {
		return fmt.Errorf("automated match %s/%q: %w", match.RosterPhone, match.RawLabel, ErrNotFound)
	}
	if s.removedIndex(match) >= 0 {
		return fmt.Errorf("automated match %s/%q already removed: %w", match.RosterPhone, match.RawLabel, ErrNotFound)
	}
	s.removed = append(s.removed, s.base.Matched[idx])
	return nil
}

// UndoRemove restores a removed automated match. It fails with
// ErrAlreadyMatched when either side has since been matched manually.
func (s *Session) UndoRemove(match attendance.MatchedEntry) error {
	idx := s.removedIndex(match)
	if idx < 0 {
		return fmt.Errorf("removed match %s/%q: %w", match.RosterPhone, match.RawLabel, ErrNotFound)
	}
	restored := s.removed[idx]
	for _, m := range s.manual {
		if m.RosterPhone == restored.RosterPhone || m.SessionKey == restored.SessionKey {
			return fmt.Errorf("restore %s/%q: %w", restored.RosterPhone, restored.RawLabel, ErrAlreadyMatched)
		}
	}
	s.removed = append(s.removed[:idx], s.removed[idx+1:]...)
	if s.selected == restored.RosterPhone {
		s.selected = ""
	}
	return nil
}

// UndoLastRemove restores the most recently removed automated match.
func (s *Session) UndoLastRemove() (attendance.MatchedEntry, error) {
	if len(s.removed) == 0 {
		return attendance.MatchedEntry{}, fmt.Errorf("nothing to undo: %w", ErrNotFound)
	}
	last := s.removed[len(s.removed)-1]
	if err := s.UndoRemove(last); err != nil {
		return attendance.MatchedEntry{}, err
	}
	return last, nil
}

// FindMatch returns the effective match for a roster phone and whether it was
// made manually.
func (s *Session) FindMatch(rosterPhone string) (attendance.MatchedEntry, bool, error) {
	for _, m := range s.manual {
		if m.RosterPhone == rosterPhone {
			return m, true, nil
		}
	}
	for _, m := range s.base.Matched {
		if m.RosterPhone == rosterPhone && s.removedIndex(m) < 0 {
			return m, false, nil
		}
	}
	return attendance.MatchedEntry{}, false, fmt.Errorf("match for %s: %w", rosterPhone, ErrNotFound)
}

// Validate checks the partition invariant of the effective result against the
// base roster and participant sets.
func (s *Session) Validate() error {
	phones := make(map[string]int)
	for _, m := range s.base.Matched {
		phones[m.RosterPhone] = 0
	}
	for _, a := range s.base.Absent {
		phones[a.RosterPhone] = 0
	}
	keys := make(map[string]int)
	for _, m := range s.base.Matched {
		keys[m.SessionKey] = 0
	}
	for _, u := range s.base.Unmatched {
		keys[u.SessionKey] = 0
	}

	effective := s.ComputeEffective()
	for _, m := range effective.Matched {
		if _, ok := phones[m.RosterPhone]; !ok {
			return fmt.Errorf("matched phone %s not on roster", m.RosterPhone)
		}
		if _, ok := keys[m.SessionKey]; !ok {
			return fmt.Errorf("matched session entry %q not in log", m.RawLabel)
		}
		phones[m.RosterPhone]++
		keys[m.SessionKey]++
	}
	for _, a := range effective.Absent {
		phones[a.RosterPhone]++
	}
	for _, u := range effective.Unmatched {
		keys[u.SessionKey]++
	}
	for phone, count := range phones {
		if count != 1 {
			return fmt.Errorf("roster member %s classified %d times", phone, count)
		}
	}
	for key, count := range keys {
		if count != 1 {
			return fmt.Errorf("session entry %q classified %d times", key, count)
		}
	}
	return nil
}

func (s *Session) removedIndex(match attendance.MatchedEntry) int {
	return indexOf(s.removed, match)
}

func (s *Session) knownPhone(phone string) bool {
	for _, m := range s.base.Matched {
		if m.RosterPhone == phone {
			return true
		}
	}
	for _, a := range s.base.Absent {
		if a.RosterPhone == phone {
			return true
		}
	}
	return false
}

func (s *Session) knownLabel(rawLabel string) bool {
	key := attendance.LabelKey(rawLabel)
	for _, m := range s.base.Matched {
		if attendance.LabelKey(m.RawLabel) == key || m.SessionKey == rawLabel {
			return true
		}
	}
	for _, u := range s.base.Unmatched {
		if attendance.LabelKey(u.RawLabel) == key || u.SessionKey == rawLabel {
			return true
		}
	}
	return false
}

// sameMatch compares matches by identity: one roster member bound to one
// session participant.
func sameMatch(a, b attendance.MatchedEntry) bool {
	return a.RosterPhone == b.RosterPhone && a.SessionKey == b.SessionKey
}

func indexOf(entries []attendance.MatchedEntry, match attendance.MatchedEntry) int {
	for i, entry := range entries {
		if sameMatch(entry, match) {
			return i
		}
	}
	return -1
}

func findAbsent(entries []attendance.AbsentEntry, phone string) (attendance.AbsentEntry, bool) {
	for _, entry := range entries {
		if entry.RosterPhone == phone {
			return entry, true
		}
	}
	return attendance.AbsentEntry{}, false
}

// findUnmatched resolves a raw label case-insensitively, then as a session key.
func findUnmatched(entries []attendance.UnmatchedEntry, rawLabel string) (attendance.UnmatchedEntry, bool) {
	key := attendance.LabelKey(rawLabel)
	for _, entry := range entries {
		if attendance.LabelKey(entry.RawLabel) == key {
			return entry, true
		}
	}
	return findUnmatchedByKey(entries, rawLabel)
}

func findUnmatchedByKey(entries []attendance.UnmatchedEntry, key string) (attendance.UnmatchedEntry, bool) {
	for _, entry := range entries {
		if entry.SessionKey == key {
			return entry, true
		}
	}
	return attendance.UnmatchedEntry{}, false
}
