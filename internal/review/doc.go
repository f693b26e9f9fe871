// Package review holds the operator-editable reconciliation session.
//
// A Session wraps the Matcher's base partition and layers manual additions and
// removed automated matches on top of it. ComputeEffective derives the
// matched/absent/unmatched partition the operator sees; every mutation keeps
// that partition complete and duplicate free. Rejected edits return
// ErrAlreadyMatched or ErrNotFound and leave the session unchanged.
//
// The selection protocol (ToggleAbsent, SelectUnmatched) models the two-click
// manual match flow independent of any rendering. Snapshot and Restore let the
// CLI persist a session between invocations as a draft.
package review
