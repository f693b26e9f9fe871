// Package persist commits an approved reconciliation.
//
// Gateway.Save writes the effective partition as an AttendanceRecord through a
// RecordRepository in one full-replace upsert keyed by session ID. Only after
// that write succeeds does it record the session's manual additions as learned
// matches. Learning is best effort: a failure there is logged, reported in
// SaveResult.LearnErr, and never rolls back the saved record.
package persist
