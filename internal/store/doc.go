// Package store persists attendance records and learned matches in SQLite.
//
// Open applies WAL, busy-timeout and foreign-key pragmas and verifies the
// schema version; a database created by an incompatible release fails with
// ErrSchemaMismatch. Writes retry with backoff while another rollcall process
// holds the write lock.
//
// Attendance records are keyed by session ID and always replaced whole, so
// saving the same partition twice leaves an identical row. Learned matches
// are keyed by lowercased raw label. Store satisfies persist.RecordRepository
// and learned.Repository.
package store
