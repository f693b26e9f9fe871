// Package attendance holds the reconciliation data model and the pure engine
// that partitions a roster and a session log into matched, absent and
// unmatched buckets.
//
// Aggregate merges reconnect duplicates into one participant per normalized
// key. Matcher then commits operator-confirmed learned matches first and fuzzy
// name matches second, scanning participants in first-seen order and taking
// the first compatible one for each roster member. Whatever remains is
// classified as absent (roster side) or unmatched (session side).
//
// Everything here is synchronous and free of I/O. Persistence, operator edits
// and learned-match storage live in the review, persist and learned packages.
package attendance
