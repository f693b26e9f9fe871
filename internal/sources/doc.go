// Package sources reads rosters and session logs exported by the tools that
// run a class into the typed records the matcher consumes.
//
// Both inputs accept a JSON array or a CSV file with a header row. JSON keys
// and CSV headers are matched loosely ("displayName", "display_name" and
// "Display Name" are the same column) so exports from different tools load
// without preprocessing. Meeting-export CSVs with a "Duration (Minutes)"
// column are converted to seconds.
//
// Every validation failure is a *RecordError naming the file position of the
// offending row; nothing is partially loaded.
package sources
