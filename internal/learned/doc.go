// Package learned keeps operator-confirmed label corrections so future
// reconciliation runs can attribute the same raw labels without fuzzy matching.
//
// # Keys
//
// Entries are keyed by the lowercased, trimmed raw label. Upserts are last
// write wins per key, and many labels may point at the same roster phone.
// Lookups try the exact key first and then fall back to comparing normalized
// forms, so "Ali's iPhone" finds an entry recorded as "ALI (iPhone)".
//
// # Storage
//
// The Store loads every entry from its Repository once and serves lookups from
// memory. Writes go to the repository first and update the in-memory index
// only after they succeed. The SQLite implementation lives in internal/store.
//
// CLI commands for inspection and management:
//
//	rollcall learned list              # List learned matches, newest first
//	rollcall learned remove <number>   # Remove entry by number from list
//	rollcall learned clear             # Remove all entries
package learned
