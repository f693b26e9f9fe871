// Package drafts keeps in-progress review sessions on disk between CLI
// invocations.
//
// Each session ID maps to one JSON file under the drafts directory, replaced
// atomically on every write. Update holds a per-session file lock for the
// duration of a load, mutate and save cycle so two terminals cannot interleave
// edits to the same draft; a lock that cannot be acquired within the timeout
// fails with ErrLocked.
package drafts
