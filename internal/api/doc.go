// Package api is the application layer shared by the CLI commands. It wires
// configuration, the SQLite store, the learned-match cache, review drafts and
// the matcher into operations that each correspond to one user action.
//
// # Lifecycle
//
// Reconcile runs the matcher over a roster and session log and stores the
// base partition as a draft. Review actions (Match, Unmatch, Undo, Select,
// SelectLabel) each restore the draft, apply one edit and write it back under
// the draft lock. Save commits the effective partition through the
// persistence gateway and removes the draft; a failed save keeps the draft
// so the operator can retry.
//
// # Views
//
// ReviewView is the transport form of a draft: the effective partition plus
// the manual and removed lists, ready for table or JSON rendering.
package api
