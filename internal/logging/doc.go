// Package logging assembles structured slog loggers and formatting helpers used
// across rollcall.
//
// It owns the console and JSON handlers, fans output to the terminal and a
// daily log file, and applies per-component level overrides from config. The
// console handler colours level labels only when writing to a terminal.
//
// Context helpers tag log lines with the reconciled session ID and the run ID
// of the current CLI invocation. Warnings should go through WarnWithContext so
// every one carries an event type, a hint, and the user-facing impact. NewNop
// serves tests and wiring code that cannot fail.
package logging
