// Package config loads, normalizes, and validates rollcall configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the ROLLCALL_DATA_DIR environment
// override. Directories left empty are derived from the data directory, so a
// single override relocates the database, drafts, and logs together.
//
// The [matching] section extends or replaces the built-in device-word and
// nickname vocabulary used by the name normalizer; Vocabulary returns the
// merged result.
package config
