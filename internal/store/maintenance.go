package store

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// DatabaseHealth describes the database file and its contents.
type DatabaseHealth struct {
	DBPath         string `json:"dbPath"`
	DatabaseExists bool   `json:"databaseExists"`
	SchemaVersion  int    `json:"schemaVersion"`
	IntegrityCheck bool   `json:"integrityCheck"`
	Records        int    `json:"records"`
	LearnedMatches int    `json:"learnedMatches"`
	Error          string `json:"error,omitempty"`
}

// CheckHealth returns diagnostic information about the database.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	ctx = ensureContext(ctx)
	health := DatabaseHealth{DBPath: s.path}
	if s.path == "" {
		return health, errors.New("database path is unknown")
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return health, nil
		}
		return health, fmt.Errorf("stat database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&health.SchemaVersion); err != nil {
		health.Error = fmt.Sprintf("read schema version: %v", err)
		return health, nil
	}

	var integrity string
	if err := s.db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&integrity); err != nil {
		health.Error = fmt.Sprintf("integrity check failed: %v", err)
		return health, nil
	}
	health.IntegrityCheck = integrity == "ok"

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM attendance_records").Scan(&health.Records); err != nil {
		health.Error = fmt.Sprintf("count records: %v", err)
		return health, nil
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM learned_matches").Scan(&health.LearnedMatches); err != nil {
		health.Error = fmt.Sprintf("count learned matches: %v", err)
	}
	return health, nil
}
