package api

import (
	"time"

	"rollcall/internal/attendance"
)

// ReviewView describes a draft and its effective partition.
type ReviewView struct {
	SessionID    string                    `json:"sessionId"`
	RunID        string                    `json:"runId"`
	SessionDate  string                    `json:"sessionDate,omitempty"`
	ModuleNumber *int                      `json:"moduleNumber,omitempty"`
	UpdatedAt    time.Time                 `json:"updatedAt"`
	Stats        attendance.Stats          `json:"stats"`
	Effective    attendance.MatchResult    `json:"effective"`
	Manual       []attendance.MatchedEntry `json:"manualAdditions"`
	Removed      []attendance.MatchedEntry `json:"removedAutoMatches"`
	Selected     string                    `json:"selected,omitempty"`
}

// SaveOutcome reports a committed session.
type SaveOutcome struct {
	Record  attendance.AttendanceRecord `json:"record"`
	Learned int                         `json:"learned"`
	// LearnWarning is set when the record was saved but learning failed.
	LearnWarning string `json:"learnWarning,omitempty"`
}

// Status aggregates store and draft state for diagnostic output.
type Status struct {
	DatabasePath   string `json:"databasePath"`
	SchemaVersion  int    `json:"schemaVersion"`
	IntegrityOK    bool   `json:"integrityOk"`
	Records        int    `json:"records"`
	LearnedMatches int    `json:"learnedMatches"`
	Drafts         int    `json:"drafts"`
	DraftsDir      string `json:"draftsDir"`
	Error          string `json:"error,omitempty"`
}
