package drafts

import (
	"time"

	"rollcall/internal/attendance"
	"rollcall/internal/review"
)

// Draft is a reconciliation session awaiting save.
type Draft struct {
	SessionID    string           `json:"sessionId"`
	RunID        string           `json:"runId"`
	SessionDate  string           `json:"sessionDate,omitempty"`
	ModuleNumber *int             `json:"moduleNumber,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
	Stats        attendance.Stats `json:"stats"`
	Review       review.Snapshot  `json:"review"`
}

// Session rebuilds the review session recorded in the draft.
func (d Draft) Session() (*review.Session, error) {
	return review.Restore(d.Review)
}

// Summary is a listing row for a stored draft.
type Summary struct {
	SessionID   string    `json:"sessionId"`
	SessionDate string    `json:"sessionDate,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Manual      int       `json:"manual"`
	Removed     int       `json:"removed"`
}

func (d Draft) summary() Summary {
	return Summary{
		SessionID:   d.SessionID,
		SessionDate: d.SessionDate,
		UpdatedAt:   d.UpdatedAt,
		Manual:      len(d.Review.ManualAdditions),
		Removed:     len(d.Review.RemovedAutoMatches),
	}
}
