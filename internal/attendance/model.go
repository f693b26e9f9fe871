package attendance

import (
	"strings"
	"time"
)

// RosterMember is an enrolled person. Phone is the identity key.
type RosterMember struct {
	Phone       string `json:"phone"`
	DisplayName string `json:"displayName,omitempty"`
	PushName    string `json:"pushName,omitempty"`
}

// Name returns the label used to compare and display the member: the display
// name, else the push name, else the phone digits.
func (m RosterMember) Name() string {
	if name := strings.TrimSpace(m.DisplayName); name != "" {
		return name
	}
	if name := strings.TrimSpace(m.PushName); name != "" {
		return name
	}
	return m.Phone
}

// SessionParticipant is one raw entry from a recorded session log. The same
// person may appear several times under reconnects.
type SessionParticipant struct {
	RawLabel        string    `json:"rawLabel"`
	DurationSeconds int64     `json:"durationSeconds"`
	JoinTime        time.Time `json:"joinTime"`
	LeaveTime       time.Time `json:"leaveTime"`
}

// AggregatedParticipant merges every raw entry sharing a normalized key.
type AggregatedParticipant struct {
	// Key is unique within one aggregation. It equals Normalized unless the
	// label normalizes to nothing, in which case it is derived from the raw label.
	Key                  string    `json:"key"`
	Normalized           string    `json:"normalized"`
	RepresentativeLabel  string    `json:"representativeLabel"`
	TotalDurationSeconds int64     `json:"totalDurationSeconds"`
	EarliestJoin         time.Time `json:"earliestJoin"`
	LatestLeave          time.Time `json:"latestLeave"`
	Generic              bool      `json:"generic"`
	Entries              int       `json:"entries"`
}

// LearnedMatch is an operator-confirmed correspondence between a raw session
// label and a roster phone.
type LearnedMatch struct {
	RawLabel          string    `json:"rawLabel"`
	RosterPhone       string    `json:"rosterPhone"`
	RosterDisplayName string    `json:"rosterDisplayName"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// LabelKey returns the case-insensitive key for a raw label.
func LabelKey(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Source records which step produced a match.
type Source string

const (
	SourceLearned Source = "learned"
	SourceFuzzy   Source = "fuzzy"
	SourceManual  Source = "manual"
)

// MatchedEntry pairs a roster member with the session participant attributed to them.
type MatchedEntry struct {
	RosterPhone       string    `json:"rosterPhone"`
	RosterDisplayName string    `json:"rosterDisplayName"`
	RawLabel          string    `json:"rawLabel"`
	SessionKey        string    `json:"sessionKey"`
	DurationSeconds   int64     `json:"durationSeconds"`
	JoinTime          time.Time `json:"joinTime"`
	LeaveTime         time.Time `json:"leaveTime"`
	Source            Source    `json:"source"`
	Generic           bool      `json:"generic,omitempty"`
}

// AbsentEntry is a roster member with no attributed session participant.
type AbsentEntry struct {
	RosterDisplayName string `json:"rosterDisplayName"`
	RosterPhone       string `json:"rosterPhone"`
}

// UnmatchedEntry is a session participant not attributed to anyone.
type UnmatchedEntry struct {
	RawLabel        string    `json:"rawLabel"`
	SessionKey      string    `json:"sessionKey"`
	DurationSeconds int64     `json:"durationSeconds"`
	JoinTime        time.Time `json:"joinTime"`
	LeaveTime       time.Time `json:"leaveTime"`
	Generic         bool      `json:"generic,omitempty"`
}

// MatchResult partitions a roster and an aggregated session log. Every roster
// member is in exactly one of Matched and Absent; every participant is in
// exactly one of Matched and Unmatched.
type MatchResult struct {
	Matched   []MatchedEntry   `json:"matched"`
	Absent    []AbsentEntry    `json:"absent"`
	Unmatched []UnmatchedEntry `json:"unmatchedSession"`
}

// Clone returns a deep copy with non-nil slices.
func (r MatchResult) Clone() MatchResult {
	out := MatchResult{
		Matched:   make([]MatchedEntry, len(r.Matched)),
		Absent:    make([]AbsentEntry, len(r.Absent)),
		Unmatched: make([]UnmatchedEntry, len(r.Unmatched)),
	}
	copy(out.Matched, r.Matched)
	copy(out.Absent, r.Absent)
	copy(out.Unmatched, r.Unmatched)
	return out
}

// GenericUnmatched counts unmatched entries flagged as generic labels.
func (r MatchResult) GenericUnmatched() int {
	count := 0
	for _, entry := range r.Unmatched {
		if entry.Generic {
			count++
		}
	}
	return count
}

// Unmatch converts a matched entry back into its session-side entry.
func (m MatchedEntry) Unmatch() UnmatchedEntry {
	return UnmatchedEntry{
		RawLabel:        m.RawLabel,
		SessionKey:      m.SessionKey,
		DurationSeconds: m.DurationSeconds,
		JoinTime:        m.JoinTime,
		LeaveTime:       m.LeaveTime,
		Generic:         m.Generic,
	}
}

// Absent converts a matched entry back into its roster-side entry.
func (m MatchedEntry) Absent() AbsentEntry {
	return AbsentEntry{RosterDisplayName: m.RosterDisplayName, RosterPhone: m.RosterPhone}
}

// AttendanceRecord is the committed reconciliation of one session.
type AttendanceRecord struct {
	SessionID    string `json:"sessionId"`
	SessionDate  string `json:"sessionDate"`
	ModuleNumber *int   `json:"moduleNumber,omitempty"`
	MatchResult
}
