package sources

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rollcall/internal/attendance"
)

// LoadRoster reads a roster file, choosing the decoder by extension and
// falling back to content sniffing.
func LoadRoster(path string) ([]attendance.RosterMember, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	if isJSON(path, data) {
		return ParseRosterJSON(data)
	}
	return ParseRosterCSV(bytes.NewReader(data))
}

// LoadSessionLog reads a session log file. Timestamps without a zone are
// read in loc; a nil loc means local time.
func LoadSessionLog(path string, loc *time.Location) ([]attendance.SessionParticipant, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read session log: %w", err)
	}
	if isJSON(path, data) {
		return ParseSessionJSON(data, loc)
	}
	return ParseSessionCSV(bytes.NewReader(data), loc)
}

func isJSON(path string, data []byte) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return true
	case ".csv":
		return false
	}
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")), " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 03:04:05 PM",
	"01/02/2006 03:04 PM",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
}

// parseTimestamp accepts ISO-8601 and common meeting-export layouts. An empty
// value yields the zero time.
func parseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

func trim(value string) string {
	return strings.TrimSpace(value)
}
