package sources

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"rollcall/internal/attendance"
)

var (
	labelKeys    = []string{"raw_label", "name_original_name", "name", "participant", "display_name"}
	durationKeys = []string{"duration_seconds", "duration"}
	joinKeys     = []string{"join_time", "joined", "join"}
	leaveKeys    = []string{"leave_time", "left", "leave"}
)

// ParseSessionJSON decodes a JSON array of {rawLabel, durationSeconds,
// joinTime, leaveTime}. Timestamps without a zone are read in loc.
func ParseSessionJSON(data []byte, loc *time.Location) ([]attendance.SessionParticipant, error) {
	parsed, err := parseJSONArray(data)
	if err != nil {
		return nil, fmt.Errorf("session log: %w", err)
	}
	participants := []attendance.SessionParticipant{}
	index := 0
	var rowErr error
	parsed.ForEach(func(_, value gjson.Result) bool {
		if !value.IsObject() {
			rowErr = indexError(index, "", errors.New("expected an object"))
			return false
		}
		label, _ := lookup(value, labelKeys...)
		row := participantRow{label: label.String()}
		if v, ok := lookup(value, durationKeys...); ok {
			row.duration, row.hasDuration = v.String(), true
		}
		if v, ok := lookup(value, joinKeys...); ok {
			row.join = v.String()
		}
		if v, ok := lookup(value, leaveKeys...); ok {
			row.leave = v.String()
		}
		participant, field, err := row.build(loc, time.Second)
		if err != nil {
			rowErr = indexError(index, field, err)
			return false
		}
		participants = append(participants, participant)
		index++
		return true
	})
	if rowErr != nil {
		return nil, fmt.Errorf("session log: %w", rowErr)
	}
	return participants, nil
}

// ParseSessionCSV decodes a meeting-export CSV. A duration header mentioning
// minutes is converted to seconds; without a duration column the duration is
// derived from join and leave times.
func ParseSessionCSV(r io.Reader, loc *time.Location) ([]attendance.SessionParticipant, error) {
	table, err := readCSVHeader(r)
	if err != nil {
		return nil, fmt.Errorf("session log: %w", err)
	}
	labelCol, ok := table.column(labelKeys...)
	if !ok {
		return nil, fmt.Errorf("session log: missing name column in header %v", table.headers)
	}
	joinCol, _ := table.column(joinKeys...)
	leaveCol, _ := table.column(leaveKeys...)
	durationCol, durationHeader, hasDuration := table.columnContaining("duration")
	unit := time.Second
	if hasDuration && strings.Contains(columnKey(durationHeader), "min") {
		unit = time.Minute
	}

	participants := []attendance.SessionParticipant{}
	for {
		row, line, err := table.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("session log: %w", err)
		}
		entry := participantRow{
			label: cell(row, labelCol),
			join:  cell(row, joinCol),
			leave: cell(row, leaveCol),
		}
		if hasDuration {
			entry.duration = cell(row, durationCol)
			entry.hasDuration = entry.duration != ""
		}
		participant, field, err := entry.build(loc, unit)
		if err != nil {
			return nil, fmt.Errorf("session log: %w", lineError(line, field, err))
		}
		participants = append(participants, participant)
	}
	return participants, nil
}

type participantRow struct {
	label       string
	duration    string
	hasDuration bool
	join        string
	leave       string
}

// build validates the row and returns the offending field name on error.
func (r participantRow) build(loc *time.Location, unit time.Duration) (attendance.SessionParticipant, string, error) {
	p := attendance.SessionParticipant{RawLabel: r.label}
	var err error
	if p.JoinTime, err = parseTimestamp(r.join, loc); err != nil {
		return p, "join_time", err
	}
	if p.LeaveTime, err = parseTimestamp(r.leave, loc); err != nil {
		return p, "leave_time", err
	}
	if !p.JoinTime.IsZero() && !p.LeaveTime.IsZero() && p.LeaveTime.Before(p.JoinTime) {
		return p, "leave_time", errors.New("leave time precedes join time")
	}

	switch {
	case r.hasDuration:
		value, err := strconv.ParseFloat(strings.TrimSpace(r.duration), 64)
		if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
			return p, "duration", fmt.Errorf("not a number: %q", r.duration)
		}
		if value < 0 {
			return p, "duration", fmt.Errorf("negative duration %v", value)
		}
		p.DurationSeconds = int64(math.Round(value * unit.Seconds()))
	case !p.JoinTime.IsZero() && !p.LeaveTime.IsZero():
		p.DurationSeconds = int64(p.LeaveTime.Sub(p.JoinTime).Round(time.Second).Seconds())
	default:
		return p, "duration", errors.New("missing duration and join/leave times")
	}
	return p, "", nil
}
