package sources

import (
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/gjson"

	"rollcall/internal/attendance"
)

var (
	rosterPhoneKeys = []string{"phone", "phone_number", "number", "mobile"}
	rosterNameKeys  = []string{"display_name", "name", "full_name"}
	rosterPushKeys  = []string{"push_name", "nickname"}
)

// ParseRosterJSON decodes a JSON array of {phone, displayName, pushName}.
func ParseRosterJSON(data []byte) ([]attendance.RosterMember, error) {
	parsed, err := parseJSONArray(data)
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	roster := newRosterBuilder()
	index := 0
	var rowErr error
	parsed.ForEach(func(_, value gjson.Result) bool {
		if !value.IsObject() {
			rowErr = indexError(index, "", errors.New("expected an object"))
			return false
		}
		phone, _ := lookup(value, rosterPhoneKeys...)
		name, _ := lookup(value, rosterNameKeys...)
		push, _ := lookup(value, rosterPushKeys...)
		if err := roster.add(phone.String(), name.String(), push.String()); err != nil {
			rowErr = indexError(index, "phone", err)
			return false
		}
		index++
		return true
	})
	if rowErr != nil {
		return nil, fmt.Errorf("roster: %w", rowErr)
	}
	return roster.members, nil
}

// ParseRosterCSV decodes a CSV roster with a phone column and optional
// display_name and push_name columns.
func ParseRosterCSV(r io.Reader) ([]attendance.RosterMember, error) {
	table, err := readCSVHeader(r)
	if err != nil {
		return nil, fmt.Errorf("roster: %w", err)
	}
	phoneCol, ok := table.column(rosterPhoneKeys...)
	if !ok {
		return nil, fmt.Errorf("roster: missing phone column in header %v", table.headers)
	}
	nameCol, _ := table.column(rosterNameKeys...)
	pushCol, _ := table.column(rosterPushKeys...)

	roster := newRosterBuilder()
	for {
		row, line, err := table.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("roster: %w", err)
		}
		if err := roster.add(cell(row, phoneCol), cell(row, nameCol), cell(row, pushCol)); err != nil {
			return nil, fmt.Errorf("roster: %w", lineError(line, "phone", err))
		}
	}
	return roster.members, nil
}

type rosterBuilder struct {
	members []attendance.RosterMember
	seen    map[string]struct{}
}

func newRosterBuilder() *rosterBuilder {
	return &rosterBuilder{members: []attendance.RosterMember{}, seen: map[string]struct{}{}}
}

func (b *rosterBuilder) add(phone, displayName, pushName string) error {
	normalized := attendance.NormalizePhone(phone)
	if normalized == "" {
		return fmt.Errorf("no digits in %q", phone)
	}
	if _, dup := b.seen[normalized]; dup {
		return fmt.Errorf("duplicate phone %s", normalized)
	}
	b.seen[normalized] = struct{}{}
	b.members = append(b.members, attendance.RosterMember{
		Phone:       normalized,
		DisplayName: trim(displayName),
		PushName:    trim(pushName),
	})
	return nil
}
