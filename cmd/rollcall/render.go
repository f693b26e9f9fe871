package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"rollcall/internal/api"
	"rollcall/internal/attendance"
)

func renderReview(out io.Writer, view api.ReviewView) {
	fmt.Fprintf(out, "Session %s", view.SessionID)
	if view.SessionDate != "" {
		fmt.Fprintf(out, " | %s", view.SessionDate)
	}
	if view.ModuleNumber != nil {
		fmt.Fprintf(out, " | Module %d", *view.ModuleNumber)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Roster %d | Participants %d | Learned %d | Fuzzy %d | Manual %d | Removed %d\n\n",
		view.Stats.Roster, view.Stats.Participants, view.Stats.Learned, view.Stats.Fuzzy,
		len(view.Manual), len(view.Removed))

	renderPartition(out, view.Effective, view.Selected)

	switch {
	case len(view.Effective.Absent) > 0 && len(view.Effective.Unmatched) > 0:
		fmt.Fprintf(out, "\nNext: rollcall review match %s <phone> <label>, then rollcall review save %s\n", view.SessionID, view.SessionID)
	default:
		fmt.Fprintf(out, "\nNext: rollcall review save %s\n", view.SessionID)
	}
}

func renderPartition(out io.Writer, result attendance.MatchResult, selected string) {
	matchedRows := make([][]string, 0, len(result.Matched))
	for i, m := range result.Matched {
		matchedRows = append(matchedRows, []string{
			strconv.Itoa(i + 1),
			m.RosterDisplayName,
			m.RosterPhone,
			labelCell(m.RawLabel, m.Generic),
			formatSeconds(m.DurationSeconds),
			string(m.Source),
		})
	}
	fmt.Fprintln(out, renderTable(fmt.Sprintf("Present (%d)", len(result.Matched)),
		[]string{"#", "Name", "Phone", "Label", "Duration", "Source"}, matchedRows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}))

	if len(result.Absent) > 0 {
		absentRows := make([][]string, 0, len(result.Absent))
		for i, a := range result.Absent {
			marker := ""
			if a.RosterPhone == selected {
				marker = "selected"
			}
			absentRows = append(absentRows, []string{strconv.Itoa(i + 1), a.RosterDisplayName, a.RosterPhone, marker})
		}
		fmt.Fprintln(out, renderTable(fmt.Sprintf("Absent (%d)", len(result.Absent)),
			[]string{"#", "Name", "Phone", ""}, absentRows,
			[]columnAlignment{alignRight}))
	}

	if len(result.Unmatched) > 0 {
		unmatchedRows := make([][]string, 0, len(result.Unmatched))
		for i, u := range result.Unmatched {
			unmatchedRows = append(unmatchedRows, []string{
				strconv.Itoa(i + 1),
				labelCell(u.RawLabel, u.Generic),
				formatSeconds(u.DurationSeconds),
			})
		}
		fmt.Fprintln(out, renderTable(fmt.Sprintf("Unmatched (%d, %d generic)", len(result.Unmatched), result.GenericUnmatched()),
			[]string{"#", "Label", "Duration"}, unmatchedRows,
			[]columnAlignment{alignRight, alignLeft, alignRight}))
	}
}

func labelCell(label string, generic bool) string {
	if label == "" {
		label = `""`
	}
	if generic {
		return label + " (generic)"
	}
	return label
}

func formatSeconds(seconds int64) string {
	if seconds <= 0 {
		return "0s"
	}
	return (time.Duration(seconds) * time.Second).String()
}

func formatModule(module *int) string {
	if module == nil {
		return "-"
	}
	return strconv.Itoa(*module)
}
