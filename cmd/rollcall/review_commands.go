package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"rollcall/internal/api"
	"rollcall/internal/attendance"
	"rollcall/internal/drafts"
)

func newReviewCommand(ctx *commandContext) *cobra.Command {
	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "Inspect and correct reconciliation drafts",
		Long: `Inspect and correct reconciliation drafts.

A draft is created by 'rollcall reconcile' and holds the automated matches
together with your corrections. Nothing is written to the attendance
database until 'rollcall review save'.

Commands:
  list     - List open drafts
  show     - Show the effective partition of a draft
  match    - Bind an absent member to an unmatched label
  select   - Toggle the selected absent member
  assign   - Bind the selected member to an unmatched label
  unmatch  - Remove a member's match
  undo     - Restore the most recently removed automated match
  save     - Commit the draft and learn from manual matches
  discard  - Delete the draft without saving`,
	}

	reviewCmd.AddCommand(newReviewListCommand(ctx))
	reviewCmd.AddCommand(newReviewShowCommand(ctx))
	reviewCmd.AddCommand(newReviewMatchCommand(ctx))
	reviewCmd.AddCommand(newReviewSelectCommand(ctx))
	reviewCmd.AddCommand(newReviewAssignCommand(ctx))
	reviewCmd.AddCommand(newReviewUnmatchCommand(ctx))
	reviewCmd.AddCommand(newReviewUndoCommand(ctx))
	reviewCmd.AddCommand(newReviewSaveCommand(ctx))
	reviewCmd.AddCommand(newReviewDiscardCommand(ctx))

	return reviewCmd
}

func newReviewListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List open review drafts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(_ context.Context, svc *api.Service) error {
				summaries, err := svc.Drafts()
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					if summaries == nil {
						summaries = []drafts.Summary{}
					}
					return writeJSON(cmd, summaries)
				}
				out := cmd.OutOrStdout()
				if len(summaries) == 0 {
					fmt.Fprintln(out, "No open drafts")
					return nil
				}
				rows := make([][]string, 0, len(summaries))
				for _, s := range summaries {
					rows = append(rows, []string{
						s.SessionID,
						s.SessionDate,
						s.UpdatedAt.Local().Format("2006-01-02 15:04"),
						strconv.Itoa(s.Manual),
						strconv.Itoa(s.Removed),
					})
				}
				fmt.Fprintln(out, renderTable("", []string{"Session", "Date", "Updated", "Manual", "Removed"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight}))
				return nil
			})
		},
	}
}

func newReviewShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <session>",
		Short: "Show the effective partition of a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(_ context.Context, svc *api.Service) error {
				view, err := svc.Draft(args[0])
				if err != nil {
					return err
				}
				return ctx.printView(cmd, view)
			})
		},
	}
}

func newReviewMatchCommand(ctx *commandContext) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "match <session> <phone> <label>",
		Short: "Bind an absent roster member to an unmatched session label",
		Long: `Bind an absent roster member to an unmatched session label.

The label must be given exactly as shown under Unmatched (case-insensitive).
When the draft is saved, the label is remembered for future sessions.`,
		Example: `  rollcall review match 2026-03-14-m3 15550003 "Dad's Galaxy"`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				entry, view, err := svc.Match(c, args[0], args[1], args[2], strings.TrimSpace(name))
				if err != nil {
					return err
				}
				return ctx.printChange(cmd, view, "Matched", entry)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name to record instead of the roster name")
	return cmd
}

func newReviewSelectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "select <session> <phone>",
		Short: "Toggle the selected absent member",
		Long: `Toggle the selected absent member.

Selecting the member already selected clears the selection. Use
'rollcall review assign' to bind the selected member to a label.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				selected, view, err := svc.Select(c, args[0], args[1])
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, map[string]any{"selected": selected, "review": view})
				}
				if selected {
					fmt.Fprintf(cmd.OutOrStdout(), "Selected %s\n", view.Selected)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "Selection cleared")
				}
				return nil
			})
		},
	}
}

func newReviewAssignCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <session> <label>",
		Short: "Bind the selected absent member to an unmatched label",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				entry, view, err := svc.SelectLabel(c, args[0], args[1])
				if err != nil {
					return err
				}
				return ctx.printChange(cmd, view, "Matched", entry)
			})
		},
	}
}

func newReviewUnmatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "unmatch <session> <phone>",
		Short: "Remove a roster member's match",
		Long: `Remove a roster member's match.

A manual match is dropped outright. An automated match is set aside and can
be restored with 'rollcall review undo'.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				entry, view, err := svc.Unmatch(c, args[0], args[1])
				if err != nil {
					return err
				}
				return ctx.printChange(cmd, view, "Unmatched", entry)
			})
		},
	}
}

func newReviewUndoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <session>",
		Short: "Restore the most recently removed automated match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				entry, view, err := svc.Undo(c, args[0])
				if err != nil {
					return err
				}
				return ctx.printChange(cmd, view, "Restored", entry)
			})
		},
	}
}

func newReviewSaveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "save <session>",
		Short: "Commit a draft as the session's attendance record",
		Long: `Commit a draft as the session's attendance record.

Saving replaces any earlier record for the session. Manual matches are
remembered as learned matches once the record is stored. If the record
cannot be written the draft is kept so the save can be retried.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				outcome, err := svc.Save(c, args[0])
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, outcome)
				}
				out := cmd.OutOrStdout()
				record := outcome.Record
				fmt.Fprintf(out, "Saved %s: %d present, %d absent, %d unmatched\n",
					record.SessionID, len(record.Matched), len(record.Absent), len(record.Unmatched))
				if outcome.Learned > 0 {
					fmt.Fprintf(out, "Learned %d label(s) for future sessions\n", outcome.Learned)
				}
				if outcome.LearnWarning != "" {
					fmt.Fprintf(out, "Warning: labels were not remembered: %s\n", outcome.LearnWarning)
				}
				return nil
			})
		},
	}
}

func newReviewDiscardCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "discard <session>",
		Short: "Delete a draft without saving",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				if err := svc.Discard(c, args[0]); err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, map[string]any{"discarded": true, "sessionId": args[0]})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Discarded draft %s\n", args[0])
				return nil
			})
		},
	}
}

func (c *commandContext) printView(cmd *cobra.Command, view api.ReviewView) error {
	if c.JSONMode() {
		return writeJSON(cmd, view)
	}
	renderReview(cmd.OutOrStdout(), view)
	return nil
}

func (c *commandContext) printChange(cmd *cobra.Command, view api.ReviewView, verb string, entry attendance.MatchedEntry) error {
	if c.JSONMode() {
		return writeJSON(cmd, map[string]any{"entry": entry, "review": view})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s) with %q\n\n", verb, entry.RosterDisplayName, entry.RosterPhone, entry.RawLabel)
	renderReview(cmd.OutOrStdout(), view)
	return nil
}
