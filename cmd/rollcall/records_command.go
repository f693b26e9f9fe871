package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"rollcall/internal/api"
	"rollcall/internal/store"
)

func newRecordsCommand(ctx *commandContext) *cobra.Command {
	recordsCmd := &cobra.Command{
		Use:   "records",
		Short: "Inspect saved attendance records",
	}

	recordsCmd.AddCommand(newRecordsListCommand(ctx))
	recordsCmd.AddCommand(newRecordsShowCommand(ctx))
	recordsCmd.AddCommand(newRecordsDeleteCommand(ctx))

	return recordsCmd
}

func newRecordsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved attendance records, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				summaries, err := svc.Records(c)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					if summaries == nil {
						summaries = []store.RecordSummary{}
					}
					return writeJSON(cmd, summaries)
				}
				out := cmd.OutOrStdout()
				if len(summaries) == 0 {
					fmt.Fprintln(out, "No attendance records")
					return nil
				}
				rows := make([][]string, 0, len(summaries))
				for _, s := range summaries {
					rows = append(rows, []string{
						s.SessionID,
						s.SessionDate,
						formatModule(s.ModuleNumber),
						strconv.Itoa(s.Matched),
						strconv.Itoa(s.Absent),
						strconv.Itoa(s.Unmatched),
					})
				}
				fmt.Fprintln(out, renderTable("", []string{"Session", "Date", "Module", "Present", "Absent", "Unmatched"}, rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight}))
				return nil
			})
		},
	}
}

func newRecordsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <session>",
		Short: "Show a saved attendance record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				record, err := svc.Record(c, args[0])
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, record)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Session %s | %s | Module %s\n\n", record.SessionID, record.SessionDate, formatModule(record.ModuleNumber))
				renderPartition(out, record.MatchResult, "")
				return nil
			})
		},
	}
}

func newRecordsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session>",
		Short: "Delete a saved attendance record",
		Long:  "Delete a saved attendance record. Learned matches recorded when it was saved are kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				if err := svc.DeleteRecord(c, args[0]); err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, map[string]any{"deleted": true, "sessionId": args[0]})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted attendance record %s\n", args[0])
				return nil
			})
		},
	}
}
