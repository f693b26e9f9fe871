package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"rollcall/internal/api"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show database and draft status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				status, err := svc.Status(c)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, status)
				}
				rows := [][]string{
					{"Database", status.DatabasePath},
					{"Schema version", fmt.Sprintf("%d", status.SchemaVersion)},
					{"Integrity", yesNo(status.IntegrityOK, "ok", "FAILED")},
					{"Attendance records", fmt.Sprintf("%d", status.Records)},
					{"Learned matches", fmt.Sprintf("%d", status.LearnedMatches)},
					{"Open drafts", fmt.Sprintf("%d", status.Drafts)},
					{"Drafts directory", status.DraftsDir},
				}
				if status.Error != "" {
					rows = append(rows, []string{"Error", status.Error})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable("", []string{"Item", "Value"}, rows, nil))
				return nil
			})
		},
	}
}

func yesNo(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
