package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"rollcall/internal/api"
	"rollcall/internal/attendance"
)

func newLearnedCommand(ctx *commandContext) *cobra.Command {
	learnedCmd := &cobra.Command{
		Use:   "learned",
		Short: "Inspect and manage learned label matches",
		Long: `Inspect and manage learned label matches.

Each manual match saved with 'rollcall review save' teaches rollcall that a
session label belongs to a roster member. Later sessions apply learned
matches before comparing names.

Commands:
  list     - List learned matches
  remove   - Remove a specific entry by number (see 'list' for numbers)
  clear    - Remove all learned matches`,
	}

	learnedCmd.AddCommand(newLearnedListCommand(ctx))
	learnedCmd.AddCommand(newLearnedRemoveCommand(ctx))
	learnedCmd.AddCommand(newLearnedClearCommand(ctx))

	return learnedCmd
}

func newLearnedListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List learned matches",
		Long:  "Display learned label matches, most recently confirmed first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(_ context.Context, svc *api.Service) error {
				entries := svc.LearnedMatches()
				if ctx.JSONMode() {
					if entries == nil {
						entries = []attendance.LearnedMatch{}
					}
					return writeJSON(cmd, entries)
				}

				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "Learned matches: none")
					return nil
				}
				fmt.Fprintf(out, "Learned matches: %d entries\n\n", len(entries))

				const stampLayout = "2006-01-02"
				for i, entry := range entries {
					updated := "unknown"
					if !entry.UpdatedAt.IsZero() {
						updated = entry.UpdatedAt.Local().Format(stampLayout)
					}
					fmt.Fprintf(out, "  %d. %q\n", i+1, entry.RawLabel)
					fmt.Fprintf(out, "     %s (%s) | Updated: %s\n\n", entry.RosterDisplayName, entry.RosterPhone, updated)
				}
				return nil
			})
		},
	}
}

func newLearnedRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <number>",
		Short: "Remove a learned match by number",
		Long: `Remove a learned match by its number from 'rollcall learned list'.

Example:
  rollcall learned list        # Shows numbered list of learned matches
  rollcall learned remove 2    # Removes entry #2 from the list`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var entryNum int
			if _, err := fmt.Sscanf(args[0], "%d", &entryNum); err != nil || entryNum < 1 {
				return fmt.Errorf("invalid entry number: %s (must be a positive integer)", args[0])
			}
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				entry, err := svc.RemoveLearnedByNumber(c, entryNum)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, map[string]any{
						"removed":  true,
						"entry":    entryNum,
						"rawLabel": entry.RawLabel,
					})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed learned match %d (%q -> %s)\n", entryNum, entry.RawLabel, entry.RosterDisplayName)
				return nil
			})
		},
	}
}

func newLearnedClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all learned matches",
		Long:  "Delete every learned match. Labels will be learned again from future manual matches.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				removed, err := svc.ClearLearned(c)
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, map[string]any{"cleared": true, "removed": removed})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d learned matches\n", removed)
				return nil
			})
		},
	}
}
