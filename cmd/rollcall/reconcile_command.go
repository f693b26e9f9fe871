package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rollcall/internal/api"
	"rollcall/internal/sources"
)

func newReconcileCommand(ctx *commandContext) *cobra.Command {
	var (
		rosterPath string
		logPath    string
		sessionID  string
		date       string
		module     int
		timezone   string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Match a session log against a roster and open a review draft",
		Long: `Match a session log against a roster and open a review draft.

Learned matches from earlier sessions are applied first, then names are
compared after normalization. Roster members left over are reported absent
and session labels left over are reported unmatched. Review the draft with
'rollcall review' and commit it with 'rollcall review save'.

The session ID defaults to the date, suffixed with -m<module> when --module
is given.`,
		Example: `  rollcall reconcile --roster roster.csv --log meeting.csv --date 2026-03-14 --module 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if d := strings.TrimSpace(date); d != "" {
				if _, err := time.Parse(time.DateOnly, d); err != nil {
					return fmt.Errorf("invalid --date %q (want YYYY-MM-DD)", d)
				}
			}
			id := strings.TrimSpace(sessionID)
			if id == "" {
				id = defaultSessionID(date, module)
			}
			if id == "" {
				return fmt.Errorf("--session or --date is required")
			}
			loc, err := loadLocation(timezone)
			if err != nil {
				return err
			}

			roster, err := sources.LoadRoster(rosterPath)
			if err != nil {
				return err
			}
			participants, err := sources.LoadSessionLog(logPath, loc)
			if err != nil {
				return err
			}

			req := api.ReconcileRequest{
				SessionID:    id,
				SessionDate:  strings.TrimSpace(date),
				Roster:       roster,
				Participants: participants,
				Force:        force,
			}
			if module > 0 {
				value := module
				req.ModuleNumber = &value
			}

			return ctx.withService(cmd, func(c context.Context, svc *api.Service) error {
				view, err := svc.Reconcile(c, req)
				if err != nil {
					return err
				}
				return ctx.printView(cmd, view)
			})
		},
	}

	cmd.Flags().StringVarP(&rosterPath, "roster", "r", "", "Roster file (JSON or CSV)")
	cmd.Flags().StringVarP(&logPath, "log", "l", "", "Session log file (JSON or meeting-export CSV)")
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "Session ID for the draft and attendance record")
	cmd.Flags().StringVar(&date, "date", "", "Session date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&module, "module", 0, "Module number")
	cmd.Flags().StringVar(&timezone, "tz", "", "Time zone for log timestamps without an offset (default local)")
	cmd.Flags().BoolVar(&force, "force", false, "Replace an existing review draft for the session")
	_ = cmd.MarkFlagRequired("roster")
	_ = cmd.MarkFlagRequired("log")

	return cmd
}

func defaultSessionID(date string, module int) string {
	date = strings.TrimSpace(date)
	if date == "" {
		return ""
	}
	if module > 0 {
		return fmt.Sprintf("%s-m%d", date, module)
	}
	return date
}

func loadLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid --tz %q: %w", name, err)
	}
	return loc, nil
}
