package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"rollcall/internal/logging"
	"rollcall/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		lines  int
		follow bool
		day    string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the rollcall log",
		Long: `Show the rollcall log.

Prints the last lines of today's log file, or of the newest log file when
rollcall has not run today. Use --day to read an earlier file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var path string
			if d := strings.TrimSpace(day); d != "" {
				parsed, err := time.Parse(time.DateOnly, d)
				if err != nil {
					return fmt.Errorf("invalid --day %q (want YYYY-MM-DD)", d)
				}
				path = filepath.Join(cfg.Paths.LogDir, logging.DailyLogName(parsed))
			} else {
				path, err = logs.Latest(cfg.Paths.LogDir, logging.LogFilePattern)
				if err != nil {
					return err
				}
			}

			tail, offset, err := logs.Last(path, lines)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, line := range tail {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return logs.Follow(runCtx, path, offset, func(line string) {
				fmt.Fprintln(out, line)
			})
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of trailing lines to show")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing new lines until interrupted")
	cmd.Flags().StringVar(&day, "day", "", "Read the log for a specific day (YYYY-MM-DD)")
	return cmd
}
