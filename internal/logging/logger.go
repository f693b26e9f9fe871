package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"rollcall/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level       string
	Format      string
	OutputPaths []string
	// ComponentLevels raises or lowers the level for loggers tagged with a
	// component attribute.
	ComponentLevels map[string]string
	// RunID is attached to every record when set.
	RunID       string
	Development bool
	// NoColor disables ANSI colours even on a terminal.
	NoColor bool
}

// New constructs a slog logger using the provided options. Each output path
// gets its own handler so colour is only written to terminals.
func New(opts Options) (*slog.Logger, error) {
	level := parseLevel(opts.Level)
	overrides := make(map[string]slog.Level, len(opts.ComponentLevels))
	floor := level
	for component, value := range opts.ComponentLevels {
		lvl := parseLevel(value)
		overrides[strings.ToLower(component)] = lvl
		if lvl < floor {
			floor = lvl
		}
	}
	levelVar := new(slog.LevelVar)
	levelVar.Set(floor)

	addSource := opts.Development || level <= slog.LevelDebug

	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}
	if format != "console" && format != "json" {
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	outputs, err := openOutputs(defaultSlice(opts.OutputPaths, []string{"stderr"}))
	if err != nil {
		return nil, err
	}

	handlers := make([]slog.Handler, 0, len(outputs))
	for _, out := range outputs {
		if format == "json" {
			handlers = append(handlers, newJSONHandler(out.writer, levelVar, addSource))
			continue
		}
		color := out.terminal && !opts.NoColor
		handlers = append(handlers, newPrettyHandler(out.writer, levelVar, addSource, color))
	}

	handler := newFanoutHandler(handlers...)
	handler = newComponentLevelHandler(handler, level, overrides)
	if runID := strings.TrimSpace(opts.RunID); runID != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String(FieldRunID, runID)})
	}
	return slog.New(handler), nil
}

// NewFromConfig creates a logger writing to stderr and to a daily file under
// the configured log directory, then prunes log files past retention.
func NewFromConfig(cfg *config.Config, runID string) (*slog.Logger, error) {
	if cfg == nil {
		return New(Options{Level: "info", Format: "console", RunID: runID})
	}

	outputPaths := []string{"stderr"}
	var logPath string
	if cfg.Paths.LogDir != "" {
		if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
		logPath = filepath.Join(cfg.Paths.LogDir, DailyLogName(time.Now()))
		outputPaths = append(outputPaths, logPath)
	}

	logger, err := New(Options{
		Level:           cfg.Logging.Level,
		Format:          cfg.Logging.Format,
		OutputPaths:     outputPaths,
		ComponentLevels: cfg.Logging.ComponentOverrides,
		RunID:           runID,
	})
	if err != nil {
		return nil, err
	}
	if logPath != "" {
		CleanupOldLogs(logger, cfg.Logging.RetentionDays, RetentionTarget{
			Dir:     cfg.Paths.LogDir,
			Pattern: LogFilePattern,
			Exclude: []string{logPath},
		})
	}
	return logger, nil
}

// LogFilePattern matches the daily log files in the log directory.
const LogFilePattern = "rollcall-*.log"

// DailyLogName returns the log file name for the day containing t.
func DailyLogName(t time.Time) string {
	return "rollcall-" + t.Format("2006-01-02") + ".log"
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func defaultSlice(value []string, fallback []string) []string {
	if len(value) == 0 {
		return append([]string(nil), fallback...)
	}
	return append([]string(nil), value...)
}

type output struct {
	writer   io.Writer
	terminal bool
}

func openOutputs(paths []string) ([]output, error) {
	seen := map[string]struct{}{}
	outputs := make([]output, 0, len(paths))
	for _, path := range paths {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}

		switch trimmed {
		case "stdout":
			outputs = append(outputs, output{writer: os.Stdout, terminal: isTerminal(os.Stdout)})
		case "stderr":
			outputs = append(outputs, output{writer: os.Stderr, terminal: isTerminal(os.Stderr)})
		default:
			if err := ensureLogDir(trimmed); err != nil {
				return nil, err
			}
			file, err := os.OpenFile(trimmed, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, fmt.Errorf("open log file %s: %w", trimmed, err)
			}
			outputs = append(outputs, output{writer: file})
		}
	}
	if len(outputs) == 0 {
		outputs = append(outputs, output{writer: os.Stderr, terminal: isTerminal(os.Stderr)})
	}
	return outputs, nil
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	opts := slog.HandlerOptions{
		Level:     lvl,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
				}
			case slog.LevelKey:
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			case slog.SourceKey:
				if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
					attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return attr
		},
	}
	return slog.NewJSONHandler(w, &opts)
}
