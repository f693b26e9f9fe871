package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rollcall/internal/config"
	"rollcall/internal/logging"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestNewFromConfigWritesDailyFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg, "run-1")
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("reconcile finished")

	path := filepath.Join(cfg.Paths.LogDir, logging.DailyLogName(time.Now()))
	content := readFile(t, path)
	if !strings.Contains(content, "reconcile finished") {
		t.Fatalf("expected message in daily log, got %q", content)
	}
	if strings.Contains(content, "\x1b[") {
		t.Fatalf("expected no colour codes in file output, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")

	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message without caller", logging.Int("matched", 3))

	content := readFile(t, logPath)
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
	if !strings.Contains(content, "- Matched: 3") {
		t.Fatalf("expected highlighted field, got %q", content)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")

	logger, err := logging.New(logging.Options{Format: "console", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("message with caller")

	if content := readFile(t, logPath); !strings.Contains(content, ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestJSONLoggerAddsRunIDAndSession(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")

	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}, RunID: "run-42"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := logging.WithSessionID(context.Background(), "2026-03-14-m3")
	logging.WithContext(ctx, logger).Info("saved")

	var record map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readFile(t, logPath))), &record); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if record[logging.FieldRunID] != "run-42" {
		t.Fatalf("expected run id, got %v", record)
	}
	if record[logging.FieldSessionID] != "2026-03-14-m3" {
		t.Fatalf("expected session id, got %v", record)
	}
	if record["level"] != "info" {
		t.Fatalf("expected lowercase level, got %v", record["level"])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestComponentOverrides(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "components.log")

	logger, err := logging.New(logging.Options{
		Format:          "console",
		Level:           "warn",
		OutputPaths:     []string{logPath},
		ComponentLevels: map[string]string{"matcher": "debug"},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.NewComponentLogger(logger, "matcher").Debug("matcher detail")
	logging.NewComponentLogger(logger, "store").Info("store detail")
	logger.Info("root detail")
	logger.Warn("root warning")

	content := readFile(t, logPath)
	if !strings.Contains(content, "matcher detail") {
		t.Fatalf("expected overridden component to log at debug, got %q", content)
	}
	if strings.Contains(content, "store detail") || strings.Contains(content, "root detail") {
		t.Fatalf("expected other loggers to stay at warn, got %q", content)
	}
	if !strings.Contains(content, "root warning") {
		t.Fatalf("expected warning, got %q", content)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	logging.WarnWithContext(logger, "learned write failed", "learned_record_failed",
		logging.Error(errors.New("disk full")),
		logging.String(logging.FieldImpact, "labels not remembered"))

	out := buf.String()
	for _, want := range []string{
		`"event_type":"learned_record_failed"`,
		`"error_hint":"check logs for details"`,
		`"impact":"labels not remembered"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in %s", want, out)
		}
	}
}

func TestContextFields(t *testing.T) {
	ctx := logging.WithRunID(logging.WithSessionID(context.Background(), " s1 "), "r1")
	if id, ok := logging.SessionIDFromContext(ctx); !ok || id != "s1" {
		t.Fatalf("unexpected session id %q", id)
	}
	if id, ok := logging.RunIDFromContext(ctx); !ok || id != "r1" {
		t.Fatalf("unexpected run id %q", id)
	}
	if fields := logging.ContextFields(context.Background()); len(fields) != 0 {
		t.Fatalf("expected no fields, got %v", fields)
	}
	if fields := logging.ContextFields(ctx); len(fields) != 2 {
		t.Fatalf("expected two fields, got %v", fields)
	}
}

func TestCleanupOldLogs(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "rollcall-2020-01-01.log")
	keepPath := filepath.Join(dir, "rollcall-2020-01-02.log")
	otherPath := filepath.Join(dir, "notes.txt")
	for _, path := range []string{oldPath, keepPath, otherPath} {
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		past := time.Now().AddDate(0, 0, -90)
		if err := os.Chtimes(path, past, past); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}

	logging.CleanupOldLogs(logging.NewNop(), 30, logging.RetentionTarget{
		Dir:     dir,
		Pattern: "rollcall-*.log",
		Exclude: []string{keepPath},
	})

	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Fatalf("expected %s pruned", oldPath)
	}
	for _, path := range []string{keepPath, otherPath} {
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s kept: %v", path, err)
		}
	}
}
