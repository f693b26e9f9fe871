package logs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"rollcall/internal/logs"
)

func writeLog(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
}

func appendLog(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("append log: %v", err)
	}
}

func TestLastLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rollcall-2026-03-14.log")
	writeLog(t, path, "a\nb\r\nc\nd\n")

	lines, offset, err := logs.Last(path, 2)
	if err != nil {
		t.Fatalf("Last returned error: %v", err)
	}
	if len(lines) != 2 || lines[0] != "c" || lines[1] != "d" {
		t.Fatalf("unexpected lines: %#v", lines)
	}
	if offset != 9 {
		t.Fatalf("expected offset at end of file, got %d", offset)
	}

	lines, _, err = logs.Last(path, 10)
	if err != nil {
		t.Fatalf("Last returned error: %v", err)
	}
	if len(lines) != 4 || lines[1] != "b" {
		t.Fatalf("expected every line with CR trimmed, got %#v", lines)
	}
}

func TestLastMissingFile(t *testing.T) {
	lines, offset, err := logs.Last(filepath.Join(t.TempDir(), "missing.log"), 5)
	if err != nil || lines != nil || offset != 0 {
		t.Fatalf("expected empty result, got %#v %d %v", lines, offset, err)
	}
}

func TestSinceLeavesPartialLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rollcall.log")
	writeLog(t, path, "one\ntw")

	lines, offset, err := logs.Since(path, 0)
	if err != nil {
		t.Fatalf("Since returned error: %v", err)
	}
	if len(lines) != 1 || lines[0] != "one" || offset != 4 {
		t.Fatalf("unexpected read: %#v %d", lines, offset)
	}

	appendLog(t, path, "o\n")
	lines, offset, err = logs.Since(path, offset)
	if err != nil {
		t.Fatalf("Since returned error: %v", err)
	}
	if len(lines) != 1 || lines[0] != "two" || offset != 8 {
		t.Fatalf("unexpected read after append: %#v %d", lines, offset)
	}

	lines, _, err = logs.Since(path, 100)
	if err != nil || len(lines) != 2 {
		t.Fatalf("expected restart after truncation, got %#v %v", lines, err)
	}
}

func TestFollowEmitsAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rollcall.log")
	writeLog(t, path, "start\n")
	_, offset, err := logs.Last(path, 1)
	if err != nil {
		t.Fatalf("Last returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []string
	done := make(chan error, 1)
	go func() {
		done <- logs.Follow(ctx, path, offset, func(line string) {
			mu.Lock()
			got = append(got, line)
			mu.Unlock()
		})
	}()

	appendLog(t, path, "later\n")
	deadline := time.Now().Add(5 * time.Second)
	for {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Follow returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != "later" {
		t.Fatalf("unexpected followed lines: %#v", got)
	}
}

func TestLatest(t *testing.T) {
	dir := t.TempDir()
	if _, err := logs.Latest(dir, "rollcall-*.log"); !errors.Is(err, logs.ErrNoLogs) {
		t.Fatalf("expected ErrNoLogs, got %v", err)
	}
	for _, name := range []string{"rollcall-2026-03-13.log", "rollcall-2026-03-14.log", "other.log"} {
		writeLog(t, filepath.Join(dir, name), "x\n")
	}
	path, err := logs.Latest(dir, "rollcall-*.log")
	if err != nil {
		t.Fatalf("Latest returned error: %v", err)
	}
	if filepath.Base(path) != "rollcall-2026-03-14.log" {
		t.Fatalf("unexpected latest %q", path)
	}
}
