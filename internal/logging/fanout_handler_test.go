package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("disk full") }

func TestFanoutCollapsesTrivialInputs(t *testing.T) {
	if _, ok := newFanoutHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected no-op handler when every output is nil")
	}
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if h := newFanoutHandler(nil, inner); h != inner {
		t.Fatal("expected a lone handler to be returned unwrapped")
	}
}

func TestFanoutWritesConsoleAndFile(t *testing.T) {
	var console, file bytes.Buffer
	lvl := new(slog.LevelVar)
	h := newFanoutHandler(
		newPrettyHandler(&console, lvl, false, false),
		newJSONHandler(&file, lvl, false),
	)
	logger := slog.New(h).With(slog.String(FieldSessionID, "2026-03-14-m3"))
	logger.Info("session reconciled", slog.Int("matched", 2))

	if !strings.Contains(console.String(), "Session 2026-03-14-m3 – session reconciled") {
		t.Fatalf("unexpected console output %q", console.String())
	}
	if !strings.Contains(file.String(), `"session_id":"2026-03-14-m3"`) || !strings.Contains(file.String(), `"matched":2`) {
		t.Fatalf("unexpected file output %q", file.String())
	}
}

func TestFanoutRespectsPerHandlerLevels(t *testing.T) {
	var quiet, verbose bytes.Buffer
	h := newFanoutHandler(
		slog.NewJSONHandler(&quiet, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewJSONHandler(&verbose, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug enabled through the verbose handler")
	}
	slog.New(h).Debug("participant matched")
	if quiet.Len() != 0 {
		t.Fatalf("expected warn handler to skip debug, got %q", quiet.String())
	}
	if !strings.Contains(verbose.String(), "participant matched") {
		t.Fatalf("expected debug record, got %q", verbose.String())
	}
}

func TestFanoutReturnsFirstErrorButWritesAll(t *testing.T) {
	var buf bytes.Buffer
	ok := slog.NewJSONHandler(&buf, nil)
	h := newFanoutHandler(failingHandler{ok}, ok)

	err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "saved", 0))
	if err == nil || err.Error() != "disk full" {
		t.Fatalf("expected handler error, got %v", err)
	}
	if !strings.Contains(buf.String(), "saved") {
		t.Fatalf("expected second handler to receive record, got %q", buf.String())
	}
}
