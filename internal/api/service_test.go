package api

import (
	"context"
	"errors"
	"testing"

	"rollcall/internal/attendance"
	"rollcall/internal/drafts"
	"rollcall/internal/logging"
	"rollcall/internal/review"
	"rollcall/internal/store"
	"rollcall/internal/testsupport"
)

func openService(t *testing.T) *Service {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	svc, err := Open(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func sampleRequest(sessionID string) ReconcileRequest {
	module := 3
	return ReconcileRequest{
		SessionID:    sessionID,
		SessionDate:  "2026-03-14",
		ModuleNumber: &module,
		Roster: []attendance.RosterMember{
			{Phone: "15550001", DisplayName: "Ahmed Khan"},
			{Phone: "15550002", DisplayName: "Sana Malik"},
			{Phone: "15550003", DisplayName: "Bilal Ahmed"},
		},
		Participants: []attendance.SessionParticipant{
			{RawLabel: "Ahmed Khan's iPhone", DurationSeconds: 1200},
			{RawLabel: "ahmed khan", DurationSeconds: 600},
			{RawLabel: "Sana Malik", DurationSeconds: 1800},
			{RawLabel: "Dad's Galaxy", DurationSeconds: 1700},
		},
	}
}

func TestReconcileCreatesDraft(t *testing.T) {
	svc := openService(t)
	ctx := context.Background()

	view, err := svc.Reconcile(ctx, sampleRequest("2026-03-14-m3"))
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(view.Effective.Matched) != 2 {
		t.Fatalf("expected two matches, got %#v", view.Effective.Matched)
	}
	if view.Effective.Matched[0].DurationSeconds != 1800 {
		t.Fatalf("expected aggregated duration, got %d", view.Effective.Matched[0].DurationSeconds)
	}
	if len(view.Effective.Absent) != 1 || view.Effective.Absent[0].RosterPhone != "15550003" {
		t.Fatalf("unexpected absent %#v", view.Effective.Absent)
	}
	if view.RunID == "" {
		t.Fatal("expected run id to be assigned")
	}

	if _, err := svc.Reconcile(ctx, sampleRequest("2026-03-14-m3")); !errors.Is(err, ErrDraftExists) {
		t.Fatalf("expected ErrDraftExists, got %v", err)
	}
	req := sampleRequest("2026-03-14-m3")
	req.Force = true
	if _, err := svc.Reconcile(ctx, req); err != nil {
		t.Fatalf("forced Reconcile: %v", err)
	}
}

func TestReconcileRejectsBadSessionID(t *testing.T) {
	svc := openService(t)
	if _, err := svc.Reconcile(context.Background(), sampleRequest("../x")); !errors.Is(err, drafts.ErrInvalidSessionID) {
		t.Fatalf("expected ErrInvalidSessionID, got %v", err)
	}
}

func TestReviewSaveAndLearn(t *testing.T) {
	svc := openService(t)
	ctx := context.Background()
	if _, err := svc.Reconcile(ctx, sampleRequest("m3")); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	selected, _, err := svc.Select(ctx, "m3", "1-555-0003")
	if err != nil || !selected {
		t.Fatalf("Select returned %v, %v", selected, err)
	}
	entry, view, err := svc.SelectLabel(ctx, "m3", "dad's galaxy")
	if err != nil {
		t.Fatalf("SelectLabel: %v", err)
	}
	if entry.Source != attendance.SourceManual || entry.RawLabel != "Dad's Galaxy" {
		t.Fatalf("unexpected manual entry %#v", entry)
	}
	if len(view.Effective.Absent) != 0 || view.Selected != "" {
		t.Fatalf("expected everyone present and selection cleared, got %#v", view)
	}

	outcome, err := svc.Save(ctx, "m3")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if outcome.Learned != 1 || outcome.LearnWarning != "" {
		t.Fatalf("unexpected outcome %#v", outcome)
	}
	if _, err := svc.Draft("m3"); !errors.Is(err, drafts.ErrNotFound) {
		t.Fatalf("expected draft removed, got %v", err)
	}

	record, err := svc.Record(ctx, "m3")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(record.Matched) != 3 || record.ModuleNumber == nil || *record.ModuleNumber != 3 {
		t.Fatalf("unexpected record %#v", record)
	}

	learned := svc.LearnedMatches()
	if len(learned) != 1 || learned[0].RosterPhone != "15550003" {
		t.Fatalf("unexpected learned matches %#v", learned)
	}

	// The next session picks the label up without review.
	view, err = svc.Reconcile(ctx, sampleRequest("m4"))
	if err != nil {
		t.Fatalf("Reconcile m4: %v", err)
	}
	if view.Stats.Learned != 1 || len(view.Effective.Absent) != 0 {
		t.Fatalf("expected learned match applied, got %#v", view.Stats)
	}
}

func TestUnmatchAndUndo(t *testing.T) {
	svc := openService(t)
	ctx := context.Background()
	if _, err := svc.Reconcile(ctx, sampleRequest("m3")); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}

	removed, view, err := svc.Unmatch(ctx, "m3", "15550001")
	if err != nil {
		t.Fatalf("Unmatch: %v", err)
	}
	if removed.Source == attendance.SourceManual || len(view.Removed) != 1 {
		t.Fatalf("expected an automated removal, got %#v", view.Removed)
	}
	if len(view.Effective.Absent) != 2 {
		t.Fatalf("expected two absent after unmatch, got %d", len(view.Effective.Absent))
	}

	restored, view, err := svc.Undo(ctx, "m3")
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if restored.RosterPhone != "15550001" || len(view.Removed) != 0 {
		t.Fatalf("unexpected undo result %#v", restored)
	}
	if _, _, err := svc.Undo(ctx, "m3"); !errors.Is(err, review.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty undo, got %v", err)
	}
}

func TestMatchRejectionLeavesDraft(t *testing.T) {
	svc := openService(t)
	ctx := context.Background()
	if _, err := svc.Reconcile(ctx, sampleRequest("m3")); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	before, err := svc.Draft("m3")
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}

	if _, _, err := svc.Match(ctx, "m3", "15550001", "Dad's Galaxy", ""); !errors.Is(err, review.ErrAlreadyMatched) {
		t.Fatalf("expected ErrAlreadyMatched, got %v", err)
	}
	after, err := svc.Draft("m3")
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	if !after.UpdatedAt.Equal(before.UpdatedAt) || len(after.Manual) != 0 {
		t.Fatalf("expected draft unchanged, got %#v", after)
	}
}

func TestDiscardAndRecords(t *testing.T) {
	svc := openService(t)
	ctx := context.Background()
	if _, err := svc.Reconcile(ctx, sampleRequest("m3")); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	summaries, err := svc.Drafts()
	if err != nil || len(summaries) != 1 {
		t.Fatalf("Drafts returned %v, %v", summaries, err)
	}
	if err := svc.Discard(ctx, "m3"); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if _, err := svc.Save(ctx, "m3"); !errors.Is(err, drafts.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after discard, got %v", err)
	}

	records, err := svc.Records(ctx)
	if err != nil || len(records) != 0 {
		t.Fatalf("Records returned %v, %v", records, err)
	}
	if err := svc.DeleteRecord(ctx, "m3"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	status, err := svc.Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Drafts != 0 || status.SchemaVersion != 1 {
		t.Fatalf("unexpected status %#v", status)
	}
}
