package persist

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollcall/internal/attendance"
	"rollcall/internal/logging"
	"rollcall/internal/names"
	"rollcall/internal/review"
)

type fakeRecords struct {
	saved map[string]attendance.AttendanceRecord
	calls int
	err   error
}

func (f *fakeRecords) UpsertAttendance(_ context.Context, record attendance.AttendanceRecord) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	if f.saved == nil {
		f.saved = map[string]attendance.AttendanceRecord{}
	}
	f.saved[record.SessionID] = record
	return nil
}

type fakeLearned struct {
	batches [][]attendance.LearnedMatch
	err     error
}

func (f *fakeLearned) RecordMatches(_ context.Context, entries []attendance.LearnedMatch) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.batches = append(f.batches, entries)
	return len(entries), nil
}

func newSession(t *testing.T) *review.Session {
	t.Helper()
	roster := []attendance.RosterMember{
		{Phone: "1", DisplayName: "Ahmed Khan"},
		{Phone: "2", DisplayName: "Sana Malik"},
		{Phone: "3", DisplayName: "Bilal Ahmed"},
	}
	raw := []attendance.SessionParticipant{
		{RawLabel: "Ahmed Khan's iPhone", DurationSeconds: 1800},
		{RawLabel: "Malik Sana", DurationSeconds: 1200},
		{RawLabel: "Random Device 7", DurationSeconds: 900},
	}
	out := attendance.NewMatcher(names.NewDefault(), nil).Reconcile(roster, raw)
	require.Len(t, out.Result.Absent, 1)
	return review.New(out.Result)
}

func TestSaveTwiceStoresIdenticalRecord(t *testing.T) {
	records := &fakeRecords{}
	gw := NewGateway(records, &fakeLearned{}, logging.NewNop())
	session := newSession(t)
	_, err := session.AddManualMatch("3", "", "Random Device 7", -1)
	require.NoError(t, err)

	module := 4
	meta := Meta{SessionDate: "2026-03-14", ModuleNumber: &module}
	first, err := gw.Save(context.Background(), "2026-03-14-m4", session, meta)
	require.NoError(t, err)
	stored := records.saved["2026-03-14-m4"]

	module = 9
	second, err := gw.Save(context.Background(), "2026-03-14-m4", session, Meta{SessionDate: "2026-03-14", ModuleNumber: intPtr(4)})
	require.NoError(t, err)

	assert.Equal(t, 2, records.calls)
	assert.Len(t, records.saved, 1)
	assert.Equal(t, stored, records.saved["2026-03-14-m4"])
	assert.Equal(t, first.Record, second.Record)
	require.NotNil(t, stored.ModuleNumber)
	assert.Equal(t, 4, *stored.ModuleNumber)
}

func TestSaveLearnsOnlyManualAdditions(t *testing.T) {
	learned := &fakeLearned{}
	gw := NewGateway(&fakeRecords{}, learned, logging.NewNop())
	session := newSession(t)

	// Removing an automated match must not be learned.
	auto := session.ComputeEffective().Matched[0]
	require.NoError(t, session.RemoveMatch(auto, false))
	_, err := session.AddManualMatch("3", "Bilal Ahmed", "random device 7", 900)
	require.NoError(t, err)

	result, err := gw.Save(context.Background(), "s1", session, Meta{})
	require.NoError(t, err)
	assert.NoError(t, result.LearnErr)
	assert.Equal(t, 1, result.Learned)
	require.Len(t, learned.batches, 1)
	assert.Equal(t, []attendance.LearnedMatch{{
		RawLabel:          "Random Device 7",
		RosterPhone:       "3",
		RosterDisplayName: "Bilal Ahmed",
	}}, learned.batches[0])
}

func TestSavePristineSessionLearnsNothing(t *testing.T) {
	learned := &fakeLearned{}
	gw := NewGateway(&fakeRecords{}, learned, logging.NewNop())

	result, err := gw.Save(context.Background(), "s1", newSession(t), Meta{})
	require.NoError(t, err)
	assert.Zero(t, result.Learned)
	assert.Empty(t, learned.batches)
	assert.NotNil(t, result.Record.Unmatched)
}

func TestSaveRecordFailureSkipsLearning(t *testing.T) {
	records := &fakeRecords{err: errors.New("disk full")}
	learned := &fakeLearned{}
	gw := NewGateway(records, learned, logging.NewNop())
	session := newSession(t)
	_, err := session.AddManualMatch("3", "", "Random Device 7", -1)
	require.NoError(t, err)
	before := session.Snapshot()

	_, err = gw.Save(context.Background(), "s1", session, Meta{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Empty(t, learned.batches)
	assert.Equal(t, before, session.Snapshot())
}

func TestSaveLearnFailureKeepsRecord(t *testing.T) {
	records := &fakeRecords{}
	gw := NewGateway(records, &fakeLearned{err: errors.New("locked")}, logging.NewNop())
	session := newSession(t)
	_, err := session.AddManualMatch("3", "", "Random Device 7", -1)
	require.NoError(t, err)

	result, err := gw.Save(context.Background(), "s1", session, Meta{})
	require.NoError(t, err)
	require.Error(t, result.LearnErr)
	assert.Contains(t, records.saved, "s1")
	assert.Zero(t, result.Learned)
}

func TestSaveValidatesInputs(t *testing.T) {
	gw := NewGateway(&fakeRecords{}, nil, logging.NewNop())

	_, err := gw.Save(context.Background(), " ", newSession(t), Meta{})
	assert.Error(t, err)
	_, err = gw.Save(context.Background(), "s1", nil, Meta{})
	assert.Error(t, err)
	_, err = NewGateway(nil, nil, logging.NewNop()).Save(context.Background(), "s1", newSession(t), Meta{})
	assert.Error(t, err)
}

func TestBuildRecordCopiesModule(t *testing.T) {
	module := 2
	record := BuildRecord("s1", attendance.MatchResult{}, Meta{SessionDate: " 2026-01-01 ", ModuleNumber: &module})
	module = 7

	require.NotNil(t, record.ModuleNumber)
	assert.Equal(t, 2, *record.ModuleNumber)
	assert.Equal(t, "2026-01-01", record.SessionDate)
	assert.NotNil(t, record.Matched)
	assert.NotNil(t, record.Absent)
}

func intPtr(v int) *int { return &v }
