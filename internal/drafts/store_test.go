package drafts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollcall/internal/attendance"
	"rollcall/internal/logging"
	"rollcall/internal/names"
	"rollcall/internal/review"
)

func sampleDraft(t *testing.T, id string) Draft {
	t.Helper()
	roster := []attendance.RosterMember{
		{Phone: "1", DisplayName: "Ahmed Khan"},
		{Phone: "2", DisplayName: "Sana Malik"},
	}
	raw := []attendance.SessionParticipant{
		{RawLabel: "Ahmed Khan", DurationSeconds: 1800},
		{RawLabel: "Laptop 12", DurationSeconds: 600},
	}
	out := attendance.NewMatcher(names.NewDefault(), nil).Reconcile(roster, raw)
	return Draft{
		SessionID:   id,
		SessionDate: "2026-03-14",
		Stats:       out.Stats,
		Review:      review.New(out.Result).Snapshot(),
	}
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(t.TempDir(), 0, logging.NewNop())
}

func TestCreateLoadAndUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created, err := s.Create(ctx, sampleDraft(t, "2026-03-14-m3"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.RunID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.True(t, s.Exists("2026-03-14-m3"))

	updated, err := s.Update(ctx, "2026-03-14-m3", func(d *Draft) error {
		session, err := d.Session()
		if err != nil {
			return err
		}
		if _, err := session.AddManualMatch("2", "", "Laptop 12", -1); err != nil {
			return err
		}
		d.Review = session.Snapshot()
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, created.RunID, updated.RunID)

	loaded, err := s.Load("2026-03-14-m3")
	require.NoError(t, err)
	require.Len(t, loaded.Review.ManualAdditions, 1)
	session, err := loaded.Session()
	require.NoError(t, err)
	assert.Empty(t, session.ComputeEffective().Absent)
}

func TestUpdateErrorLeavesDraftUntouched(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.Create(ctx, sampleDraft(t, "s1"))
	require.NoError(t, err)
	before, err := os.ReadFile(s.Path("s1"))
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = s.Update(ctx, "s1", func(d *Draft) error {
		d.SessionDate = "changed"
		return boom
	})
	require.ErrorIs(t, err, boom)

	after, err := os.ReadFile(s.Path("s1"))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLoadMissingDraft(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Load("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(context.Background(), "missing"), ErrNotFound)
}

func TestInvalidSessionID(t *testing.T) {
	s := newTestStore(t)
	for _, id := range []string{"", "../escape", "a/b", ".hidden"} {
		_, err := s.Load(id)
		assert.ErrorIs(t, err, ErrInvalidSessionID, id)
	}
}

func TestUpdateFailsWhileLocked(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.Create(ctx, sampleDraft(t, "s1"))
	require.NoError(t, err)

	held := flock.New(filepath.Join(s.dir, "s1"+lockExt))
	ok, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer held.Unlock()

	_, err = s.Update(ctx, "s1", func(*Draft) error { return nil })
	assert.ErrorIs(t, err, ErrLocked)
}

func TestUpdateWaitsForLockTimeout(t *testing.T) {
	s := NewStore(t.TempDir(), 150*time.Millisecond, logging.NewNop())
	ctx := context.Background()
	_, err := s.Create(ctx, sampleDraft(t, "s1"))
	require.NoError(t, err)

	held := flock.New(filepath.Join(s.dir, "s1"+lockExt))
	ok, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer held.Unlock()

	start := time.Now()
	_, err = s.Update(ctx, "s1", func(*Draft) error { return nil })
	assert.ErrorIs(t, err, ErrLocked)
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestListAndPrune(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)

	s.now = func() time.Time { return now.AddDate(0, 0, -30) }
	_, err := s.Create(ctx, sampleDraft(t, "old"))
	require.NoError(t, err)
	s.now = func() time.Time { return now }
	_, err = s.Create(ctx, sampleDraft(t, "fresh"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, "broken.json"), []byte("{"), 0o644))

	summaries, err := s.List()
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "fresh", summaries[0].SessionID)

	removed, err := s.Prune(ctx, 14*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.False(t, s.Exists("old"))
	assert.True(t, s.Exists("fresh"))

	removed, err = s.Prune(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestTakeDeletesOnlyOnSuccess(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	_, err := s.Create(ctx, sampleDraft(t, "s1"))
	require.NoError(t, err)

	boom := errors.New("save failed")
	err = s.Take(ctx, "s1", func(Draft) error { return boom })
	require.ErrorIs(t, err, boom)
	assert.True(t, s.Exists("s1"))

	var taken Draft
	require.NoError(t, s.Take(ctx, "s1", func(d Draft) error {
		taken = d
		return nil
	}))
	assert.Equal(t, "s1", taken.SessionID)
	assert.False(t, s.Exists("s1"))
	assert.ErrorIs(t, s.Take(ctx, "s1", func(Draft) error { return nil }), ErrNotFound)
}
