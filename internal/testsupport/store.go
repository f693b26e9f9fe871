package testsupport

import (
	"context"
	"testing"

	"rollcall/internal/attendance"
	"rollcall/internal/config"
	"rollcall/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// SeedLearned writes learned matches directly to the store.
func SeedLearned(t testing.TB, st *store.Store, entries ...attendance.LearnedMatch) {
	t.Helper()

	if err := st.UpsertLearnedMatches(context.Background(), entries); err != nil {
		t.Fatalf("store.UpsertLearnedMatches: %v", err)
	}
}
