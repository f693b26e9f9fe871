package learned

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"rollcall/internal/attendance"
	"rollcall/internal/logging"
	"rollcall/internal/names"
)

// ErrNotFound is returned when removing a key that is not stored.
var ErrNotFound = errors.New("learned match not found")

// Repository is the durable key-value backend for learned matches.
type Repository interface {
	LoadLearnedMatches(ctx context.Context) ([]attendance.LearnedMatch, error)
	UpsertLearnedMatches(ctx context.Context, entries []attendance.LearnedMatch) error
	DeleteLearnedMatch(ctx context.Context, key string) (bool, error)
	ClearLearnedMatches(ctx context.Context) (int64, error)
}

// Store provides thread-safe access to learned matches backed by a Repository.
type Store struct {
	repo       Repository
	normalizer *names.Normalizer
	logger     *slog.Logger
	now        func() time.Time

	mu    sync.RWMutex
	index *Index
}

// NewStore creates a store. Call Load before the first lookup; until then the
// store behaves as empty.
func NewStore(repo Repository, n *names.Normalizer, logger *slog.Logger) *Store {
	if n == nil {
		n = names.NewDefault()
	}
	return &Store{
		repo:       repo,
		normalizer: n,
		logger:     logging.NewComponentLogger(logger, "learned"),
		now:        func() time.Time { return time.Now().UTC() },
		index:      NewIndex(n, nil),
	}
}

// Load replaces the in-memory index with every entry from the repository.
func (s *Store) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	entries, err := s.repo.LoadLearnedMatches(ctx)
	if err != nil {
		return fmt.Errorf("load learned matches: %w", err)
	}
	idx := NewIndex(s.normalizer, entries)

	s.mu.Lock()
	s.index = idx
	s.mu.Unlock()

	s.logger.Debug("loaded learned matches", logging.Int("entry_count", idx.Len()))
	return nil
}

// Lookup implements attendance.LearnedLookup.
func (s *Store) Lookup(raw string) (attendance.LearnedMatch, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Lookup(raw)
}

// Index returns the current in-memory snapshot.
func (s *Store) Index() *Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// RecordMatches upserts entries by case-insensitive raw label. Within one call
// the last entry for a key wins. Entries without a label or phone are skipped.
// It returns the number of entries written.
func (s *Store) RecordMatches(ctx context.Context, entries []attendance.LearnedMatch) (int, error) {
	stamp := s.now()
	positions := make(map[string]int, len(entries))
	batch := make([]attendance.LearnedMatch, 0, len(entries))
	for _, entry := range entries {
		entry.RawLabel = strings.TrimSpace(entry.RawLabel)
		entry.RosterPhone = strings.TrimSpace(entry.RosterPhone)
		key := attendance.LabelKey(entry.RawLabel)
		if key == "" || entry.RosterPhone == "" {
			continue
		}
		if entry.UpdatedAt.IsZero() {
			entry.UpdatedAt = stamp
		}
		if pos, ok := positions[key]; ok {
			batch[pos] = entry
			continue
		}
		positions[key] = len(batch)
		batch = append(batch, entry)
	}
	if len(batch) == 0 {
		return 0, nil
	}

	if s.repo != nil {
		if err := s.repo.UpsertLearnedMatches(ctx, batch); err != nil {
			return 0, fmt.Errorf("persist learned matches: %w", err)
		}
	}

	s.mu.Lock()
	s.index = s.index.with(batch...)
	s.mu.Unlock()

	for _, entry := range batch {
		s.logger.Debug("recorded learned match",
			logging.String("raw_label", entry.RawLabel),
			logging.String("roster_phone", entry.RosterPhone),
			logging.String("roster_display_name", entry.RosterDisplayName))
	}
	return len(batch), nil
}

// List returns all entries sorted newest first.
func (s *Store) List() []attendance.LearnedMatch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Entries()
}

// Count returns the number of stored keys.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Len()
}

// Remove deletes the entry stored under raw's key.
func (s *Store) Remove(ctx context.Context, raw string) error {
	key := attendance.LabelKey(raw)
	if key == "" {
		return errors.New("raw label cannot be empty")
	}
	if s.repo != nil {
		removed, err := s.repo.DeleteLearnedMatch(ctx, key)
		if err != nil {
			return fmt.Errorf("delete learned match: %w", err)
		}
		if !removed {
			return fmt.Errorf("%w: %q", ErrNotFound, raw)
		}
	}

	s.mu.Lock()
	s.index = s.index.without(key)
	s.mu.Unlock()

	s.logger.Debug("removed learned match", logging.String("raw_label", raw))
	return nil
}

// Clear removes every entry and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	var removed int64
	if s.repo != nil {
		n, err := s.repo.ClearLearnedMatches(ctx)
		if err != nil {
			return 0, fmt.Errorf("clear learned matches: %w", err)
		}
		removed = n
	}

	s.mu.Lock()
	if s.repo == nil {
		removed = int64(s.index.Len())
	}
	s.index = NewIndex(s.normalizer, nil)
	s.mu.Unlock()

	s.logger.Debug("cleared learned matches", logging.Int64("removed", removed))
	return removed, nil
}
