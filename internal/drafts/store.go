package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"rollcall/internal/logging"
)

var (
	// ErrNotFound is returned when no draft exists for a session.
	ErrNotFound = errors.New("draft not found")
	// ErrLocked is returned when another process holds the session's draft lock.
	ErrLocked = errors.New("draft is locked by another process")
	// ErrInvalidSessionID is returned for IDs that cannot name a draft file.
	ErrInvalidSessionID = errors.New("invalid session id")
)

const (
	draftExt      = ".json"
	lockExt       = ".lock"
	lockRetryWait = 50 * time.Millisecond
)

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Store reads and writes drafts under a single directory.
type Store struct {
	dir         string
	lockTimeout time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

// NewStore creates a store rooted at dir. A non-positive lockTimeout makes
// Update fail immediately when the lock is held.
func NewStore(dir string, lockTimeout time.Duration, logger *slog.Logger) *Store {
	return &Store{
		dir:         dir,
		lockTimeout: lockTimeout,
		logger:      logging.NewComponentLogger(logger, "drafts"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ValidateSessionID reports whether id can name a draft.
func ValidateSessionID(id string) error {
	if !sessionIDPattern.MatchString(id) || len(id) > 128 {
		return fmt.Errorf("%w: %q (use letters, digits, '.', '_' or '-')", ErrInvalidSessionID, id)
	}
	return nil
}

// Path returns the draft file path for a session.
func (s *Store) Path(sessionID string) string {
	return filepath.Join(s.dir, sessionID+draftExt)
}

// Exists reports whether a draft is stored for the session.
func (s *Store) Exists(sessionID string) bool {
	if ValidateSessionID(sessionID) != nil {
		return false
	}
	_, err := os.Stat(s.Path(sessionID))
	return err == nil
}

// Create writes a new draft, assigning a run ID and timestamps when unset.
// An existing draft for the session is replaced.
func (s *Store) Create(ctx context.Context, draft Draft) (Draft, error) {
	if err := ValidateSessionID(draft.SessionID); err != nil {
		return Draft{}, err
	}
	unlock, err := s.lock(ctx, draft.SessionID)
	if err != nil {
		return Draft{}, err
	}
	defer unlock()

	now := s.now()
	if draft.RunID == "" {
		draft.RunID = uuid.NewString()
	}
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = now
	}
	draft.UpdatedAt = now
	if err := s.write(draft); err != nil {
		return Draft{}, err
	}
	s.logger.Debug("draft created",
		logging.String(logging.FieldSessionID, draft.SessionID),
		logging.String(logging.FieldRunID, draft.RunID))
	return draft, nil
}

// Load reads the draft for a session without locking it.
func (s *Store) Load(sessionID string) (Draft, error) {
	if err := ValidateSessionID(sessionID); err != nil {
		return Draft{}, err
	}
	return s.read(s.Path(sessionID))
}

// Update locks the session's draft, loads it, applies fn and writes the
// result. Nothing is written when fn returns an error.
func (s *Store) Update(ctx context.Context, sessionID string, fn func(*Draft) error) (Draft, error) {
	if err := ValidateSessionID(sessionID); err != nil {
		return Draft{}, err
	}
	unlock, err := s.lock(ctx, sessionID)
	if err != nil {
		return Draft{}, err
	}
	defer unlock()

	draft, err := s.read(s.Path(sessionID))
	if err != nil {
		return Draft{}, err
	}
	if err := fn(&draft); err != nil {
		return Draft{}, err
	}
	draft.SessionID = sessionID
	draft.UpdatedAt = s.now()
	if err := s.write(draft); err != nil {
		return Draft{}, err
	}
	return draft, nil
}

// Take locks the session's draft, passes it to fn and deletes it once fn
// succeeds. The draft is kept when fn fails.
func (s *Store) Take(ctx context.Context, sessionID string, fn func(Draft) error) error {
	if err := ValidateSessionID(sessionID); err != nil {
		return err
	}
	unlock, err := s.lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	path := s.Path(sessionID)
	draft, err := s.read(path)
	if err != nil {
		return err
	}
	if err := fn(draft); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove draft: %w", err)
	}
	return nil
}

// Delete removes the draft for a session.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := ValidateSessionID(sessionID); err != nil {
		return err
	}
	unlock, err := s.lock(ctx, sessionID)
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.Remove(s.Path(sessionID)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, sessionID)
		}
		return fmt.Errorf("remove draft: %w", err)
	}
	s.logger.Debug("draft deleted", logging.String(logging.FieldSessionID, sessionID))
	return nil
}

// List returns summaries of stored drafts, most recently updated first.
// Unreadable files are skipped with a warning.
func (s *Store) List() ([]Summary, error) {
	drafts, err := s.all()
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, 0, len(drafts))
	for _, d := range drafts {
		summaries = append(summaries, d.summary())
	}
	return summaries, nil
}

// Prune deletes drafts not updated within retention and returns how many
// were removed. A non-positive retention keeps everything.
func (s *Store) Prune(ctx context.Context, retention time.Duration) (int, error) {
	if retention <= 0 {
		return 0, nil
	}
	drafts, err := s.all()
	if err != nil {
		return 0, err
	}
	cutoff := s.now().Add(-retention)
	removed := 0
	for _, d := range drafts {
		if !d.UpdatedAt.Before(cutoff) {
			continue
		}
		if err := s.Delete(ctx, d.SessionID); err != nil {
			if errors.Is(err, ErrLocked) {
				continue
			}
			return removed, err
		}
		_ = os.Remove(filepath.Join(s.dir, d.SessionID+lockExt))
		removed++
	}
	if removed > 0 {
		s.logger.Info("pruned stale drafts",
			logging.String(logging.FieldEventType, "drafts_pruned"),
			logging.Int("removed", removed))
	}
	return removed, nil
}

func (s *Store) all() ([]Draft, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+draftExt))
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	drafts := make([]Draft, 0, len(matches))
	for _, path := range matches {
		draft, err := s.read(path)
		if err != nil {
			logging.WarnWithContext(s.logger, "skipping unreadable draft", "draft_read_failed",
				logging.String("draft_path", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "delete the file or run reconcile again with --force"))
			continue
		}
		drafts = append(drafts, draft)
	}
	sort.Slice(drafts, func(i, j int) bool {
		return drafts[i].UpdatedAt.After(drafts[j].UpdatedAt)
	})
	return drafts, nil
}

func (s *Store) lock(ctx context.Context, sessionID string) (func(), error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create drafts directory: %w", err)
	}
	lock := flock.New(filepath.Join(s.dir, sessionID+lockExt))

	var (
		ok  bool
		err error
	)
	if s.lockTimeout <= 0 {
		ok, err = lock.TryLock()
	} else {
		lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
		ok, err = lock.TryLockContext(lockCtx, lockRetryWait)
		cancel()
		if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			ok, err = false, nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("acquire draft lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, sessionID)
	}
	return func() {
		if err := lock.Unlock(); err != nil {
			s.logger.Warn("failed to release draft lock",
				logging.String(logging.FieldSessionID, sessionID),
				logging.Error(err))
		}
	}, nil
}

func (s *Store) read(path string) (Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Draft{}, fmt.Errorf("%w: %s", ErrNotFound, strings.TrimSuffix(filepath.Base(path), draftExt))
		}
		return Draft{}, fmt.Errorf("read draft: %w", err)
	}
	var draft Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return Draft{}, fmt.Errorf("parse draft %s: %w", filepath.Base(path), err)
	}
	return draft, nil
}

// write replaces the draft file atomically via a temp file.
func (s *Store) write(draft Draft) error {
	data, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create drafts directory: %w", err)
	}
	path := s.Path(draft.SessionID)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
