package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"rollcall/internal/attendance"
	"rollcall/internal/config"
	"rollcall/internal/drafts"
	"rollcall/internal/learned"
	"rollcall/internal/logging"
	"rollcall/internal/names"
	"rollcall/internal/persist"
	"rollcall/internal/store"
)

// ErrDraftExists is returned by Reconcile when a draft would be overwritten.
var ErrDraftExists = errors.New("a review draft already exists for this session")

// Repository is the persistence the service needs.
type Repository interface {
	persist.RecordRepository
	learned.Repository
	GetAttendance(ctx context.Context, sessionID string) (attendance.AttendanceRecord, error)
	ListAttendance(ctx context.Context) ([]store.RecordSummary, error)
	DeleteAttendance(ctx context.Context, sessionID string) (bool, error)
	CheckHealth(ctx context.Context) (store.DatabaseHealth, error)
}

// Service implements the rollcall workflows.
type Service struct {
	cfg        *config.Config
	logger     *slog.Logger
	repo       Repository
	normalizer *names.Normalizer
	learned    *learned.Store
	drafts     *drafts.Store
	matcher    *attendance.Matcher
	gateway    *persist.Gateway
	closer     func() error
}

// Open opens the configured database, loads learned matches and prunes stale
// drafts. Close releases the database.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	svc, err := New(ctx, cfg, st, logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	svc.closer = st.Close
	return svc, nil
}

// New builds a service over repo. The caller owns repo.
func New(ctx context.Context, cfg *config.Config, repo Repository, logger *slog.Logger) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	normalizer := names.New(cfg.Vocabulary())
	learnedStore := learned.NewStore(repo, normalizer, logger)
	if err := learnedStore.Load(ctx); err != nil {
		return nil, err
	}
	draftStore := drafts.NewStore(cfg.Paths.DraftsDir, time.Duration(cfg.Drafts.LockTimeoutSeconds)*time.Second, logger)

	svc := &Service{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "api"),
		repo:       repo,
		normalizer: normalizer,
		learned:    learnedStore,
		drafts:     draftStore,
		matcher:    attendance.NewMatcher(normalizer, learnedStore),
		gateway:    persist.NewGateway(repo, learnedStore, logger),
	}

	if days := cfg.Drafts.RetentionDays; days > 0 {
		if _, err := draftStore.Prune(ctx, time.Duration(days)*24*time.Hour); err != nil {
			logging.WarnWithContext(svc.logger, "draft pruning failed", "drafts_prune_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "stale drafts remain on disk"))
		}
	}
	return svc, nil
}

// Close releases resources opened by Open.
func (s *Service) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer()
}

// Normalizer returns the configured name normalizer.
func (s *Service) Normalizer() *names.Normalizer {
	return s.normalizer
}

// Status reports database and draft state.
func (s *Service) Status(ctx context.Context) (Status, error) {
	health, err := s.repo.CheckHealth(ctx)
	if err != nil {
		return Status{}, err
	}
	summaries, err := s.drafts.List()
	if err != nil {
		return Status{}, err
	}
	return Status{
		DatabasePath:   health.DBPath,
		SchemaVersion:  health.SchemaVersion,
		IntegrityOK:    health.IntegrityCheck,
		Records:        health.Records,
		LearnedMatches: health.LearnedMatches,
		Drafts:         len(summaries),
		DraftsDir:      s.cfg.Paths.DraftsDir,
		Error:          health.Error,
	}, nil
}
