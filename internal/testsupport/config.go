package testsupport

import (
	"path/filepath"
	"testing"

	"rollcall/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = base
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.DraftsDir = filepath.Join(base, "drafts")
	cfgVal.Paths.Database = filepath.Join(base, "rollcall.db")
	cfgVal.Drafts.LockTimeoutSeconds = 1

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithAliases adds nickname aliases to the matching vocabulary.
func WithAliases(aliases map[string]string) ConfigOption {
	return func(b *configBuilder) {
		if b.cfg.Matching.Aliases == nil {
			b.cfg.Matching.Aliases = make(map[string]string, len(aliases))
		}
		for from, to := range aliases {
			b.cfg.Matching.Aliases[from] = to
		}
	}
}

// WithDeviceWords adds tokens stripped during normalization.
func WithDeviceWords(words ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Matching.DeviceWords = append(b.cfg.Matching.DeviceWords, words...)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return cfg.Paths.DataDir
}
