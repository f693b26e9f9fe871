package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"rollcall/internal/config"
	"rollcall/internal/names"
)

func TestLoadDefaultConfigDerivesPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv(config.DataDirEnv, "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "rollcall")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.LogDir != filepath.Join(wantData, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.Paths.DraftsDir != filepath.Join(wantData, "drafts") {
		t.Fatalf("unexpected drafts dir: %q", cfg.Paths.DraftsDir)
	}
	if cfg.Paths.Database != filepath.Join(wantData, "rollcall.db") {
		t.Fatalf("unexpected database: %q", cfg.Paths.Database)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.Drafts.LockTimeoutSeconds != config.Default().Drafts.LockTimeoutSeconds {
		t.Fatalf("unexpected lock timeout: %d", cfg.Drafts.LockTimeoutSeconds)
	}
}

func TestDataDirEnvOverridesConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "config.toml")
	content := []byte(`[paths]
data_dir = "/srv/ignored"
`)
	if err := os.WriteFile(configPath, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	override := filepath.Join(tempDir, "override")
	t.Setenv(config.DataDirEnv, override)

	cfg, _, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Paths.DataDir != override {
		t.Fatalf("expected env override %q, got %q", override, cfg.Paths.DataDir)
	}
	if !strings.HasPrefix(cfg.Paths.Database, override) {
		t.Fatalf("expected database under override, got %q", cfg.Paths.Database)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv(config.DataDirEnv, "")
	configPath := filepath.Join(tempDir, "custom.toml")
	content := []byte(`[paths]
data_dir = "` + filepath.ToSlash(filepath.Join(tempDir, "data")) + `"
database = "` + filepath.ToSlash(filepath.Join(tempDir, "db", "att.db")) + `"

[matching]
device_words = [" Chromebook ", ""]
aliases = { " MO " = "Muhammad" }

[logging]
format = "JSON"
level = "DEBUG"
component_overrides = { Matcher = "warn" }
`)
	if err := os.WriteFile(configPath, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Paths.Database != filepath.Join(tempDir, "db", "att.db") {
		t.Fatalf("unexpected database: %q", cfg.Paths.Database)
	}
	if cfg.Paths.DraftsDir != filepath.Join(tempDir, "data", "drafts") {
		t.Fatalf("unexpected drafts dir: %q", cfg.Paths.DraftsDir)
	}
	if len(cfg.Matching.DeviceWords) != 1 || cfg.Matching.DeviceWords[0] != "chromebook" {
		t.Fatalf("unexpected device words: %v", cfg.Matching.DeviceWords)
	}
	if cfg.Matching.Aliases["mo"] != "muhammad" {
		t.Fatalf("unexpected aliases: %v", cfg.Matching.Aliases)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging: %+v", cfg.Logging)
	}
	if cfg.Logging.ComponentOverrides["matcher"] != "warn" {
		t.Fatalf("unexpected overrides: %v", cfg.Logging.ComponentOverrides)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, cfg.Paths.DraftsDir, filepath.Dir(cfg.Paths.Database)} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q: %v", dir, err)
		}
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "typo.toml")
	if err := os.WriteFile(configPath, []byte("[matching]\ndevice_word = [\"zoom\"]\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown key to fail")
	}
}

func TestVocabularyMergesOrReplacesDefaults(t *testing.T) {
	cfg := config.Default()
	cfg.Matching.DeviceWords = []string{"zoom"}
	cfg.Matching.Aliases = map[string]string{"mo": "muhammad"}

	merged := names.New(cfg.Vocabulary())
	if got := merged.Normalize("Mo Khan Zoom iPhone"); got != "muhammad khan" {
		t.Fatalf("merged vocabulary normalize = %q", got)
	}

	cfg.Matching.ReplaceDefaultVocabulary = true
	replaced := names.New(cfg.Vocabulary())
	if got := replaced.Normalize("Mo Khan Zoom iPhone"); got != "muhammad khan iphone" {
		t.Fatalf("replaced vocabulary normalize = %q", got)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if string(contents) != config.SampleConfig() {
		t.Fatal("sample file differs from embedded sample")
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.DataDir, "rollcall") {
		t.Fatalf("expected data dir to contain rollcall, got %q", cfg.Paths.DataDir)
	}
	if cfg.Logging.Level != "info" {
		t.Fatalf("unexpected sample level %q", cfg.Logging.Level)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{
			name:   "unknown log level",
			mutate: func(c *config.Config) { c.Logging.Level = "verbose" },
		},
		{
			name:   "unknown component level",
			mutate: func(c *config.Config) { c.Logging.ComponentOverrides = map[string]string{"matcher": "loud"} },
		},
		{
			name:   "multi-word alias",
			mutate: func(c *config.Config) { c.Matching.Aliases = map[string]string{"big mo": "muhammad"} },
		},
		{
			name: "chained alias",
			mutate: func(c *config.Config) {
				c.Matching.Aliases = map[string]string{"mo": "moe", "moe": "muhammad"}
			},
		},
		{
			name:   "empty database",
			mutate: func(c *config.Config) { c.Paths.Database = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.Database = "/tmp/rollcall.db"
			cfg.Paths.LogDir = "/tmp/logs"
			cfg.Paths.DraftsDir = "/tmp/drafts"
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
