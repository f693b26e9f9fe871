package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMatching()
	c.normalizeDrafts()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv(DataDirEnv); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}

	var err error
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, defaultLogDirName)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DraftsDir) == "" {
		c.Paths.DraftsDir = filepath.Join(c.Paths.DataDir, defaultDraftsDirName)
	}
	if c.Paths.DraftsDir, err = expandPath(c.Paths.DraftsDir); err != nil {
		return fmt.Errorf("paths.drafts_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.Database) == "" {
		c.Paths.Database = filepath.Join(c.Paths.DataDir, defaultDatabaseName)
	}
	if c.Paths.Database, err = expandPath(c.Paths.Database); err != nil {
		return fmt.Errorf("paths.database: %w", err)
	}
	return nil
}

func (c *Config) normalizeMatching() {
	words := make([]string, 0, len(c.Matching.DeviceWords))
	for _, word := range c.Matching.DeviceWords {
		word = strings.ToLower(strings.TrimSpace(word))
		if word != "" {
			words = append(words, word)
		}
	}
	c.Matching.DeviceWords = words

	aliases := make(map[string]string, len(c.Matching.Aliases))
	for alias, canonical := range c.Matching.Aliases {
		alias = strings.ToLower(strings.TrimSpace(alias))
		canonical = strings.ToLower(strings.TrimSpace(canonical))
		if alias == "" || canonical == "" {
			continue
		}
		aliases[alias] = canonical
	}
	c.Matching.Aliases = aliases
}

func (c *Config) normalizeDrafts() {
	if c.Drafts.LockTimeoutSeconds < 0 {
		c.Drafts.LockTimeoutSeconds = 0
	}
	if c.Drafts.RetentionDays < 0 {
		c.Drafts.RetentionDays = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
	overrides := make(map[string]string, len(c.Logging.ComponentOverrides))
	for component, level := range c.Logging.ComponentOverrides {
		component = strings.ToLower(strings.TrimSpace(component))
		level = strings.ToLower(strings.TrimSpace(level))
		if component == "" || level == "" {
			continue
		}
		overrides[component] = level
	}
	c.Logging.ComponentOverrides = overrides
}
