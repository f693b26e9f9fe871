package config

import (
	"errors"
	"fmt"
	"strings"
)

var validLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if strings.TrimSpace(c.Paths.Database) == "" {
		return errors.New("paths.database must be set")
	}
	if c.Paths.DraftsDir == c.Paths.LogDir {
		return errors.New("paths.drafts_dir and paths.log_dir must differ")
	}
	return nil
}

func (c *Config) validateMatching() error {
	for alias, canonical := range c.Matching.Aliases {
		if strings.ContainsAny(alias, " \t") || strings.ContainsAny(canonical, " \t") {
			return fmt.Errorf("matching.aliases: %q -> %q must be single words", alias, canonical)
		}
		if next, ok := c.Matching.Aliases[canonical]; ok && next != canonical {
			return fmt.Errorf("matching.aliases: %q maps to %q, which is itself an alias of %q", alias, canonical, next)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, ok := validLogLevels[c.Logging.Level]; !ok {
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	for component, level := range c.Logging.ComponentOverrides {
		if _, ok := validLogLevels[level]; !ok {
			return fmt.Errorf("logging.component_overrides.%s: unsupported value %q", component, level)
		}
	}
	return nil
}
