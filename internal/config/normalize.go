package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeRules(); err != nil {
		return err
	}
	c.normalizeFiles()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeRules() error {
	c.Rules.Language = strings.ToLower(strings.TrimSpace(c.Rules.Language))
	if c.Rules.Language == "" {
		c.Rules.Language = defaultLanguage
	}

	files := make([]string, 0, len(c.Rules.ExtraFiles))
	for i, f := range c.Rules.ExtraFiles {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		expanded, err := expandPath(f)
		if err != nil {
			return fmt.Errorf("rules.extra_files[%d]: %w", i, err)
		}
		files = append(files, expanded)
	}
	c.Rules.ExtraFiles = files
	return nil
}

func (c *Config) normalizeFiles() {
	if c.Files.BackupSuffix == "" {
		c.Files.BackupSuffix = defaultBackupSuffix
	}
	if c.Files.Jobs == 0 {
		c.Files.Jobs = defaultJobs
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
