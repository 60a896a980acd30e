package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScan()
	c.normalizeDeletion()
	c.normalizeStore()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("PHOTODUP_LIBRARY"); ok && strings.TrimSpace(value) != "" {
		c.Paths.LibraryDir = value
	}
	var err error
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeScan() {
	if c.Scan.Concurrency == 0 {
		c.Scan.Concurrency = defaultScanConcurrency
	}
	c.Scan.Tier = strings.ToLower(strings.TrimSpace(c.Scan.Tier))
	if c.Scan.Tier == "" {
		c.Scan.Tier = defaultScanTier
	}
}

func (c *Config) normalizeDeletion() {
	c.Deletion.Survivor = strings.ToLower(strings.TrimSpace(c.Deletion.Survivor))
	if c.Deletion.Survivor == "" {
		c.Deletion.Survivor = defaultSurvivor
	}
}

func (c *Config) normalizeStore() {
	if c.Store.MaxScans == 0 {
		c.Store.MaxScans = defaultMaxScans
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
