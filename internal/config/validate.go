package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateDeletion(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.LibraryDir == "" {
		return errors.New("paths.library_dir must be set (or export PHOTODUP_LIBRARY)")
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.Concurrency < 1 {
		return errors.New("scan.concurrency must be at least 1")
	}
	switch c.Scan.Tier {
	case "original", "preview":
		return nil
	default:
		return fmt.Errorf("scan.tier: unsupported value %q (expected original or preview)", c.Scan.Tier)
	}
}

func (c *Config) validateDeletion() error {
	switch c.Deletion.Survivor {
	case "none", "oldest", "newest":
		return nil
	default:
		return fmt.Errorf("deletion.survivor: unsupported value %q (expected none, oldest, or newest)", c.Deletion.Survivor)
	}
}

func (c *Config) validateStore() error {
	if c.Store.MaxScans < 1 {
		return errors.New("store.max_scans must be at least 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (expected console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
