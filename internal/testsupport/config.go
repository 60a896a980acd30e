// Package testsupport provides builders shared by photodup tests: per-test
// configs rooted in temp directories, asset file writers, and a scriptable
// in-memory library.
package testsupport

import (
	"path/filepath"
	"testing"

	"photodup/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LibraryDir = filepath.Join(base, "library")
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithConcurrency overrides the scan fetch concurrency.
func WithConcurrency(limit int) ConfigOption {
	return func(c *config.Config) {
		c.Scan.Concurrency = limit
	}
}

// WithSurvivor overrides the deletion survivor policy.
func WithSurvivor(policy string) ConfigOption {
	return func(c *config.Config) {
		c.Deletion.Survivor = policy
	}
}

// WithTier overrides the scan hash tier.
func WithTier(tier string) ConfigOption {
	return func(c *config.Config) {
		c.Scan.Tier = tier
	}
}

// WithMaxScans overrides the store retention cap.
func WithMaxScans(limit int) ConfigOption {
	return func(c *config.Config) {
		c.Store.MaxScans = limit
	}
}
