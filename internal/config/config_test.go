package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize default config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Scan.Concurrency != defaultScanConcurrency {
		t.Fatalf("expected default concurrency %d, got %d", defaultScanConcurrency, cfg.Scan.Concurrency)
	}
}

func TestLoadMissingExplicitConfigFails(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	if _, _, _, err := Load(missing); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[paths]
library_dir = "` + filepath.Join(dir, "photos") + `"
data_dir = "` + filepath.Join(dir, "data") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[scan]
concurrency = 3
tier = "Preview"

[deletion]
survivor = "OLDEST"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be reported as existing")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %s, got %s", path, resolved)
	}
	if cfg.Scan.Concurrency != 3 {
		t.Fatalf("expected concurrency 3, got %d", cfg.Scan.Concurrency)
	}
	if cfg.Scan.Tier != "preview" {
		t.Fatalf("expected normalized tier preview, got %q", cfg.Scan.Tier)
	}
	if cfg.Deletion.Survivor != "oldest" {
		t.Fatalf("expected normalized survivor oldest, got %q", cfg.Deletion.Survivor)
	}
}

func TestLibraryEnvOverride(t *testing.T) {
	dir := t.TempDir()
	override := filepath.Join(dir, "override-library")
	t.Setenv("PHOTODUP_LIBRARY", override)

	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if cfg.Paths.LibraryDir != override {
		t.Fatalf("expected library dir %s, got %s", override, cfg.Paths.LibraryDir)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"negative concurrency", func(c *Config) { c.Scan.Concurrency = -1 }, "scan.concurrency"},
		{"bad tier", func(c *Config) { c.Scan.Tier = "thumbnail" }, "scan.tier"},
		{"bad survivor", func(c *Config) { c.Deletion.Survivor = "largest" }, "deletion.survivor"},
		{"bad format", func(c *Config) { c.Logging.Format = "logfmt" }, "logging.format"},
		{"bad max scans", func(c *Config) { c.Store.MaxScans = -5 }, "store.max_scans"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			if err := cfg.normalize(); err != nil {
				t.Fatalf("normalize: %v", err)
			}
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteSample(path); err != nil {
		t.Fatalf("write sample: %v", err)
	}
	if err := WriteSample(path); err == nil {
		t.Fatal("expected second WriteSample to refuse overwrite")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[scan]") {
		t.Fatal("sample config missing [scan] section")
	}
}
