// Package config loads, normalizes, and validates photodup configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the PHOTODUP_LIBRARY environment
// fallback. The Config type centralizes every knob the CLI needs, so the
// library location, scan concurrency, deletion policy, and store limits are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical tier/policy values, and clear validation errors.
package config
