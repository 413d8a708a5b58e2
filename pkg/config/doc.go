// Package config defines the configuration structures for the Gaian
// governance service and handles loading, defaulting, validation, and
// environment variable overrides.
//
// Configuration is loaded from YAML, filled with defaults, then overridden
// by GAIAN_* environment variables, and finally validated. Validation is
// fail-fast: a configuration that could violate a governance invariant at
// evaluation time is rejected at startup instead.
package config
