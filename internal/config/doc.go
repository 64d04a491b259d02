// Package config loads, normalizes, and validates subburn configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files from ~/.config/subburn/config.toml or a
// project-local subburn.toml. Always obtain settings through this package so
// downstream code receives sanitized paths and canonical enum values.
package config
