// Package logging configures structured slog output for the CLI and watch
// loop, with a human-readable console handler and a JSON handler, plus
// helpers for component loggers and context-derived fields.
package logging
