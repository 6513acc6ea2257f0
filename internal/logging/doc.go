// Package logging assembles structured slog loggers and formatting helpers used
// across deckflow.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so stage code can tag log lines with the
// request correlation ID and stage name. A no-op logger is provided for tests
// and for wiring code that has no logger configured.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same shape.
package logging
