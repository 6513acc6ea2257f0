// Package config loads, normalizes, and validates deckflow configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// DECKFLOW_SOFFICE. The Config type centralizes every knob the CLI and the
// conversion pipeline need: renderer command, resolution thresholds, progress
// cadence, workspace naming, and log routing.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
