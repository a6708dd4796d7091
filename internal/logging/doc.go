// Package logging assembles structured slog loggers and formatting helpers
// used across curateur's scraping engine.
//
// It owns the configurable console/JSON handlers, centralizes level and
// output plumbing, and exposes field-name constants so component code tags
// log lines consistently (platform, ROM path, event type, error hint).
// Prefer these constructors over hand-rolled slog setup so every component
// emits data with the same shape.
package logging
