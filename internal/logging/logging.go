// Package logging provides the structured logger loom's internal packages
// share. The teacher debug-prints with fmt.Printf("[DEBUG] ...") directly
// at call sites (pkg/core/signal.go, effect_scheduling.go); loom keeps that
// same terse, occasional style but routes it through log/slog so output is
// structured and level-filterable rather than unconditional stdout noise.
package logging

import (
	"log/slog"
	"os"
)

var base = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// Default returns the process-wide logger.
func Default() *slog.Logger {
	return base
}

// SetLevel adjusts the minimum level Default() emits.
func SetLevel(level slog.Level) {
	base = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Component returns a logger tagged with the given component name.
func Component(name string) *slog.Logger {
	return base.With("component", name)
}
