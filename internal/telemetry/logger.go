// Package telemetry wraps log/slog with the component-tagging convention
// used across this service tree.
package telemetry

import (
	"log/slog"
	"os"
)

var base = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

// New returns a logger tagged with component, suitable for a package-level
// var in callers that want every log line to carry its origin.
func New(component string) *slog.Logger {
	return base.With("component", component)
}

// Default returns the untagged base logger.
func Default() *slog.Logger {
	return base
}
