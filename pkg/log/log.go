// Package log configures the process-wide structured logger shared by
// the builder core and the CLI.
package log

import (
	"log/slog"
	"os"
)

// Setup installs a text handler on the default logger at the given
// level ("debug", "info", "warn", "error", case-insensitive).
// Unrecognized level strings fall back to info.
func Setup(logLevel string) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		level = slog.LevelInfo
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}

// WithModule returns a logger scoped to one subsystem.
func WithModule(module string) *slog.Logger {
	return slog.With("module", module)
}
