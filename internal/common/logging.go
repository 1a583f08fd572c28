package common

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns the JSON stderr logger every command uses. quiet limits
// output to errors.
func NewLogger(quiet bool) *slog.Logger {
	return newLogger(os.Stderr, quiet)
}

func newLogger(w io.Writer, quiet bool) *slog.Logger {
	level := slog.LevelInfo
	if quiet {
		level = slog.LevelError
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
