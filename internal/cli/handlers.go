package cli

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"
)

// newLogger logs to w at INFO, or DEBUG when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// utility
func absPath(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	abs, _ := filepath.Abs(p)
	return abs
}

func spaces(n int) string {
	return strings.Repeat(" ", n)
}
