// Package logging builds the structured logger used by rlez.
//
// Encoded bytes go to stdout, so logs always go to a separate writer
// (stderr in the CLI).
package logging

import (
	"io"
	"log/slog"

	"github.com/arloliu/rlez/internal/config"
)

// New returns a logger writing to w. Debug records are emitted only when
// verbose is set; format selects the text or JSON handler.
func New(w io.Writer, verbose bool, format config.LogFormat) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if format == config.LogJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	return slog.New(h)
}

// FromConfig is New with the verbosity and format taken from cfg.
func FromConfig(w io.Writer, cfg *config.Config) *slog.Logger {
	return New(w, cfg.Verbose, cfg.LogFormat)
}
