// Package config holds the rlez runtime configuration: defaults, CLI flag
// parsing, and validation.
package config

import (
	"errors"
	"fmt"

	"github.com/arloliu/rlez/aggregate"
	"github.com/arloliu/rlez/chunk"
	"github.com/arloliu/rlez/format"
)

// LogFormat selects the log handler.
type LogFormat string

const (
	LogText LogFormat = "text" // key=value lines (default).
	LogJSON LogFormat = "json" // one JSON object per line.
)

var (
	// ErrNoFiles is returned when no input files are given.
	ErrNoFiles = errors.New("at least one input file is required")
	// ErrHelp is returned by ParseArgs after printing help.
	ErrHelp = errors.New("help requested")
	// ErrVersion is returned by ParseArgs when --version is given.
	ErrVersion = errors.New("version requested")
)

// Config holds all runtime settings. It is populated by DefaultConfig and then
// mutated by ParseArgs.
type Config struct {
	// Inputs, in command-line order.
	Files []string

	// Encoding.
	Jobs       int // Default: 1 (serial).
	WindowSize int // Default: chunk.DefaultWindowSize. Only used when Jobs > 1.

	// I/O.
	ReadStrategy format.ReadStrategy    // Default: direct.
	Compression  format.CompressionType // Default: none (raw RLE pairs).
	Output       string                 // Empty or "-" means stdout.

	// Behavior.
	Verify bool // Re-encode serially and compare before writing.

	// Logging.
	Verbose   bool
	LogFormat LogFormat // Default: text.
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	return Config{
		Jobs:         1,
		WindowSize:   chunk.DefaultWindowSize,
		ReadStrategy: format.ReadDirect,
		Compression:  format.CompressionNone,
		LogFormat:    LogText,
	}
}

// Validate checks settings that flag parsing alone cannot guarantee.
func (c *Config) Validate() error {
	if len(c.Files) == 0 {
		return ErrNoFiles
	}
	for i, f := range c.Files {
		if f == "" {
			return fmt.Errorf("input %d: empty file name", i+1)
		}
	}
	if c.Jobs < 1 || c.Jobs > aggregate.MaxJobs {
		return fmt.Errorf("jobs must be between 1 and %d (got %d)", aggregate.MaxJobs, c.Jobs)
	}
	if c.WindowSize < 1 {
		return fmt.Errorf("window size must be positive (got %d)", c.WindowSize)
	}
	switch c.LogFormat {
	case LogText, LogJSON:
	default:
		return fmt.Errorf("invalid log format %q (use text or json)", c.LogFormat)
	}

	return nil
}

// WritesToStdout reports whether output goes to standard output.
func (c *Config) WritesToStdout() bool {
	return c.Output == "" || c.Output == "-"
}
