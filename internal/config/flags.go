package config

// This file implements CLI flag parsing and help text.
// Every option has a long name and, where it is common, a one-letter alias;
// Go's flag package accepts both -name and --name.

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/arloliu/rlez/format"
)

// Version is shown by --version; override at build time with
// -ldflags "-X github.com/arloliu/rlez/internal/config.Version=...".
var Version = "0.1.0-dev"

// ParseArgs parses args (without the program name) into cfg. Help text is
// written to out. It returns ErrHelp after printing help and ErrVersion when
// --version is given; the caller decides how to exit.
func ParseArgs(cfg *Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("rlez", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { printUsage(out) }

	var showVersion bool

	defineEncodingFlags(fs, cfg)
	defineIOFlags(fs, cfg)
	defineLoggingFlags(fs, cfg)
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&showVersion, "V", false, "Same as --version")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ErrHelp
		}
		return err
	}

	if showVersion {
		fmt.Fprintln(out, "rlez v"+Version)
		return ErrVersion
	}

	cfg.Files = append(cfg.Files[:0], fs.Args()...)

	return nil
}

// defineEncodingFlags registers -j/--jobs, -w/--window and --verify.
func defineEncodingFlags(fs *flag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.Jobs, "jobs", cfg.Jobs, "Number of parallel workers (1 = serial)")
	fs.IntVar(&cfg.Jobs, "j", cfg.Jobs, "Same as --jobs")
	fs.IntVar(&cfg.WindowSize, "window", cfg.WindowSize, "Window size in bytes for parallel encoding")
	fs.IntVar(&cfg.WindowSize, "w", cfg.WindowSize, "Same as --window")
	fs.BoolVar(&cfg.Verify, "verify", false, "Check the output against a serial encode before writing")
}

// defineIOFlags registers -r/--read, --codec and -o/--output.
func defineIOFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Var(&readStrategyValue{&cfg.ReadStrategy}, "read", "Read strategy: direct | buffered | mmap")
	fs.Var(&readStrategyValue{&cfg.ReadStrategy}, "r", "Same as --read")
	fs.Var(&compressionValue{&cfg.Compression}, "codec", "Outer codec: none | zstd | s2 | lz4 | snappy | brotli")
	fs.StringVar(&cfg.Output, "output", "", "Write output to file instead of stdout")
	fs.StringVar(&cfg.Output, "o", "", "Same as --output")
}

// defineLoggingFlags registers -v/--verbose and --log-format.
func defineLoggingFlags(fs *flag.FlagSet, cfg *Config) {
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose logging")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.Var(&logFormatValue{&cfg.LogFormat}, "log-format", "Log format: text | json")
}

type readStrategyValue struct{ p *format.ReadStrategy }

func (v *readStrategyValue) String() string {
	if v.p == nil {
		return ""
	}
	return strings.ToLower(v.p.String())
}

func (v *readStrategyValue) Set(s string) error {
	r, err := format.ParseReadStrategy(s)
	if err != nil {
		return err
	}
	*v.p = r

	return nil
}

type compressionValue struct{ p *format.CompressionType }

func (v *compressionValue) String() string {
	if v.p == nil {
		return ""
	}
	return strings.ToLower(v.p.String())
}

func (v *compressionValue) Set(s string) error {
	c, err := format.ParseCompressionType(s)
	if err != nil {
		return err
	}
	*v.p = c

	return nil
}

type logFormatValue struct{ p *LogFormat }

func (v *logFormatValue) String() string {
	if v.p == nil {
		return ""
	}
	return string(*v.p)
}

func (v *logFormatValue) Set(s string) error {
	switch f := LogFormat(strings.ToLower(s)); f {
	case LogText, LogJSON:
		*v.p = f
		return nil
	default:
		return fmt.Errorf("invalid log format %q (use text or json)", s)
	}
}

// printUsage writes the help text. Column-aligned for readability.
func printUsage(w io.Writer) {
	const col1 = 28
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "rlez v" + Version + " - parallel run-length encoder"},
		{"", ""},
		{"  rlez [OPTIONS] FILE...", ""},
		{"", ""},
		{"Encoding", ""},
		{"  -j, --jobs <n>", "Parallel workers, 1 = serial (default: 1)"},
		{"  -w, --window <bytes>", "Window size for parallel encoding (default: 4096)"},
		{"  --verify", "Compare against a serial encode before writing"},
		{"", ""},
		{"Input & output", ""},
		{"  -r, --read <strategy>", "direct | buffered | mmap (default: direct)"},
		{"  --codec <name>", "none | zstd | s2 | lz4 | snappy | brotli (default: none)"},
		{"  -o, --output <path>", "Write to file instead of stdout"},
		{"", ""},
		{"Logging", ""},
		{"  -v, --verbose", "Debug logging to stderr"},
		{"  --log-format <fmt>", "text | json (default: text)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
		{"", ""},
		{"Inputs named s3://bucket/key are fetched from S3.", ""},
	}

	for _, l := range lines {
		switch {
		case l.flags == "" && l.desc == "":
			fmt.Fprintln(w)
		case l.desc == "":
			fmt.Fprintln(w, l.flags)
		case l.flags == "":
			fmt.Fprintln(w, l.desc)
		default:
			fmt.Fprintf(w, "%-*s%s\n", col1, l.flags, l.desc)
		}
	}
}
