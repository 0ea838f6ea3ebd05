// Command rlez run-length encodes the concatenation of its input files and
// writes the stream of (symbol, count) pairs to stdout or --output.
// It exits 0 on success, 1 on a usage, read or write error, and 2 when
// --verify finds that the parallel output differs from a serial encode.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/arloliu/rlez/aggregate"
	"github.com/arloliu/rlez/compress"
	"github.com/arloliu/rlez/internal/config"
	"github.com/arloliu/rlez/internal/logging"
	"github.com/arloliu/rlez/source"
)

const (
	exitOK       = 0
	exitError    = 1
	exitMismatch = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run is main without the process globals so tests can drive it.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// 1. Defaults, then flags, then validation.
	cfg := config.DefaultConfig()
	if err := config.ParseArgs(&cfg, args, stderr); err != nil {
		if errors.Is(err, config.ErrHelp) || errors.Is(err, config.ErrVersion) {
			return exitOK
		}
		fmt.Fprintf(stderr, "rlez: %v\n", err)

		return exitError
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "rlez: %v\n", err)
		return exitError
	}

	log := logging.FromConfig(stderr, &cfg)

	// 2. Build the reader and the aggregator.
	opener, err := source.New(cfg.ReadStrategy)
	if err != nil {
		log.Error("invalid read strategy", slog.Any("error", err))
		return exitError
	}
	agg, err := aggregate.New(
		aggregate.WithJobs(cfg.Jobs),
		aggregate.WithWindowSize(cfg.WindowSize),
		aggregate.WithOpener(opener),
		aggregate.WithLogger(log),
	)
	if err != nil {
		log.Error("invalid settings", slog.Any("error", err))
		return exitError
	}
	codec, err := compress.GetCodec(cfg.Compression)
	if err != nil {
		log.Error("invalid codec", slog.Any("error", err))
		return exitError
	}

	log.Debug("starting",
		slog.Int("files", len(cfg.Files)),
		slog.Int("jobs", cfg.Jobs),
		slog.Int("window", cfg.WindowSize),
		slog.String("read", cfg.ReadStrategy.String()),
		slog.String("codec", cfg.Compression.String()),
	)

	// 3. Encode. Nothing is written unless every input was read.
	res, err := agg.EncodeFiles(ctx, cfg.Files)
	if err != nil {
		log.Error("encode failed", slog.Any("error", err))
		return exitError
	}
	defer res.Release()

	if cfg.Verify {
		if err := agg.VerifyFiles(ctx, res, cfg.Files); err != nil {
			log.Error("verify failed", slog.Any("error", err))
			if errors.Is(err, aggregate.ErrVerifyMismatch) {
				return exitMismatch
			}

			return exitError
		}
		log.Debug("verified against serial encode", slog.String("digest", fmt.Sprintf("%016x", res.Stats.Digest)))
	}

	// 4. Write.
	written, err := writeOutput(&cfg, stdout, codec, res.Bytes())
	if err != nil {
		log.Error("write failed", slog.String("output", outputName(&cfg)), slog.Any("error", err))
		return exitError
	}

	s := res.Stats
	log.Info("encoded",
		slog.Int("files", s.Files),
		slog.Int64("input_bytes", s.InputBytes),
		slog.Int("windows", s.Windows),
		slog.Int("runs", s.Runs),
		slog.Int("output_bytes", s.OutputBytes),
		slog.Int64("written_bytes", written),
		slog.String("ratio", fmt.Sprintf("%.3f", s.Ratio())),
		slog.String("digest", fmt.Sprintf("%016x", s.Digest)),
		slog.Duration("elapsed", s.Elapsed),
	)

	return exitOK
}

func writeOutput(cfg *config.Config, stdout io.Writer, codec compress.Codec, stream []byte) (int64, error) {
	if cfg.WritesToStdout() {
		return compress.WriteCompressed(stdout, codec, stream)
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return 0, err
	}

	n, err := compress.WriteCompressed(f, codec, stream)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}

	return n, err
}

func outputName(cfg *config.Config) string {
	if cfg.WritesToStdout() {
		return "stdout"
	}

	return cfg.Output
}
