// Package aggregate encodes a list of inputs into one run-length stream.
//
// For every input, in order, an Aggregator plans fixed-size windows, encodes
// them on its worker pool, and merges the partial encodings in window order
// into the input's encoding. The per-input encodings are then merged in input
// order. Because merging is associative the result is byte-identical to a
// serial scan of the concatenated inputs, whatever the concurrency degree.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/arloliu/rlez/chunk"
	"github.com/arloliu/rlez/encoding"
	"github.com/arloliu/rlez/internal/hash"
	"github.com/arloliu/rlez/internal/options"
	"github.com/arloliu/rlez/internal/pool"
	"github.com/arloliu/rlez/source"
)

var (
	// ErrNoInputs is returned when there is nothing to encode.
	ErrNoInputs = errors.New("aggregate: no inputs")
	// ErrInvalidJobs is returned for a concurrency degree outside [1, MaxJobs].
	ErrInvalidJobs = errors.New("aggregate: invalid jobs")
	// ErrInvalidWindowSize is returned for a window size below one.
	ErrInvalidWindowSize = errors.New("aggregate: invalid window size")
)

// Aggregator owns a worker pool and encodes inputs with it.
// It holds no per-invocation state and is safe for concurrent use.
type Aggregator struct {
	jobs       int
	windowSize int
	opener     source.Opener
	logger     *slog.Logger
	workers    *WorkerPool
}

// New creates an Aggregator. Without options it encodes serially, reads files
// with os.ReadFile and does not log.
func New(opts ...Option) (*Aggregator, error) {
	a := &Aggregator{
		jobs:       1,
		windowSize: chunk.DefaultWindowSize,
		opener:     source.DirectOpener{},
		logger:     slog.New(slog.DiscardHandler),
	}

	if err := options.Apply(a, opts...); err != nil {
		return nil, err
	}

	a.workers = NewWorkerPool(a.jobs)

	return a, nil
}

// Jobs returns the concurrency degree.
func (a *Aggregator) Jobs() int {
	return a.jobs
}

// WindowSize returns the window size used when Jobs is greater than one.
func (a *Aggregator) WindowSize() int {
	return a.windowSize
}

// EncodeFiles opens each name with the configured opener, in order, and
// encodes the concatenation of their contents.
//
// Any open or read failure aborts the whole call; no partial result is returned.
func (a *Aggregator) EncodeFiles(ctx context.Context, names []string) (*Result, error) {
	if len(names) == 0 {
		return nil, ErrNoInputs
	}

	return a.run(ctx, len(names), func(i int) (string, source.Buffer, error) {
		buf, err := a.opener.Open(ctx, names[i])
		return names[i], buf, err
	})
}

// EncodeBuffers encodes the concatenation of bufs, in order.
func (a *Aggregator) EncodeBuffers(ctx context.Context, bufs [][]byte) (*Result, error) {
	if len(bufs) == 0 {
		return nil, ErrNoInputs
	}

	return a.run(ctx, len(bufs), func(i int) (string, source.Buffer, error) {
		return fmt.Sprintf("buffer[%d]", i), source.Bytes(bufs[i]), nil
	})
}

type openFunc func(i int) (name string, buf source.Buffer, err error)

func (a *Aggregator) run(ctx context.Context, n int, open openFunc) (*Result, error) {
	start := time.Now()
	res := &Result{
		stream: encoding.NewMerger(),
		Stats:  Stats{PerFile: make([]FileStats, 0, n)},
	}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			res.Release()
			return nil, err
		}

		fs, err := a.encodeInput(ctx, i, open, res.stream)
		if err != nil {
			res.Release()
			return nil, err
		}

		res.Stats.Files++
		res.Stats.InputBytes += int64(fs.InputBytes)
		res.Stats.Windows += fs.Windows
		res.Stats.PerFile = append(res.Stats.PerFile, fs)
	}

	res.Stats.Runs = res.stream.Runs()
	res.Stats.OutputBytes = res.stream.Len()
	res.Stats.Digest = hash.Sum(res.stream.Bytes())
	res.Stats.Elapsed = time.Since(start)

	return res, nil
}

// encodeInput opens input i, encodes it and folds it onto stream.
func (a *Aggregator) encodeInput(ctx context.Context, i int, open openFunc, stream *encoding.Merger) (FileStats, error) {
	name, buf, err := open(i)
	if err != nil {
		return FileStats{}, err
	}

	data := buf.Bytes()
	fs := FileStats{Name: name, InputBytes: len(data)}

	file := encoding.NewMerger()
	defer file.Release()

	if a.jobs == 1 {
		err = a.encodeSerial(data, file, &fs)
	} else {
		err = a.encodeParallel(ctx, data, file, &fs)
	}

	if closeErr := buf.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("release %s: %w", name, closeErr)
	}
	if err != nil {
		return FileStats{}, err
	}

	fs.Runs = file.Runs()
	stream.AppendStream(file)

	a.logger.Debug("encoded input",
		slog.String("name", name),
		slog.Int("bytes", fs.InputBytes),
		slog.Int("windows", fs.Windows),
		slog.Int("runs", fs.Runs),
	)

	return fs, nil
}

// encodeSerial encodes data as one window. An empty input contributes nothing.
func (a *Aggregator) encodeSerial(data []byte, file *encoding.Merger, fs *FileStats) error {
	if len(data) == 0 {
		return nil
	}

	p, err := encoding.EncodeWindow(data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", fs.Name, err)
	}
	fs.Windows = 1
	file.Append(p)

	return nil
}

// encodeParallel encodes the windows of data on the worker pool and merges
// the partials in window order.
func (a *Aggregator) encodeParallel(ctx context.Context, data []byte, file *encoding.Merger, fs *FileStats) error {
	windows, err := chunk.Plan(len(data), a.windowSize)
	if err != nil {
		return err
	}
	fs.Windows = len(windows)

	// partials[i] is written only by the task encoding windows[i]
	partials := make([]*pool.ByteBuffer, len(windows))
	defer func() {
		for _, bb := range partials {
			pool.PutWindowBuffer(bb)
		}
	}()

	err = a.workers.Map(ctx, len(windows), func(_ context.Context, i int) error {
		bb := pool.GetWindowBuffer()
		p, err := encoding.AppendWindow(bb.B[:0], windows[i].Slice(data))
		bb.B = p
		partials[i] = bb
		if err != nil {
			return fmt.Errorf("encode %s window %s: %w", fs.Name, windows[i], err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	a.logger.Debug("planned windows",
		slog.String("name", fs.Name),
		slog.Int("windows", len(windows)),
		slog.Int("window_size", a.windowSize),
		slog.Int("workers", a.workers.Size()),
	)

	for _, bb := range partials {
		file.Append(bb.B)
	}

	return nil
}
