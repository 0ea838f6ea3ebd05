// Package rlez run-length encodes one or more inputs into a single stream of
// (symbol, count) byte pairs, serially or on a bounded pool of workers.
//
// Every input is split into fixed-size windows that are encoded independently
// and then merged in order. The merge joins runs that straddle a window or an
// input boundary, so the stream for a set of inputs is byte-identical to a
// serial scan of their concatenation regardless of window size or worker count.
//
// # Wire Format
//
//   - A stream is a flat sequence of 2-byte runs: symbol, then count
//   - Counts are 1..255; longer runs are split into (symbol, 255) runs and a remainder
//   - Adjacent runs never share a symbol unless the first one is full
//   - No header, trailer or per-input framing
//
// # Basic Usage
//
// Encoding a byte slice:
//
//	import "github.com/arloliu/rlez"
//
//	stream := rlez.Encode([]byte("aaaaabbbbcccdda"))
//	// stream == []byte{'a', 5, 'b', 4, 'c', 3, 'd', 2, 'a', 1}
//
// Encoding files on four workers:
//
//	stream, err := rlez.EncodeFiles(ctx, []string{"a.bin", "b.bin"},
//	    aggregate.WithJobs(4),
//	    aggregate.WithWindowSize(64*1024),
//	)
//
// # Package Structure
//
// This package wraps the aggregate and encoding packages for the common cases.
// Use aggregate directly for statistics, verification, pooled output buffers or
// custom openers (mmap, buffered reads, S3).
package rlez

import (
	"context"

	"github.com/arloliu/rlez/aggregate"
	"github.com/arloliu/rlez/encoding"
	"github.com/arloliu/rlez/internal/hash"
)

// Encode returns the run-length encoding of data. Empty data encodes to an
// empty stream.
//
// Example:
//
//	stream := rlez.Encode(bytes.Repeat([]byte{'x'}, 256))
//	// stream == []byte{'x', 255, 'x', 1}
func Encode(data []byte) []byte {
	if len(data) == 0 {
		return []byte{}
	}

	// non-empty input cannot fail
	p, _ := encoding.EncodeWindow(data)

	return p
}

// EncodeBuffers encodes the concatenation of bufs with an aggregator built from opts.
//
// Parameters:
//   - ctx: Cancels the encoding between inputs and between windows
//   - bufs: Inputs, in order; empty inputs are allowed
//   - opts: aggregate.WithJobs, aggregate.WithWindowSize, aggregate.WithLogger
//
// Returns:
//   - []byte: A newly allocated stream owned by the caller
//   - error: An invalid option, no inputs, or ctx.Err()
func EncodeBuffers(ctx context.Context, bufs [][]byte, opts ...aggregate.Option) ([]byte, error) {
	a, err := aggregate.New(opts...)
	if err != nil {
		return nil, err
	}

	res, err := a.EncodeBuffers(ctx, bufs)
	if err != nil {
		return nil, err
	}
	defer res.Release()

	return append([]byte{}, res.Bytes()...), nil
}

// EncodeFiles reads the named files, in order, and encodes their concatenation.
// A file that cannot be read aborts the whole call.
//
// Files are read with os.ReadFile unless opts carries aggregate.WithOpener.
func EncodeFiles(ctx context.Context, names []string, opts ...aggregate.Option) ([]byte, error) {
	a, err := aggregate.New(opts...)
	if err != nil {
		return nil, err
	}

	res, err := a.EncodeFiles(ctx, names)
	if err != nil {
		return nil, err
	}
	defer res.Release()

	return append([]byte{}, res.Bytes()...), nil
}

// Decode expands a stream back into the bytes it encodes. It rejects streams
// that Encode could not have produced, see encoding.Validate.
func Decode(stream []byte) ([]byte, error) {
	if err := encoding.Validate(stream); err != nil {
		return nil, err
	}

	return encoding.Expand(make([]byte, 0, encoding.ExpandedSize(stream)), stream), nil
}

// Digest returns the 64-bit xxHash of stream, as reported in aggregate.Stats.
func Digest(stream []byte) uint64 {
	return hash.Sum(stream)
}
