package aggregate

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/arloliu/rlez/encoding"
	"github.com/arloliu/rlez/format"
	"github.com/arloliu/rlez/internal/hash"
	"github.com/arloliu/rlez/source"
)

// ErrVerifyMismatch is returned by Verify when a stream does not match its inputs.
var ErrVerifyMismatch = errors.New("aggregate: verify mismatch")

// Verify checks res against the inputs it was encoded from.
//
// The stream must be well formed, carry the recorded digest, equal byte for
// byte what a single-worker Aggregator produces from bufs, and expand back
// to the concatenation of bufs.
func Verify(ctx context.Context, res *Result, bufs [][]byte) error {
	if err := checkStream(res); err != nil {
		return err
	}

	exp := &expander{stream: res.Bytes()}
	for _, b := range bufs {
		if !exp.match(b) {
			break
		}
	}
	if err := exp.err(); err != nil {
		return err
	}

	serial, err := New()
	if err != nil {
		return err
	}

	want, err := serial.EncodeBuffers(ctx, bufs)
	if err != nil {
		return err
	}
	defer want.Release()

	return compare(res, want)
}

// VerifyFiles is Verify for inputs read through a's opener. Every input is
// read once more.
func (a *Aggregator) VerifyFiles(ctx context.Context, res *Result, names []string) error {
	if err := checkStream(res); err != nil {
		return err
	}

	exp := &expander{stream: res.Bytes()}
	opener := source.OpenerFunc(func(ctx context.Context, name string) (source.Buffer, error) {
		buf, err := a.opener.Open(ctx, name)
		if err != nil {
			return nil, err
		}

		return &checkedBuffer{Buffer: buf, exp: exp}, nil
	})

	serial, err := New(WithOpener(opener), WithLogger(a.logger))
	if err != nil {
		return err
	}

	want, err := serial.EncodeFiles(ctx, names)
	if err != nil {
		return err
	}
	defer want.Release()

	if err := exp.err(); err != nil {
		return err
	}

	return compare(res, want)
}

func checkStream(res *Result) error {
	stream := res.Bytes()
	if err := encoding.Validate(stream); err != nil {
		return fmt.Errorf("%w: %w", ErrVerifyMismatch, err)
	}

	if n := encoding.ExpandedSize(stream); int64(n) != res.Stats.InputBytes {
		return fmt.Errorf("%w: stream expands to %d bytes, read %d", ErrVerifyMismatch, n, res.Stats.InputBytes)
	}

	if d := hash.Sum(stream); d != res.Stats.Digest {
		return fmt.Errorf("%w: digest %016x, recorded %016x", ErrVerifyMismatch, d, res.Stats.Digest)
	}

	return nil
}

func compare(got, want *Result) error {
	if got.Stats.Digest != want.Stats.Digest || !bytes.Equal(got.Bytes(), want.Bytes()) {
		return fmt.Errorf("%w: %d runs (%016x), serial encoding has %d runs (%016x)",
			ErrVerifyMismatch, got.Stats.Runs, got.Stats.Digest, want.Stats.Runs, want.Stats.Digest)
	}

	return nil
}

// expander walks a stream run by run and compares it with the bytes it
// should describe, fed in order through match.
type expander struct {
	stream []byte
	pos    int   // offset of the next unread run
	sym    byte  // symbol of the current run
	left   int   // bytes left in the current run
	offset int64 // input bytes matched so far
	failed bool
}

// match consumes data and reports whether it agrees with the stream so far.
func (e *expander) match(data []byte) bool {
	if e.failed {
		return false
	}

	for _, b := range data {
		if e.left == 0 {
			if e.pos+format.PairSize > len(e.stream) {
				e.failed = true
				return false
			}
			e.sym, e.left = e.stream[e.pos], int(e.stream[e.pos+1])
			e.pos += format.PairSize
		}
		if b != e.sym {
			e.failed = true
			return false
		}
		e.left--
		e.offset++
	}

	return true
}

// err reports a mismatch, or a stream with bytes left over once every input was matched.
func (e *expander) err() error {
	if e.failed {
		return fmt.Errorf("%w: input differs from expanded stream at byte %d", ErrVerifyMismatch, e.offset)
	}
	if e.left != 0 || e.pos != len(e.stream) {
		return fmt.Errorf("%w: stream describes more than the %d input bytes", ErrVerifyMismatch, e.offset)
	}

	return nil
}

// checkedBuffer feeds its contents to an expander before it is released.
type checkedBuffer struct {
	source.Buffer
	exp *expander
}

func (b *checkedBuffer) Close() error {
	b.exp.match(b.Bytes())
	return b.Buffer.Close()
}
