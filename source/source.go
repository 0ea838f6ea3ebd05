// Package source supplies input buffers to the encoder.
//
// The encoder only ever sees byte slices; how those bytes are obtained is the
// concern of an Opener. Local files can be read in one call, read through a
// buffered reader, or memory mapped. Names of the form s3://bucket/key are
// fetched from S3 whatever the local strategy is.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/arloliu/rlez/format"
	"github.com/arloliu/rlez/internal/options"
)

var (
	// ErrOpen wraps every failure to open or read an input.
	ErrOpen = errors.New("source: cannot read input")
	// ErrUnsupportedStrategy is returned by New for an unknown read strategy.
	ErrUnsupportedStrategy = errors.New("source: unsupported read strategy")
)

// Buffer is a read-only view of one input. Bytes must not be used after Close.
type Buffer interface {
	Bytes() []byte
	Close() error
}

// Opener turns an input name into a Buffer.
type Opener interface {
	Open(ctx context.Context, name string) (Buffer, error)
}

// OpenerFunc adapts a function to Opener.
type OpenerFunc func(ctx context.Context, name string) (Buffer, error)

// Open calls f(ctx, name).
func (f OpenerFunc) Open(ctx context.Context, name string) (Buffer, error) {
	return f(ctx, name)
}

// Bytes wraps an in-memory slice as a Buffer whose Close is a no-op.
func Bytes(b []byte) Buffer {
	return memBuffer(b)
}

type memBuffer []byte

func (b memBuffer) Bytes() []byte { return b }
func (b memBuffer) Close() error  { return nil }

// Dispatcher routes s3:// names to an S3 opener and everything else to the
// local opener selected by the read strategy.
type Dispatcher struct {
	strategy   format.ReadStrategy
	bufferSize int
	local      Opener
	remote     Opener

	s3Once sync.Once
	s3Err  error
}

// Option configures a Dispatcher.
type Option = options.Option[*Dispatcher]

// WithBufferSize sets the reader size for the buffered strategy.
func WithBufferSize(n int) Option {
	return options.New(func(d *Dispatcher) error {
		if n <= 0 {
			return fmt.Errorf("invalid buffer size: %d", n)
		}
		d.bufferSize = n

		return nil
	})
}

// WithS3Client uses client for s3:// names instead of one built from the
// default AWS configuration.
func WithS3Client(client S3API) Option {
	return options.NoError(func(d *Dispatcher) {
		d.remote = NewS3Opener(client)
	})
}

// New returns a Dispatcher reading local files with the given strategy.
func New(strategy format.ReadStrategy, opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		strategy:   strategy,
		bufferSize: defaultBufferSize,
	}

	if err := options.Apply(d, opts...); err != nil {
		return nil, err
	}

	switch strategy {
	case format.ReadDirect:
		d.local = DirectOpener{}
	case format.ReadBuffered:
		d.local = BufferedOpener{Size: d.bufferSize}
	case format.ReadMmap:
		d.local = MmapOpener{}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedStrategy, strategy)
	}

	return d, nil
}

// Strategy returns the local read strategy.
func (d *Dispatcher) Strategy() format.ReadStrategy {
	return d.strategy
}

// Open implements Opener.
func (d *Dispatcher) Open(ctx context.Context, name string) (Buffer, error) {
	if !strings.HasPrefix(name, s3Scheme) {
		return d.local.Open(ctx, name)
	}

	d.s3Once.Do(func() {
		if d.remote != nil {
			return
		}
		var opener *S3Opener
		opener, d.s3Err = NewDefaultS3Opener(ctx)
		if d.s3Err == nil {
			d.remote = opener
		}
	})
	if d.s3Err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrOpen, name, d.s3Err)
	}

	return d.remote.Open(ctx, name)
}

func openError(name string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrOpen, name, err)
}
