package aggregate

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/rlez/internal/options"
	"github.com/arloliu/rlez/source"
)

// MaxJobs is the largest worker count an Aggregator accepts.
const MaxJobs = 1024

// Option configures an Aggregator.
type Option = options.Option[*Aggregator]

// WithJobs sets the concurrency degree. One means serial encoding with each
// input treated as a single window. It is the default.
func WithJobs(n int) Option {
	return options.New(func(a *Aggregator) error {
		if n < 1 || n > MaxJobs {
			return fmt.Errorf("%w: %d", ErrInvalidJobs, n)
		}
		a.jobs = n

		return nil
	})
}

// WithWindowSize sets the window size used when jobs is greater than one.
func WithWindowSize(n int) Option {
	return options.New(func(a *Aggregator) error {
		if n < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidWindowSize, n)
		}
		a.windowSize = n

		return nil
	})
}

// WithOpener sets how EncodeFiles turns names into buffers.
// The default reads each file with a single os.ReadFile call.
func WithOpener(o source.Opener) Option {
	return options.New(func(a *Aggregator) error {
		if o == nil {
			return fmt.Errorf("nil opener")
		}
		a.opener = o

		return nil
	})
}

// WithLogger sets the logger for per-file debug records. The default drops everything.
func WithLogger(l *slog.Logger) Option {
	return options.NoError(func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	})
}
