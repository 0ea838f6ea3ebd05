package aggregate

import (
	"io"
	"time"

	"github.com/arloliu/rlez/encoding"
)

// FileStats describes the encoding of one input.
type FileStats struct {
	Name       string
	InputBytes int
	Windows    int
	Runs       int // runs in the input's own encoding, before joining its neighbours
}

// Stats summarises one invocation.
type Stats struct {
	Files       int
	InputBytes  int64
	Windows     int
	Runs        int
	OutputBytes int
	Digest      uint64 // xxHash64 of the merged stream
	Elapsed     time.Duration
	PerFile     []FileStats
}

// Ratio returns output size over input size, or 0 for empty input.
func (s Stats) Ratio() float64 {
	if s.InputBytes == 0 {
		return 0
	}

	return float64(s.OutputBytes) / float64(s.InputBytes)
}

// Result holds the merged stream of an invocation and its statistics.
type Result struct {
	stream *encoding.Merger
	Stats  Stats
}

// Bytes returns the merged stream. It is valid until Release.
func (r *Result) Bytes() []byte {
	return r.stream.Bytes()
}

// WriteTo writes the merged stream to w.
func (r *Result) WriteTo(w io.Writer) (int64, error) {
	return r.stream.WriteTo(w)
}

// Release returns the stream buffer to its pool. The Result must not be used afterwards.
func (r *Result) Release() {
	if r.stream != nil {
		r.stream.Release()
		r.stream = nil
	}
}
