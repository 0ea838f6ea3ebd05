package encoding

import (
	"errors"
	"fmt"
	"iter"

	"github.com/arloliu/rlez/format"
)

var (
	// ErrOddLength is returned by Validate for a stream that ends in half a run.
	ErrOddLength = errors.New("encoding: stream length is not a multiple of the pair size")
	// ErrZeroCount is returned by Validate for a run with a count of zero.
	ErrZeroCount = errors.New("encoding: run with zero count")
	// ErrNotCanonical is returned by Validate when a run could have been merged with its predecessor.
	ErrNotCanonical = errors.New("encoding: adjacent runs share a symbol")
)

// Run is one (symbol, count) pair.
type Run struct {
	Symbol byte
	Count  uint8
}

func (r Run) String() string {
	return fmt.Sprintf("(%d,%d)", r.Symbol, r.Count)
}

// Runs iterates the runs of an encoded stream. A trailing half pair is ignored.
func Runs(stream []byte) iter.Seq[Run] {
	return func(yield func(Run) bool) {
		for i := 0; i+1 < len(stream); i += format.PairSize {
			if !yield(Run{Symbol: stream[i], Count: stream[i+1]}) {
				return
			}
		}
	}
}

// Validate checks that stream is a well-formed canonical encoding: whole
// pairs, no zero counts, and no two adjacent runs with the same symbol
// unless the earlier run is saturated at format.MaxRunCount.
func Validate(stream []byte) error {
	if len(stream)%format.PairSize != 0 {
		return ErrOddLength
	}

	for i := 0; i < len(stream); i += format.PairSize {
		if stream[i+1] == 0 {
			return fmt.Errorf("run %d: %w", i/format.PairSize, ErrZeroCount)
		}
		if i == 0 {
			continue
		}
		if stream[i] == stream[i-2] && stream[i-1] != format.MaxRunCount {
			return fmt.Errorf("run %d: %w", i/format.PairSize, ErrNotCanonical)
		}
	}

	return nil
}

// ExpandedSize returns the number of bytes stream describes.
func ExpandedSize(stream []byte) int {
	n := 0
	for r := range Runs(stream) {
		n += int(r.Count)
	}

	return n
}

// Expand appends the bytes stream describes to dst.
func Expand(dst []byte, stream []byte) []byte {
	for r := range Runs(stream) {
		for j := uint8(0); j < r.Count; j++ {
			dst = append(dst, r.Symbol)
		}
	}

	return dst
}
