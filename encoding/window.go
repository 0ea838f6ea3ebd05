package encoding

import (
	"errors"

	"github.com/arloliu/rlez/format"
)

// ErrEmptyInput is returned when a window to encode has no bytes.
var ErrEmptyInput = errors.New("encoding: empty input")

// Partial is the encoding of one window in isolation: flat (symbol, count) pairs.
type Partial []byte

// Runs returns the number of runs in the partial.
func (p Partial) Runs() int {
	return len(p) / format.PairSize
}

// EncodeWindow encodes data with a sequential left-to-right scan.
//
// Returns ErrEmptyInput if data has no bytes.
func EncodeWindow(data []byte) (Partial, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	return AppendWindow(make([]byte, 0, estimateSize(len(data))), data)
}

// AppendWindow encodes data and appends its runs to dst.
//
// It is the allocation-free form of EncodeWindow for callers that manage
// their own buffers. Returns dst unchanged and ErrEmptyInput if data has no bytes.
func AppendWindow(dst []byte, data []byte) (Partial, error) {
	if len(data) == 0 {
		return dst, ErrEmptyInput
	}

	symbol := data[0]
	count := 0
	for _, b := range data {
		if b == symbol {
			if count == format.MaxRunCount {
				dst = append(dst, symbol, format.MaxRunCount)
				count = 0
			}
			count++

			continue
		}

		dst = append(dst, symbol, byte(count))
		symbol = b
		count = 1
	}

	if count > 0 {
		dst = append(dst, symbol, byte(count))
	}

	return dst, nil
}

// appendRun appends a run of n copies of symbol in canonical form.
func appendRun(dst []byte, symbol byte, n int) []byte {
	for n > format.MaxRunCount {
		dst = append(dst, symbol, format.MaxRunCount)
		n -= format.MaxRunCount
	}
	if n > 0 {
		dst = append(dst, symbol, byte(n))
	}

	return dst
}

// estimateSize returns the initial capacity for encoding an n byte window.
func estimateSize(n int) int {
	runs := n / 4
	if runs < 1 {
		runs = 1
	}

	return runs * format.PairSize
}
