// Package chunk plans the fixed-size windows a buffer is split into for
// independent encoding.
package chunk

import (
	"errors"
	"fmt"
	"iter"
)

// DefaultWindowSize is the window size used for parallel encoding.
const DefaultWindowSize = 4096

var (
	// ErrInvalidWindowSize is returned for a window size that is not positive.
	ErrInvalidWindowSize = errors.New("chunk: window size must be positive")
	// ErrInvalidLength is returned for a negative buffer length.
	ErrInvalidLength = errors.New("chunk: buffer length must not be negative")
)

// Window is the half-open byte range [Start, End) of a buffer.
type Window struct {
	Start int
	End   int
}

// Len returns the number of bytes in the window.
func (w Window) Len() int {
	return w.End - w.Start
}

// Slice returns the bytes of buf the window covers. No data is copied.
func (w Window) Slice(buf []byte) []byte {
	return buf[w.Start:w.End]
}

func (w Window) String() string {
	return fmt.Sprintf("[%d,%d)", w.Start, w.End)
}

// Count returns how many windows of the given size cover length bytes.
func Count(length, size int) (int, error) {
	if err := check(length, size); err != nil {
		return 0, err
	}

	return (length + size - 1) / size, nil
}

// Plan splits [0, length) into consecutive windows [0,size), [size,2*size), ...
// with the final window clamped to length. The windows are disjoint, in
// ascending order, and cover every byte exactly once. A zero length yields no
// windows.
func Plan(length, size int) ([]Window, error) {
	n, err := Count(length, size)
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, n)
	for w := range All(length, size) {
		windows = append(windows, w)
	}

	return windows, nil
}

// All iterates the windows Plan would return without allocating them.
// It yields nothing for invalid arguments.
func All(length, size int) iter.Seq[Window] {
	return func(yield func(Window) bool) {
		if check(length, size) != nil {
			return
		}
		for start := 0; start < length; start += size {
			if !yield(Window{Start: start, End: min(start+size, length)}) {
				return
			}
		}
	}
}

func check(length, size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWindowSize, size)
	}
	if length < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}

	return nil
}
