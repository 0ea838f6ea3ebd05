package encoding

import (
	"io"

	"github.com/arloliu/rlez/format"
	"github.com/arloliu/rlez/internal/pool"
)

// Merger folds partial encodings of consecutive windows, in stream order,
// into a single encoded stream.
//
// The accumulated stream lives in a pooled buffer; call Release once the
// bytes are no longer needed. A Merger is not safe for concurrent use.
type Merger struct {
	buf *pool.ByteBuffer
}

// NewMerger returns an empty Merger backed by a pooled stream buffer.
func NewMerger() *Merger {
	return &Merger{buf: pool.GetStreamBuffer()}
}

// Append folds p onto the end of the accumulated stream.
//
// p must be a well-formed partial (see Validate). Empty partials are skipped.
// If the accumulated stream ends with the symbol p starts with, every leading
// run of p with that symbol is combined with the last accumulated run and the
// total is re-emitted as saturated runs plus remainder.
func (m *Merger) Append(p Partial) {
	if len(p) == 0 {
		return
	}

	out := m.buf.B
	if len(out) < format.PairSize {
		m.buf.MustWrite(p)
		return
	}

	last := len(out) - format.PairSize
	symbol := out[last]
	if p[0] != symbol {
		m.buf.MustWrite(p)
		return
	}

	total := int(out[last+1])
	i := 0
	for i < len(p) && p[i] == symbol {
		total += int(p[i+1])
		i += format.PairSize
	}

	m.buf.Truncate(last)
	m.buf.B = appendRun(m.buf.B, symbol, total)
	m.buf.MustWrite(p[i:])
}

// AppendStream folds another merged stream onto this one.
func (m *Merger) AppendStream(other *Merger) {
	m.Append(other.Bytes())
}

// Bytes returns the accumulated stream. The slice is only valid until the
// next Append or Release.
func (m *Merger) Bytes() Partial {
	return m.buf.Bytes()
}

// Len returns the size of the accumulated stream in bytes.
func (m *Merger) Len() int {
	return m.buf.Len()
}

// Runs returns the number of runs in the accumulated stream.
func (m *Merger) Runs() int {
	return m.buf.Len() / format.PairSize
}

// WriteTo writes the accumulated stream to w.
func (m *Merger) WriteTo(w io.Writer) (int64, error) {
	return m.buf.WriteTo(w)
}

// Release returns the backing buffer to the pool. The Merger must not be used afterwards.
func (m *Merger) Release() {
	pool.PutStreamBuffer(m.buf)
	m.buf = nil
}

// Merge joins partials of consecutive windows, in order, into one newly
// allocated stream equal to encoding the concatenation of the windows.
func Merge(partials ...Partial) Partial {
	m := NewMerger()
	defer m.Release()

	for _, p := range partials {
		m.Append(p)
	}

	out := make(Partial, m.Len())
	copy(out, m.Bytes())

	return out
}
