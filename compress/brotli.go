package compress

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/andybalholm/brotli"

	"github.com/arloliu/rlez/format"
)

// brotliSizePrefix is the length of the little-endian uncompressed size
// written before the Brotli data.
const brotliSizePrefix = 4

// maxBrotliStream bounds the size prefix accepted by Decompress.
const maxBrotliStream = 1 << 31

// ErrBrotliCorrupt is returned for Brotli input that is too short or whose
// size prefix disagrees with the decoded length.
var ErrBrotliCorrupt = errors.New("brotli: corrupt stream")

// BrotliCompressor wraps a stream as a size-prefixed Brotli stream.
type BrotliCompressor struct {
	level int
}

var _ Codec = (*BrotliCompressor)(nil)

// NewBrotliCompressor creates a Brotli compressor at brotli.DefaultCompression.
func NewBrotliCompressor() BrotliCompressor {
	return BrotliCompressor{level: brotli.DefaultCompression}
}

// Type implements Codec.
func (c BrotliCompressor) Type() format.CompressionType {
	return format.CompressionBrotli
}

// Compress compresses data into a 4 byte size prefix followed by Brotli data.
//
// Returns nil for empty input.
func (c BrotliCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) >= maxBrotliStream {
		return nil, fmt.Errorf("brotli: input of %d bytes is too large", len(data))
	}

	var buf bytes.Buffer
	var prefix [brotliSizePrefix]byte
	binary.LittleEndian.PutUint32(prefix[:], uint32(len(data)))
	buf.Write(prefix[:])

	w := brotli.NewWriterLevel(&buf, c.level)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Decompress reverses Compress.
//
// Returns nil for empty input and ErrBrotliCorrupt if the prefix is missing
// or does not match the decoded length.
func (c BrotliCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) < brotliSizePrefix {
		return nil, ErrBrotliCorrupt
	}

	size := binary.LittleEndian.Uint32(data)
	if size >= maxBrotliStream {
		return nil, ErrBrotliCorrupt
	}

	r := brotli.NewReader(bytes.NewReader(data[brotliSizePrefix:]))
	out := bytes.NewBuffer(make([]byte, 0, size))
	if _, err := io.Copy(out, io.LimitReader(r, int64(size)+1)); err != nil {
		return nil, fmt.Errorf("brotli decompression failed: %w", err)
	}
	if out.Len() != int(size) {
		return nil, ErrBrotliCorrupt
	}

	return out.Bytes(), nil
}
