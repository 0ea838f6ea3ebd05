package compress

import "github.com/arloliu/rlez/format"

// ZstdCompressor wraps a stream as a Zstandard frame.
//
// Builds with cgo and the gozstd tag use valyala/gozstd; every other build
// uses the pure Go klauspost/compress/zstd implementation. Both produce
// standard frames, so either side can read the other's output.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

// Type implements Codec.
func (c ZstdCompressor) Type() format.CompressionType {
	return format.CompressionZstd
}
