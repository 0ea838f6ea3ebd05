package compress

import (
	"github.com/golang/snappy"

	"github.com/arloliu/rlez/format"
)

// SnappyCompressor wraps a stream as a Snappy block.
type SnappyCompressor struct{}

var _ Codec = (*SnappyCompressor)(nil)

// NewSnappyCompressor creates a new Snappy compressor.
func NewSnappyCompressor() SnappyCompressor {
	return SnappyCompressor{}
}

// Type implements Codec.
func (c SnappyCompressor) Type() format.CompressionType {
	return format.CompressionSnappy
}

// Compress compresses the input data using Snappy block encoding.
func (c SnappyCompressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return snappy.Encode(nil, data), nil
}

// Decompress decompresses a Snappy block.
func (c SnappyCompressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return snappy.Decode(nil, data)
}
