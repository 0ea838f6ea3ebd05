package compress

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/rlez/format"
)

// lz4CompressorPool pools lz4.Compressor instances; each holds a hash table
// that is expensive to allocate per call.
var lz4CompressorPool = sync.Pool{
	New: func() any {
		return &lz4.Compressor{}
	},
}

// lz4SizePrefix is the length of the little-endian uncompressed size written
// before an LZ4 block.
const lz4SizePrefix = 4

// maxLZ4Stream bounds the size prefix accepted by Decompress.
const maxLZ4Stream = 1 << 31

// ErrLZ4Corrupt is returned for LZ4 input that is too short or whose size prefix disagrees with the block.
var ErrLZ4Corrupt = errors.New("lz4: corrupt block")

// LZ4Compressor wraps a stream as a size-prefixed LZ4 block.
type LZ4Compressor struct{}

var _ Codec = (*LZ4Compressor)(nil)

// NewLZ4Compressor creates a new LZ4 compressor.
func NewLZ4Compressor() LZ4Compressor {
	return LZ4Compressor{}
}

// Type implements Codec.
func (c LZ4Compressor) Type() format.CompressionType {
	return format.CompressionLZ4
}

// Compress compresses data into a 4 byte size prefix followed by an LZ4 block.
//
// Returns nil for empty input.
func (c LZ4Compressor) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) >= maxLZ4Stream {
		return nil, fmt.Errorf("lz4: input of %d bytes is too large", len(data))
	}

	dst := make([]byte, lz4SizePrefix+lz4.CompressBlockBound(len(data)))
	binary.LittleEndian.PutUint32(dst, uint32(len(data)))

	lc, _ := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(lc)

	n, err := lc.CompressBlock(data, dst[lz4SizePrefix:])
	if err != nil {
		return nil, err
	}

	return dst[:lz4SizePrefix+n], nil
}

// Decompress reverses Compress.
//
// Returns nil for empty input and ErrLZ4Corrupt if the prefix is missing or
// does not match the decoded length.
func (c LZ4Compressor) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) < lz4SizePrefix {
		return nil, ErrLZ4Corrupt
	}

	size := binary.LittleEndian.Uint32(data)
	if size >= maxLZ4Stream {
		return nil, ErrLZ4Corrupt
	}

	buf := make([]byte, size)
	n, err := lz4.UncompressBlock(data[lz4SizePrefix:], buf)
	if err != nil {
		return nil, fmt.Errorf("lz4 decompression failed: %w", err)
	}
	if n != int(size) {
		return nil, ErrLZ4Corrupt
	}

	return buf, nil
}
