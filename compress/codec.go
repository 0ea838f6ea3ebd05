package compress

import (
	"fmt"
	"io"

	"github.com/arloliu/rlez/format"
)

// Compressor wraps a complete encoded stream.
//
// Memory management:
//   - Returned slice is owned by the caller unless documented otherwise
//   - Input slice is not modified
type Compressor interface {
	// Compress returns data wrapped by the codec.
	Compress(data []byte) ([]byte, error)
}

// Decompressor unwraps a stream produced by the matching Compressor.
//
// Thread Safety: Decompressor implementations must be safe for concurrent use.
type Decompressor interface {
	// Decompress returns the original stream or an error if data is corrupted
	// or was produced by a different codec.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions and reports which format.CompressionType it implements.
type Codec interface {
	Compressor
	Decompressor
	Type() format.CompressionType
}

// CreateCodec creates a new Codec for the specified compression type.
//
// Parameters:
//   - compressionType: Type of compression (None, Zstd, S2, LZ4, Snappy or Brotli)
//   - target: Description of target usage (for error messages)
//
// Returns:
//   - Codec: Codec instance for the specified type
//   - error: Invalid compression type error
func CreateCodec(compressionType format.CompressionType, target string) (Codec, error) {
	switch compressionType {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	case format.CompressionSnappy:
		return NewSnappyCompressor(), nil
	case format.CompressionBrotli:
		return NewBrotliCompressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s compression: %s", target, compressionType)
	}
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone:   NewNoOpCompressor(),
	format.CompressionZstd:   NewZstdCompressor(),
	format.CompressionS2:     NewS2Compressor(),
	format.CompressionLZ4:    NewLZ4Compressor(),
	format.CompressionSnappy: NewSnappyCompressor(),
	format.CompressionBrotli: NewBrotliCompressor(),
}

// GetCodec retrieves a built-in Codec for the specified compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

// WriteCompressed wraps data with codec and writes the result to w.
// It returns the number of bytes written.
func WriteCompressed(w io.Writer, codec Codec, data []byte) (int64, error) {
	out, err := codec.Compress(data)
	if err != nil {
		return 0, fmt.Errorf("%s compression failed: %w", codec.Type(), err)
	}

	n, err := w.Write(out)

	return int64(n), err
}
