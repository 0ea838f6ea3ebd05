// Package compress provides optional outer codecs for rlez output.
//
// The run-length stream is the product of rlez. With format.CompressionNone,
// the default, the stream is written exactly as encoded. Any other codec wraps
// the finished stream as a whole; the RLE pairs inside are unchanged.
//
// # Supported Algorithms
//
//   - None: No compression, bytes are passed through
//   - Zstd: klauspost/compress/zstd, or valyala/gozstd when built with cgo
//   - S2: klauspost/compress/s2 block format
//   - LZ4: pierrec/lz4 block format
//   - Snappy: golang/snappy block format
//   - Brotli: andybalholm/brotli stream
//
// Example:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	wrapped, err := codec.Compress(stream)
//
// # Thread Safety
//
// All codec implementations are safe for concurrent use. Pooled encoder state
// is obtained per call.
package compress
