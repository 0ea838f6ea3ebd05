// Package format defines the wire constants and enumerations shared by the
// rlez packages.
//
// An encoded stream is a flat sequence of (symbol, count) pairs: one symbol
// byte immediately followed by one count byte. There is no header, no length
// prefix and no trailing delimiter.
package format

import (
	"fmt"
	"strings"
)

const (
	// MaxRunCount is the largest count a single run can carry. Longer runs are
	// split into saturated runs of MaxRunCount followed by the remainder.
	MaxRunCount = 255

	// PairSize is the number of bytes one run occupies in an encoded stream.
	PairSize = 2
)

type (
	// CompressionType selects the outer codec applied to an encoded stream.
	CompressionType uint8
	// ReadStrategy selects how local input files are read.
	ReadStrategy uint8
)

const (
	CompressionNone   CompressionType = 0x1 // CompressionNone writes the RLE stream unchanged.
	CompressionZstd   CompressionType = 0x2 // CompressionZstd wraps the stream with Zstandard.
	CompressionS2     CompressionType = 0x3 // CompressionS2 wraps the stream with S2.
	CompressionLZ4    CompressionType = 0x4 // CompressionLZ4 wraps the stream with an LZ4 block.
	CompressionSnappy CompressionType = 0x5 // CompressionSnappy wraps the stream with Snappy.
	CompressionBrotli CompressionType = 0x6 // CompressionBrotli wraps the stream with Brotli.

	ReadDirect   ReadStrategy = 0x1 // ReadDirect reads a whole file with a single call.
	ReadBuffered ReadStrategy = 0x2 // ReadBuffered reads a file through a buffered reader.
	ReadMmap     ReadStrategy = 0x3 // ReadMmap maps a file read-only into memory.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionSnappy:
		return "Snappy"
	case CompressionBrotli:
		return "Brotli"
	default:
		return "Unknown"
	}
}

func (r ReadStrategy) String() string {
	switch r {
	case ReadDirect:
		return "Direct"
	case ReadBuffered:
		return "Buffered"
	case ReadMmap:
		return "Mmap"
	default:
		return "Unknown"
	}
}

// ParseCompressionType parses a case-insensitive codec name such as "zstd".
func ParseCompressionType(s string) (CompressionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "s2":
		return CompressionS2, nil
	case "lz4":
		return CompressionLZ4, nil
	case "snappy":
		return CompressionSnappy, nil
	case "brotli":
		return CompressionBrotli, nil
	default:
		return 0, fmt.Errorf("unknown compression %q", s)
	}
}

// ParseReadStrategy parses a case-insensitive read strategy name such as "mmap".
func ParseReadStrategy(s string) (ReadStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "direct":
		return ReadDirect, nil
	case "buffered":
		return ReadBuffered, nil
	case "mmap":
		return ReadMmap, nil
	default:
		return 0, fmt.Errorf("unknown read strategy %q", s)
	}
}
