package compress

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rlez/format"
)

var allTypes = []format.CompressionType{
	format.CompressionNone,
	format.CompressionZstd,
	format.CompressionS2,
	format.CompressionLZ4,
	format.CompressionSnappy,
	format.CompressionBrotli,
}

// rleLikeStream mimics an encoded stream: short runs over a small alphabet.
func rleLikeStream(n int) []byte {
	out := make([]byte, 0, n)
	for i := 0; len(out) < n; i++ {
		out = append(out, byte('a'+i%5), byte(1+i%13))
	}

	return out[:n]
}

func TestCodec_RoundTrip(t *testing.T) {
	inputs := map[string][]byte{
		"small":  []byte{97, 5, 98, 4, 99, 3, 100, 2, 97, 1},
		"medium": rleLikeStream(4096),
		"large":  rleLikeStream(1 << 20),
	}

	for _, ct := range allTypes {
		codec, err := CreateCodec(ct, "test")
		require.NoError(t, err)
		require.Equal(t, ct, codec.Type())

		for name, data := range inputs {
			t.Run(ct.String()+"/"+name, func(t *testing.T) {
				compressed, err := codec.Compress(data)
				require.NoError(t, err)

				decompressed, err := codec.Decompress(compressed)
				require.NoError(t, err)
				require.Equal(t, data, decompressed)
			})
		}
	}
}

func TestCodec_EmptyInput(t *testing.T) {
	for _, ct := range allTypes {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			compressed, err := codec.Compress(nil)
			require.NoError(t, err)
			require.Empty(t, compressed)

			decompressed, err := codec.Decompress(nil)
			require.NoError(t, err)
			require.Empty(t, decompressed)
		})
	}
}

func TestCodec_CompressesRepetitiveStreams(t *testing.T) {
	data := bytes.Repeat([]byte{'a', 255}, 50_000)

	for _, ct := range allTypes[1:] {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			compressed, err := codec.Compress(data)
			require.NoError(t, err)
			require.Less(t, len(compressed), len(data)/10)
		})
	}
}

func TestCodec_TruncatedInput(t *testing.T) {
	data := rleLikeStream(64 * 1024)

	for _, ct := range allTypes[1:] {
		t.Run(ct.String(), func(t *testing.T) {
			codec, err := GetCodec(ct)
			require.NoError(t, err)

			compressed, err := codec.Compress(data)
			require.NoError(t, err)

			_, err = codec.Decompress(compressed[:len(compressed)/2])
			require.Error(t, err)
		})
	}
}

func TestLZ4_ShortInput(t *testing.T) {
	_, err := NewLZ4Compressor().Decompress([]byte{1, 2})
	require.ErrorIs(t, err, ErrLZ4Corrupt)
}

func TestBrotli_RejectsCutStream(t *testing.T) {
	c := NewBrotliCompressor()
	data := rleLikeStream(64 * 1024)

	compressed, err := c.Compress(data)
	require.NoError(t, err)

	for _, n := range []int{1, brotliSizePrefix, len(compressed) / 2, len(compressed) - 1} {
		_, err := c.Decompress(compressed[:n])
		require.Error(t, err, "cut at %d of %d", n, len(compressed))
	}

	_, err = c.Decompress(compressed[:brotliSizePrefix-1])
	require.ErrorIs(t, err, ErrBrotliCorrupt)

	// a size prefix that disagrees with the payload
	tampered := append([]byte{}, compressed...)
	tampered[0]++
	_, err = c.Decompress(tampered)
	require.ErrorIs(t, err, ErrBrotliCorrupt)

	out, err := c.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, data, out)
}

func TestNoOp_SharesMemory(t *testing.T) {
	data := []byte{1, 2, 3}
	out, err := NewNoOpCompressor().Compress(data)
	require.NoError(t, err)
	require.Same(t, &data[0], &out[0])
}

func TestCreateCodec_Invalid(t *testing.T) {
	_, err := CreateCodec(format.CompressionType(0xFF), "output")
	require.EqualError(t, err, "invalid output compression: Unknown")

	_, err = GetCodec(format.CompressionType(0xFF))
	require.Error(t, err)
}

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteCompressed(t *testing.T) {
	data := rleLikeStream(1024)

	var buf bytes.Buffer
	n, err := WriteCompressed(&buf, NewNoOpCompressor(), data)
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), n)
	require.Equal(t, data, buf.Bytes())

	buf.Reset()
	codec := NewS2Compressor()
	n, err = WriteCompressed(&buf, codec, data)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)

	restored, err := codec.Decompress(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, data, restored)

	_, err = WriteCompressed(errWriter{}, codec, data)
	require.Error(t, err)
}

func BenchmarkCodecs(b *testing.B) {
	data := rleLikeStream(64 * 1024)

	for _, ct := range allTypes {
		codec, _ := GetCodec(ct)
		b.Run(ct.String(), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = codec.Compress(data)
			}
		})
	}
}
