package aggregate

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rlez/encoding"
	"github.com/arloliu/rlez/internal/hash"
	"github.com/arloliu/rlez/source"
)

func encodeBuffers(t *testing.T, bufs [][]byte, opts ...Option) []byte {
	t.Helper()
	a, err := New(opts...)
	require.NoError(t, err)

	res, err := a.EncodeBuffers(context.Background(), bufs)
	require.NoError(t, err)
	t.Cleanup(res.Release)

	return res.Bytes()
}

func writeFiles(t *testing.T, contents ...string) []string {
	t.Helper()
	dir := t.TempDir()
	names := make([]string, len(contents))
	for i, c := range contents {
		names[i] = filepath.Join(dir, "in"+strconv.Itoa(i))
		require.NoError(t, os.WriteFile(names[i], []byte(c), 0o600))
	}

	return names
}

// randomRuns produces data with long runs over a small alphabet.
func randomRuns(rng *rand.Rand, n int) []byte {
	out := make([]byte, 0, n)
	for len(out) < n {
		sym := byte('a' + rng.Intn(3))
		l := 1 + rng.Intn(600)
		for j := 0; j < l && len(out) < n; j++ {
			out = append(out, sym)
		}
	}

	return out
}

func TestNew_Options(t *testing.T) {
	a, err := New()
	require.NoError(t, err)
	require.Equal(t, 1, a.Jobs())
	require.Equal(t, 4096, a.WindowSize())

	a, err = New(WithJobs(8), WithWindowSize(3))
	require.NoError(t, err)
	require.Equal(t, 8, a.Jobs())
	require.Equal(t, 3, a.WindowSize())
	require.Equal(t, 8, a.workers.Size())

	_, err = New(WithJobs(0))
	require.ErrorIs(t, err, ErrInvalidJobs)
	_, err = New(WithJobs(MaxJobs + 1))
	require.ErrorIs(t, err, ErrInvalidJobs)
	_, err = New(WithWindowSize(0))
	require.ErrorIs(t, err, ErrInvalidWindowSize)
	_, err = New(WithOpener(nil))
	require.Error(t, err)
}

func TestEncodeBuffers_ConcreteCases(t *testing.T) {
	cases := []struct {
		name   string
		inputs []string
		want   []byte
	}{
		{"single file", []string{"aaaaabbbbcccdda"}, []byte{97, 5, 98, 4, 99, 3, 100, 2, 97, 1}},
		{"split across files", []string{"aaaaabb", "bbcccd", "da"}, []byte{97, 5, 98, 4, 99, 3, 100, 2, 97, 1}},
		{"run continues across files", []string{"aa", "aa"}, []byte{'a', 4}},
		{"empty file in the middle", []string{"ab", "", "bc"}, []byte{'a', 1, 'b', 2, 'c', 1}},
		{"only empty files", []string{"", ""}, []byte{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bufs := make([][]byte, len(tc.inputs))
			for i, s := range tc.inputs {
				bufs[i] = []byte(s)
			}

			for _, jobs := range []int{1, 2, 3, 8} {
				got := encodeBuffers(t, bufs, WithJobs(jobs), WithWindowSize(2))
				require.Equal(t, tc.want, append([]byte{}, got...), "jobs=%d", jobs)
			}
		})
	}
}

func TestEncodeBuffers_Overflow(t *testing.T) {
	t.Run("256 bytes", func(t *testing.T) {
		data := bytes.Repeat([]byte{'x'}, 256)
		for _, jobs := range []int{1, 4} {
			got := encodeBuffers(t, [][]byte{data}, WithJobs(jobs), WithWindowSize(10))
			require.Equal(t, []byte{'x', 255, 'x', 1}, append([]byte{}, got...))
		}
	})

	t.Run("run spans files beyond 255", func(t *testing.T) {
		bufs := [][]byte{bytes.Repeat([]byte{'z'}, 200), bytes.Repeat([]byte{'z'}, 200)}
		for _, jobs := range []int{1, 3} {
			got := encodeBuffers(t, bufs, WithJobs(jobs), WithWindowSize(64))
			require.Equal(t, []byte{'z', 255, 'z', 145}, append([]byte{}, got...))
		}
	})
}

func TestEncodeBuffers_SerialParallelEquivalence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	bufs := [][]byte{
		randomRuns(rng, 5000),
		{},
		randomRuns(rng, 1),
		randomRuns(rng, 12345),
		bytes.Repeat([]byte{'b'}, 1000),
	}

	var concat []byte
	for _, b := range bufs {
		concat = append(concat, b...)
	}
	want, err := encoding.EncodeWindow(concat)
	require.NoError(t, err)

	for jobs := 1; jobs <= 8; jobs++ {
		for _, window := range []int{1, 7, 256, 4096} {
			got := encodeBuffers(t, bufs, WithJobs(jobs), WithWindowSize(window))
			require.Equal(t, []byte(want), append([]byte{}, got...), "jobs=%d window=%d", jobs, window)
		}
	}
}

func TestEncodeBuffers_Stats(t *testing.T) {
	a, err := New(WithJobs(2), WithWindowSize(4))
	require.NoError(t, err)

	res, err := a.EncodeBuffers(context.Background(), [][]byte{[]byte("aaaaabb"), []byte("bbcccd"), []byte("da")})
	require.NoError(t, err)
	defer res.Release()

	s := res.Stats
	require.Equal(t, 3, s.Files)
	require.Equal(t, int64(15), s.InputBytes)
	require.Equal(t, 2+2+1, s.Windows)
	require.Equal(t, 5, s.Runs)
	require.Equal(t, 10, s.OutputBytes)
	require.Equal(t, hash.Sum(res.Bytes()), s.Digest)
	require.InDelta(t, 10.0/15.0, s.Ratio(), 1e-9)

	require.Len(t, s.PerFile, 3)
	require.Equal(t, FileStats{Name: "buffer[0]", InputBytes: 7, Windows: 2, Runs: 2}, s.PerFile[0])
	require.Equal(t, FileStats{Name: "buffer[2]", InputBytes: 2, Windows: 1, Runs: 2}, s.PerFile[2])

	require.Zero(t, Stats{}.Ratio())
}

func TestEncodeBuffers_NoInputs(t *testing.T) {
	a, err := New()
	require.NoError(t, err)

	_, err = a.EncodeBuffers(context.Background(), nil)
	require.ErrorIs(t, err, ErrNoInputs)
	_, err = a.EncodeFiles(context.Background(), nil)
	require.ErrorIs(t, err, ErrNoInputs)
}

func TestEncodeBuffers_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, jobs := range []int{1, 4} {
		a, err := New(WithJobs(jobs))
		require.NoError(t, err)

		res, err := a.EncodeBuffers(ctx, [][]byte{[]byte("abc")})
		require.ErrorIs(t, err, context.Canceled)
		require.Nil(t, res)
	}
}

func TestEncodeFiles(t *testing.T) {
	names := writeFiles(t, "aaaaabb", "", "bbcccd", "da")
	want := []byte{97, 5, 98, 4, 99, 3, 100, 2, 97, 1}

	for _, jobs := range []int{1, 2, 5} {
		a, err := New(WithJobs(jobs), WithWindowSize(3))
		require.NoError(t, err)

		res, err := a.EncodeFiles(context.Background(), names)
		require.NoError(t, err)
		require.Equal(t, want, append([]byte{}, res.Bytes()...))
		require.Equal(t, names[0], res.Stats.PerFile[0].Name)
		require.Equal(t, 0, res.Stats.PerFile[1].Windows)

		var out bytes.Buffer
		n, err := res.WriteTo(&out)
		require.NoError(t, err)
		require.Equal(t, int64(len(want)), n)
		require.Equal(t, want, out.Bytes())
		res.Release()
	}
}

func TestEncodeFiles_OpenErrorIsFatal(t *testing.T) {
	names := writeFiles(t, "aa")
	names = append(names, filepath.Join(t.TempDir(), "missing"))

	a, err := New(WithJobs(2))
	require.NoError(t, err)

	res, err := a.EncodeFiles(context.Background(), names)
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Nil(t, res)
}

type closeTracker struct {
	data   []byte
	closed int
	err    error
}

func (c *closeTracker) Bytes() []byte { return c.data }
func (c *closeTracker) Close() error {
	c.closed++
	return c.err
}

func TestEncodeFiles_ClosesBuffers(t *testing.T) {
	errRelease := errors.New("unmap failed")
	bufs := map[string]*closeTracker{
		"a": {data: []byte("xx")},
		"b": {data: []byte("xy")},
		"c": {data: []byte("y"), err: errRelease},
	}
	opener := source.OpenerFunc(func(_ context.Context, name string) (source.Buffer, error) {
		return bufs[name], nil
	})

	a, err := New(WithOpener(opener), WithJobs(2), WithWindowSize(1))
	require.NoError(t, err)

	res, err := a.EncodeFiles(context.Background(), []string{"a", "b"})
	require.NoError(t, err)
	require.Equal(t, []byte{'x', 3, 'y', 1}, append([]byte{}, res.Bytes()...))
	res.Release()
	require.Equal(t, 1, bufs["a"].closed)
	require.Equal(t, 1, bufs["b"].closed)

	_, err = a.EncodeFiles(context.Background(), []string{"a", "c"})
	require.ErrorIs(t, err, errRelease)
	require.Equal(t, 1, bufs["c"].closed)
}

func TestEncodeBuffers_ConcurrentCallers(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	data := randomRuns(rng, 20000)
	want, err := encoding.EncodeWindow(data)
	require.NoError(t, err)

	a, err := New(WithJobs(4), WithWindowSize(333))
	require.NoError(t, err)

	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			res, err := a.EncodeBuffers(context.Background(), [][]byte{data})
			if err != nil {
				errs <- err
				return
			}
			defer res.Release()
			if !bytes.Equal(want, res.Bytes()) {
				errs <- errors.New("stream differs")
				return
			}
			errs <- nil
		}()
	}
	for i := 0; i < 8; i++ {
		require.NoError(t, <-errs)
	}
}

func BenchmarkEncodeBuffers(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	data := randomRuns(rng, 4<<20)

	for _, jobs := range []int{1, 2, 4, 8} {
		a, err := New(WithJobs(jobs), WithWindowSize(64<<10))
		require.NoError(b, err)

		b.Run("jobs="+strconv.Itoa(jobs), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			for b.Loop() {
				res, err := a.EncodeBuffers(context.Background(), [][]byte{data})
				if err != nil {
					b.Fatal(err)
				}
				res.Release()
			}
		})
	}
}
