package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/rlez/compress"
	"github.com/arloliu/rlez/format"
)

func writeInputs(t *testing.T, contents ...string) []string {
	t.Helper()
	dir := t.TempDir()
	names := make([]string, len(contents))
	for i, c := range contents {
		names[i] = filepath.Join(dir, string(rune('a'+i)))
		require.NoError(t, os.WriteFile(names[i], []byte(c), 0o600))
	}

	return names
}

func TestRun_Stdout(t *testing.T) {
	names := writeInputs(t, "aaaaabb", "bbcccd", "da")
	want := []byte{97, 5, 98, 4, 99, 3, 100, 2, 97, 1}

	for _, args := range [][]string{
		{},
		{"-j", "3", "-w", "2"},
		{"--jobs", "8", "--window", "1", "--read", "mmap", "--verify"},
		{"-j", "2", "-r", "buffered"},
	} {
		var stdout, stderr bytes.Buffer
		code := run(context.Background(), append(args, names...), &stdout, &stderr)
		require.Equal(t, exitOK, code, stderr.String())
		require.Equal(t, want, stdout.Bytes(), "args=%v", args)
		require.Contains(t, stderr.String(), "msg=encoded")
	}
}

func TestRun_OutputFileWithCodec(t *testing.T) {
	names := writeInputs(t, "xxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx", "y")
	out := filepath.Join(t.TempDir(), "out.rle.zst")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"-j", "2", "--codec", "zstd", "-o", out, "--log-format", "json"}, names...), &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())
	require.Zero(t, stdout.Len())
	require.Contains(t, stderr.String(), `"msg":"encoded"`)

	compressed, err := os.ReadFile(out)
	require.NoError(t, err)

	codec, err := compress.GetCodec(format.CompressionZstd)
	require.NoError(t, err)
	stream, err := codec.Decompress(compressed)
	require.NoError(t, err)
	require.Equal(t, []byte{'x', 47, 'y', 1}, stream)
}

func TestRun_Errors(t *testing.T) {
	names := writeInputs(t, "abc")

	cases := []struct {
		name string
		args []string
	}{
		{"no files", nil},
		{"bad jobs", append([]string{"-j", "0"}, names...)},
		{"bad window", append([]string{"-w", "0"}, names...)},
		{"bad codec", append([]string{"--codec", "gzip"}, names...)},
		{"bad read", append([]string{"-r", "async"}, names...)},
		{"unknown flag", append([]string{"--nope"}, names...)},
		{"missing file", append(names, filepath.Join(t.TempDir(), "missing"))},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tc.args, &stdout, &stderr)
			require.Equal(t, exitError, code)
			require.Zero(t, stdout.Len())
			require.NotZero(t, stderr.Len())
		})
	}
}

func TestRun_HelpAndVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.Equal(t, exitOK, run(context.Background(), []string{"-h"}, &stdout, &stderr))
	require.Contains(t, stderr.String(), "--jobs")

	stderr.Reset()
	require.Equal(t, exitOK, run(context.Background(), []string{"--version"}, &stdout, &stderr))
	require.Contains(t, stderr.String(), "rlez v")
	require.Zero(t, stdout.Len())
}

func TestRun_Cancelled(t *testing.T) {
	names := writeInputs(t, "abc")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stdout, stderr bytes.Buffer
	require.Equal(t, exitError, run(ctx, names, &stdout, &stderr))
	require.Zero(t, stdout.Len())
}
