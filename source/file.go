package source

import (
	"bufio"
	"bytes"
	"context"
	"os"
)

const defaultBufferSize = 64 * 1024

// DirectOpener reads a whole file with a single os.ReadFile call.
type DirectOpener struct{}

var _ Opener = DirectOpener{}

// Open implements Opener.
func (DirectOpener) Open(_ context.Context, name string) (Buffer, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, openError(name, err)
	}

	return memBuffer(data), nil
}

// BufferedOpener reads a file through a bufio.Reader of Size bytes.
type BufferedOpener struct {
	Size int
}

var _ Opener = BufferedOpener{}

// Open implements Opener.
func (o BufferedOpener) Open(_ context.Context, name string) (Buffer, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, openError(name, err)
	}
	defer f.Close()

	size := o.Size
	if size <= 0 {
		size = defaultBufferSize
	}

	var buf bytes.Buffer
	if fi, err := f.Stat(); err == nil && fi.Size() > 0 {
		buf.Grow(int(fi.Size()))
	}

	if _, err := buf.ReadFrom(bufio.NewReaderSize(f, size)); err != nil {
		return nil, openError(name, err)
	}

	return memBuffer(buf.Bytes()), nil
}
