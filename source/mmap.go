package source

import (
	"context"
	"os"

	"github.com/edsrzf/mmap-go"
)

// MmapOpener maps a file read-only into memory. The mapping is released by
// Buffer.Close. Empty files are not mapped.
type MmapOpener struct{}

var _ Opener = MmapOpener{}

// Open implements Opener.
func (MmapOpener) Open(_ context.Context, name string) (Buffer, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, openError(name, err)
	}
	// the mapping stays valid after the descriptor is closed
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, openError(name, err)
	}
	if fi.Size() == 0 {
		return memBuffer(nil), nil
	}

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, openError(name, err)
	}

	return &mappedBuffer{m: m}, nil
}

type mappedBuffer struct {
	m mmap.MMap
}

func (b *mappedBuffer) Bytes() []byte {
	return b.m
}

func (b *mappedBuffer) Close() error {
	if b.m == nil {
		return nil
	}
	err := b.m.Unmap()
	b.m = nil

	return err
}
