package rpack

import (
	"fmt"
	"io"
	"os"
)

// ByteSource provides random access to a container's bytes.
//
// *os.File wrapped by Open satisfies it; bytes.Reader satisfies it
// directly for in-memory packs.
type ByteSource interface {
	io.ReaderAt
	Size() int64
}

// fileSource wraps *os.File to implement ByteSource.
// os.File has ReadAt but not Size, so the size is cached at construction.
type fileSource struct {
	file *os.File
	size int64
}

func newFileSource(f *os.File) (*fileSource, error) {
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat pack file: %w", err)
	}
	return &fileSource{file: f, size: info.Size()}, nil
}

func (fs *fileSource) ReadAt(p []byte, off int64) (int, error) {
	return fs.file.ReadAt(p, off)
}

func (fs *fileSource) Size() int64 {
	return fs.size
}

var _ ByteSource = (*fileSource)(nil)
