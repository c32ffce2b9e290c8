package rpack

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log/slog"
	"os"

	"github.com/meigma/rpack/internal/codec"
	"github.com/meigma/rpack/internal/index"
)

// Pack provides random access to the files in an opened container.
//
// A Pack holds one source handle and is not safe for concurrent use: each
// Get performs a positioned read that is not atomic with respect to other
// calls. Callers needing concurrency should open independent Packs.
type Pack struct {
	src      ByteSource
	closer   io.Closer
	idx      *index.Index
	vfs      *virtualFS
	dataBase int64
	logger   *slog.Logger
	closed   bool
}

// Open opens the container at path. When path does not exist relative to
// the working directory, it is also looked up next to the running
// executable (packaged deployments ship packs beside the binary).
//
// The index block is decompressed with the configured method (zlib unless
// WithCompression says otherwise); it must match the method the pack was
// built with.
func Open(path string, opts ...Option) (*Pack, error) {
	f, err := os.Open(resolvePath(path))
	if err != nil {
		return nil, err
	}
	src, err := newFileSource(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	p, err := OpenSource(src, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	p.closer = f
	return p, nil
}

// OpenSource opens a container from any random-access byte source, such as
// a bytes.Reader over an in-memory pack.
func OpenSource(src ByteSource, opts ...Option) (*Pack, error) {
	cfg := newConfig(opts)

	head := make([]byte, headerLen)
	if _, err := io.ReadFull(io.NewSectionReader(src, 0, headerLen), head); err != nil {
		return nil, fmt.Errorf("%w: truncated header", ErrBadMagic)
	}
	if !bytes.Equal(head[:len(magic)], magic) {
		return nil, ErrBadMagic
	}
	blockLen := int64(binary.LittleEndian.Uint32(head[len(magic):]))

	block := make([]byte, blockLen)
	if _, err := io.ReadFull(io.NewSectionReader(src, headerLen, blockLen), block); err != nil {
		return nil, fmt.Errorf("%w: truncated index block", ErrCorruptIndex)
	}
	rawIndex, err := codec.Decompress(block, cfg.method)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress index block: %w", ErrCorruptIndex, err)
	}
	idx, err := index.Decode(rawIndex)
	if err != nil {
		return nil, err
	}
	vfs, err := buildVFS(idx)
	if err != nil {
		return nil, err
	}

	cfg.log().Debug("pack opened", "entries", idx.Len(), "data_base", headerLen+blockLen)
	return &Pack{
		src:      src,
		idx:      idx,
		vfs:      vfs,
		dataBase: headerLen + blockLen,
		logger:   cfg.logger,
	}, nil
}

// log returns the logger, falling back to a discard logger if nil.
func (p *Pack) log() *slog.Logger {
	if p.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.logger
}

// Get returns the decompressed contents of the entry at path. Every call
// re-reads and re-decompresses the stored span; callers needing repeated
// access should cache externally.
func (p *Pack) Get(path string, opts ...GetOption) ([]byte, error) {
	if p.closed {
		return nil, ErrClosed
	}
	var cfg getConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	path = NormalizePath(path)
	e, ok := p.idx.Lookup(path)
	if !ok {
		if p.vfs.isDir(path) {
			return nil, &fs.PathError{Op: "get", Path: path, Err: ErrIsDirectory}
		}
		return nil, &fs.PathError{Op: "get", Path: path, Err: ErrNotFound}
	}

	packed := make([]byte, e.SizeCompressed)
	section := io.NewSectionReader(p.src, p.dataBase+int64(e.Offset), int64(e.SizeCompressed))
	if _, err := io.ReadFull(section, packed); err != nil {
		return nil, &fs.PathError{Op: "get", Path: path, Err: fmt.Errorf("%w: short data section", ErrCorruptData)}
	}

	data, err := codec.Decompress(packed, e.Compression)
	if err != nil {
		return nil, &fs.PathError{Op: "get", Path: path, Err: err}
	}

	if cfg.verify {
		verifier := e.Hash.Verifier()
		if _, err := verifier.Write(data); err != nil {
			return nil, &fs.PathError{Op: "get", Path: path, Err: err}
		}
		if !verifier.Verified() {
			return nil, &fs.PathError{Op: "get", Path: path, Err: ErrHashMismatch}
		}
	}
	return data, nil
}

// Exists reports whether path names a file or directory in the pack.
// Structural queries resolve through the derived directory view and touch
// no file data.
func (p *Pack) Exists(path string) (bool, error) {
	if p.closed {
		return false, ErrClosed
	}
	return p.vfs.exists(NormalizePath(path)), nil
}

// IsFile reports whether path names a file entry.
func (p *Pack) IsFile(path string) (bool, error) {
	if p.closed {
		return false, ErrClosed
	}
	return p.vfs.isFile(NormalizePath(path)), nil
}

// IsDir reports whether path names a directory. The root (empty string,
// ".", or "/") is always a directory.
func (p *Pack) IsDir(path string) (bool, error) {
	if p.closed {
		return false, ErrClosed
	}
	return p.vfs.isDir(NormalizePath(path)), nil
}

// List returns the immediate child names of a directory, sorted lexically.
// The names are bare, not full paths. Listing the root is "" (or "." or
// "/"). An unknown directory fails with ErrNotFound.
func (p *Pack) List(dir string) ([]string, error) {
	if p.closed {
		return nil, ErrClosed
	}
	names, err := p.vfs.list(NormalizePath(dir))
	if err != nil {
		return nil, &fs.PathError{Op: "list", Path: dir, Err: err}
	}
	return names, nil
}

// Entry returns the metadata record for the entry at path.
func (p *Pack) Entry(path string) (Entry, bool) {
	if p.closed {
		return Entry{}, false
	}
	return p.idx.Lookup(NormalizePath(path))
}

// Entries iterates over all entries in data-section order.
func (p *Pack) Entries() iter.Seq[Entry] {
	if p.closed {
		return func(func(Entry) bool) {}
	}
	return p.idx.Entries()
}

// Len returns the number of entries in the pack.
func (p *Pack) Len() int {
	if p.closed {
		return 0
	}
	return p.idx.Len()
}

// Close releases the source handle and the derived directory view.
// Subsequent operations fail with ErrClosed.
func (p *Pack) Close() error {
	if p.closed {
		return ErrClosed
	}
	p.closed = true
	p.vfs = nil
	p.src = nil
	if p.closer != nil {
		err := p.closer.Close()
		p.closer = nil
		return err
	}
	return nil
}
