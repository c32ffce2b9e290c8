// Package index holds the pack's metadata model: the mapping from logical
// path to entry, its CBOR wire encoding, and the structural validation
// applied when a pack is opened.
//
// The index is built once by the encoder, serialized as the container's
// metadata block, and deserialized once at open time. It is immutable after
// load.
package index

import (
	"errors"
	"fmt"
	"iter"
	"sort"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/opencontainers/go-digest"

	"github.com/meigma/rpack/internal/codec"
)

// Sentinel errors.
var (
	// ErrCorruptIndex is returned when the serialized index is malformed:
	// missing fields, negative sizes, duplicate or invalid paths,
	// overlapping offsets.
	ErrCorruptIndex = errors.New("rpack: corrupt index")

	// ErrAmbiguousPath is returned when one entry's path is a strict prefix
	// of another's, so a name would be both a file and a directory.
	ErrAmbiguousPath = errors.New("rpack: path is both a file and a directory")
)

// Entry is the metadata record for one packed file.
type Entry struct {
	// Path is the normalized, forward-slash-separated logical path.
	Path string

	// Offset is the byte offset of the compressed payload relative to the
	// start of the data section.
	Offset uint64

	// SizeOriginal is the byte count before compression.
	SizeOriginal uint64

	// SizeCompressed is the byte count as stored. It may exceed
	// SizeOriginal for incompressible input.
	SizeCompressed uint64

	// Hash is the digest of the original uncompressed bytes.
	Hash digest.Digest

	// Compression is the method used for this entry.
	Compression codec.Method
}

// Index maps logical paths to entries. Paths are unique; iteration follows
// entry offset order, which is the encoder's insertion order.
type Index struct {
	entries map[string]Entry
	paths   []string
}

// New returns an empty index.
func New() *Index {
	return &Index{entries: make(map[string]Entry)}
}

// Append adds an entry. Paths must be unique.
func (x *Index) Append(e Entry) error {
	if _, ok := x.entries[e.Path]; ok {
		return fmt.Errorf("rpack: duplicate entry path %q", e.Path)
	}
	x.entries[e.Path] = e
	x.paths = append(x.paths, e.Path)
	return nil
}

// Lookup returns the entry for a path.
func (x *Index) Lookup(path string) (Entry, bool) {
	e, ok := x.entries[path]
	return e, ok
}

// Len returns the number of entries.
func (x *Index) Len() int {
	return len(x.entries)
}

// Paths returns the logical paths in entry offset order.
func (x *Index) Paths() []string {
	out := make([]string, len(x.paths))
	copy(out, x.paths)
	return out
}

// Entries iterates over entries in offset order.
func (x *Index) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, p := range x.paths {
			if !yield(x.entries[p]) {
				return
			}
		}
	}
}

// wireEntry is the CBOR record for one entry. Fields are pointers so that
// a missing field is distinguishable from a zero value, and sizes decode
// through int64 so negative values surface as corruption instead of
// wrapping around.
type wireEntry struct {
	Offset         *int64  `cbor:"offset"`
	SizeOriginal   *int64  `cbor:"size_original"`
	SizeCompressed *int64  `cbor:"size_compressed"`
	Hash           *string `cbor:"hash"`
	Compression    *string `cbor:"compression"`
}

var encMode = mustEncMode()

func mustEncMode() cbor.EncMode {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}

var decMode = mustDecMode()

func mustDecMode() cbor.DecMode {
	dm, err := cbor.DecOptions{DupMapKey: cbor.DupMapKeyEnforcedAPF}.DecMode()
	if err != nil {
		panic(err)
	}
	return dm
}

// Encode serializes the index as a canonical CBOR map keyed by path.
// Canonical encoding keeps repeated builds from unchanged input
// byte-identical.
func (x *Index) Encode() ([]byte, error) {
	wire := make(map[string]wireEntry, len(x.entries))
	for p, e := range x.entries {
		offset := int64(e.Offset)
		sizeOriginal := int64(e.SizeOriginal)
		sizeCompressed := int64(e.SizeCompressed)
		hash := string(e.Hash)
		compression := string(e.Compression)
		wire[p] = wireEntry{
			Offset:         &offset,
			SizeOriginal:   &sizeOriginal,
			SizeCompressed: &sizeCompressed,
			Hash:           &hash,
			Compression:    &compression,
		}
	}
	return encMode.Marshal(wire)
}

// Decode parses a serialized index and validates it structurally.
func Decode(data []byte) (*Index, error) {
	var wire map[string]wireEntry
	if err := decMode.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptIndex, err)
	}

	x := New()
	for path, w := range wire {
		e, err := entryFromWire(path, w)
		if err != nil {
			return nil, err
		}
		x.entries[path] = e
		x.paths = append(x.paths, path)
	}

	// Recover insertion order from offsets; paths break ties for
	// zero-length runs.
	sort.Slice(x.paths, func(i, j int) bool {
		a, b := x.entries[x.paths[i]], x.entries[x.paths[j]]
		if a.Offset != b.Offset {
			return a.Offset < b.Offset
		}
		return a.Path < b.Path
	})

	if err := x.Validate(); err != nil {
		return nil, err
	}
	return x, nil
}

func entryFromWire(path string, w wireEntry) (Entry, error) {
	if err := checkPath(path); err != nil {
		return Entry{}, err
	}
	if w.Offset == nil || w.SizeOriginal == nil || w.SizeCompressed == nil || w.Hash == nil || w.Compression == nil {
		return Entry{}, fmt.Errorf("%w: entry %q: missing field", ErrCorruptIndex, path)
	}
	if *w.Offset < 0 || *w.SizeOriginal < 0 || *w.SizeCompressed < 0 {
		return Entry{}, fmt.Errorf("%w: entry %q: negative size or offset", ErrCorruptIndex, path)
	}
	d := digest.Digest(*w.Hash)
	if err := d.Validate(); err != nil {
		return Entry{}, fmt.Errorf("%w: entry %q: bad hash: %v", ErrCorruptIndex, path, err)
	}
	m, err := codec.Parse(*w.Compression)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: entry %q: %w", ErrCorruptIndex, path, err)
	}
	return Entry{
		Path:           path,
		Offset:         uint64(*w.Offset),
		SizeOriginal:   uint64(*w.SizeOriginal),
		SizeCompressed: uint64(*w.SizeCompressed),
		Hash:           d,
		Compression:    m,
	}, nil
}

// checkPath rejects paths the virtual filesystem cannot represent and
// paths that could escape an extraction root.
func checkPath(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty entry path", ErrCorruptIndex)
	}
	if strings.HasPrefix(path, "/") || strings.HasSuffix(path, "/") {
		return fmt.Errorf("%w: entry %q: unnormalized path", ErrCorruptIndex, path)
	}
	for seg := range strings.SplitSeq(path, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return fmt.Errorf("%w: entry %q: invalid path segment", ErrCorruptIndex, path)
		}
	}
	return nil
}

// Validate checks the index invariants: offsets in entry order must be
// non-decreasing and non-overlapping, and no path may be a strict prefix
// of another.
func (x *Index) Validate() error {
	var end uint64
	for i, p := range x.paths {
		e := x.entries[p]
		if i > 0 && e.Offset < end {
			return fmt.Errorf("%w: entry %q: overlapping offsets", ErrCorruptIndex, p)
		}
		end = e.Offset + e.SizeCompressed
	}
	return x.checkPrefixCollisions()
}

// checkPrefixCollisions detects a file path that is also a directory prefix
// of another entry.
func (x *Index) checkPrefixCollisions() error {
	for _, p := range x.paths {
		dir := p
		for {
			i := strings.LastIndexByte(dir, '/')
			if i < 0 {
				break
			}
			dir = dir[:i]
			if _, ok := x.entries[dir]; ok {
				return fmt.Errorf("%w: %q vs %q", ErrAmbiguousPath, dir, p)
			}
		}
	}
	return nil
}
