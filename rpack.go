package rpack

import (
	"errors"
	"strings"

	"github.com/meigma/rpack/internal/codec"
	"github.com/meigma/rpack/internal/index"
)

// magic identifies the container format and version.
var magic = []byte("RPACK01")

// headerLen is the fixed prefix before the compressed index block:
// the magic token plus the 4-byte index length.
const headerLen = 7 + 4

// Compression identifies the compression algorithm used for an entry.
type Compression = codec.Method

// Supported compression methods.
const (
	CompressionNone = codec.None
	CompressionZlib = codec.Zlib
	CompressionLzma = codec.Lzma
	CompressionZstd = codec.Zstd
)

// DefaultLevel selects each method's default compression level.
const DefaultLevel = codec.DefaultLevel

// Entry is the metadata record for one packed file.
type Entry = index.Entry

// Sentinel errors.
var (
	// ErrInvalidConfig is returned for an unrecognized compression method
	// or an out-of-range level.
	ErrInvalidConfig = codec.ErrInvalidConfig

	// ErrCorruptData is returned when an entry's stored bytes are
	// structurally invalid for its recorded compression method.
	ErrCorruptData = codec.ErrCorruptData

	// ErrCorruptIndex is returned when the container's metadata block is
	// malformed or truncated.
	ErrCorruptIndex = index.ErrCorruptIndex

	// ErrAmbiguousPath is returned when a path would be both a file and a
	// directory.
	ErrAmbiguousPath = index.ErrAmbiguousPath

	// ErrBadMagic is returned when a container does not start with the
	// expected magic byte sequence.
	ErrBadMagic = errors.New("rpack: bad magic byte sequence")

	// ErrNotFound is returned when a path is absent from the pack.
	ErrNotFound = errors.New("rpack: not found")

	// ErrIsDirectory is returned when file data is requested for a path
	// that only exists as a directory.
	ErrIsDirectory = errors.New("rpack: is a directory")

	// ErrHashMismatch is returned when a verified read does not match the
	// entry's recorded digest.
	ErrHashMismatch = errors.New("rpack: hash verification failed")

	// ErrClosed is returned by operations on a closed pack.
	ErrClosed = errors.New("rpack: pack is closed")
)

// ParseCompression converts a method tag (e.g. "zlib") to a Compression,
// rejecting unrecognized tags with ErrInvalidConfig.
func ParseCompression(s string) (Compression, error) {
	return codec.Parse(s)
}

// CompressionMethods returns the recognized method tags in a fixed order.
func CompressionMethods() []Compression {
	return codec.Methods()
}

// NormalizePath converts a user-provided path to the pack's logical form:
// forward slashes, no leading or trailing separators, no empty segments.
// The root directory is the empty string; "." and "/" normalize to it.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.Trim(p, "/")
	if p == "" || p == "." {
		return ""
	}
	parts := strings.Split(p, "/")
	out := parts[:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, "/")
}
