// Package codec implements the compression methods recognized by the pack
// format. Compress and Decompress are pure byte-buffer transforms with no
// shared state; the method set is closed and every dispatch point matches
// it exhaustively.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Sentinel errors.
var (
	// ErrInvalidConfig is returned for an unrecognized method or an
	// out-of-range compression level.
	ErrInvalidConfig = errors.New("rpack: invalid compression configuration")

	// ErrCorruptData is returned when compressed bytes are structurally
	// invalid for the claimed method.
	ErrCorruptData = errors.New("rpack: corrupt compressed data")
)

// Method identifies a compression algorithm. The zero value is not valid;
// methods are recorded per entry in the pack index.
type Method string

const (
	// None stores bytes unchanged.
	None Method = "none"

	// Zlib is DEFLATE inside zlib framing, levels 0-9.
	Zlib Method = "zlib"

	// Lzma is LZMA2 inside xz framing, preset levels 0-9.
	Lzma Method = "lzma"

	// Zstd is Zstandard, levels 1 (fastest) to 4 (best).
	Zstd Method = "zstd"
)

// DefaultLevel selects each method's default compression level.
const DefaultLevel = -1

// Valid reports whether m is a recognized method.
func (m Method) Valid() bool {
	switch m {
	case None, Zlib, Lzma, Zstd:
		return true
	default:
		return false
	}
}

func (m Method) String() string { return string(m) }

// Parse converts a method tag to a Method, rejecting unrecognized tags.
func Parse(s string) (Method, error) {
	m := Method(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: unknown method %q", ErrInvalidConfig, s)
	}
	return m, nil
}

// Methods returns the recognized method tags in a fixed order.
func Methods() []Method {
	return []Method{None, Zlib, Lzma, Zstd}
}

// lzmaDictCaps maps preset levels 0-9 to xz dictionary capacities,
// following the capacities used by the reference xz presets.
var lzmaDictCaps = [10]int{
	256 << 10, // 0
	1 << 20,   // 1
	2 << 20,   // 2
	4 << 20,   // 3
	4 << 20,   // 4
	8 << 20,   // 5
	8 << 20,   // 6
	16 << 20,  // 7
	32 << 20,  // 8
	64 << 20,  // 9
}

// CheckLevel validates level against the method's accepted range.
// DefaultLevel is accepted by every method; None ignores the level entirely.
func CheckLevel(m Method, level int) error {
	if level == DefaultLevel {
		if !m.Valid() {
			return fmt.Errorf("%w: unknown method %q", ErrInvalidConfig, m)
		}
		return nil
	}
	switch m {
	case None:
		return nil
	case Zlib, Lzma:
		if level < 0 || level > 9 {
			return fmt.Errorf("%w: %s level %d outside 0-9", ErrInvalidConfig, m, level)
		}
		return nil
	case Zstd:
		if level < 1 || level > 4 {
			return fmt.Errorf("%w: zstd level %d outside 1-4", ErrInvalidConfig, level)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown method %q", ErrInvalidConfig, m)
	}
}

// Compress transforms data with the given method and level.
func Compress(data []byte, m Method, level int) ([]byte, error) {
	if err := CheckLevel(m, level); err != nil {
		return nil, err
	}
	switch m {
	case None:
		return data, nil
	case Zlib:
		return zlibCompress(data, level)
	case Lzma:
		return lzmaCompress(data, level)
	case Zstd:
		return zstdCompress(data, level)
	default:
		return nil, fmt.Errorf("%w: unknown method %q", ErrInvalidConfig, m)
	}
}

// Decompress reverses Compress for the given method. Structurally invalid
// input yields ErrCorruptData.
func Decompress(data []byte, m Method) ([]byte, error) {
	switch m {
	case None:
		return data, nil
	case Zlib:
		return zlibDecompress(data)
	case Lzma:
		return lzmaDecompress(data)
	case Zstd:
		return zstdDecompress(data)
	default:
		return nil, fmt.Errorf("%w: unknown method %q", ErrInvalidConfig, m)
	}
}

func zlibCompress(data []byte, level int) ([]byte, error) {
	if level == DefaultLevel {
		level = zlib.DefaultCompression
	}
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func zlibDecompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	return out, nil
}

func lzmaCompress(data []byte, level int) ([]byte, error) {
	if level == DefaultLevel {
		level = 6
	}
	cfg := xz.WriterConfig{DictCap: lzmaDictCaps[level]}
	var buf bytes.Buffer
	w, err := cfg.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func lzmaDecompress(data []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	return out, nil
}

// zstdLevels maps levels 1-4 to the encoder speed presets.
var zstdLevels = [5]zstd.EncoderLevel{
	0: zstd.SpeedDefault, // unused
	1: zstd.SpeedFastest,
	2: zstd.SpeedDefault,
	3: zstd.SpeedBetterCompression,
	4: zstd.SpeedBestCompression,
}

func zstdCompress(data []byte, level int) ([]byte, error) {
	if level == DefaultLevel {
		level = 2
	}
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstdLevels[level]),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	out := enc.EncodeAll(data, nil)
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return out, nil
}

func zstdDecompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	return out, nil
}
