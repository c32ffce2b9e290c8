package rpack

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"

	"github.com/meigma/rpack/internal/codec"
	"github.com/meigma/rpack/internal/index"
)

// Build creates a pack at dest from the contents of input, which may be a
// directory (walked recursively in lexical order) or a single file.
//
// The build is all-or-nothing: payloads spool to a temporary file and the
// container is renamed into place only on full success, so dest is never
// left as a half-written pack. An unreadable source aborts the whole build
// with an error naming the path.
//
// An empty directory is legal and produces a minimal pack with an empty
// index and no data section.
func Build(input, dest string, opts ...Option) error {
	files, err := collectInput(input)
	if err != nil {
		return err
	}
	return buildPack(files, dest, newConfig(opts))
}

// BuildFiles creates a pack at dest from an explicit file list. Each
// file's logical path defaults to its source basename; callers may map
// paths explicitly via File.Path.
func BuildFiles(files []File, dest string, opts ...Option) error {
	resolved, err := normalizeFiles(files)
	if err != nil {
		return err
	}
	return buildPack(resolved, dest, newConfig(opts))
}

func buildPack(files []File, dest string, cfg *config) error {
	if err := codec.CheckLevel(cfg.method, cfg.level); err != nil {
		return err
	}
	logger := cfg.log()
	logger.Info("building pack", "dest", dest, "files", len(files), "compression", cfg.method.String())

	dir := filepath.Dir(dest)

	// Payloads spool here while offsets accumulate; the container header
	// cannot be written until the index is complete.
	data, err := os.CreateTemp(dir, ".rpack-data-*")
	if err != nil {
		return fmt.Errorf("create temp data file: %w", err)
	}
	defer func() {
		data.Close()
		os.Remove(data.Name())
	}()

	idx := index.New()
	var offset uint64
	for _, f := range files {
		raw, err := os.ReadFile(f.Source)
		if err != nil {
			return fmt.Errorf("rpack: read source: %w", err)
		}

		method := cfg.method
		if method != CompressionNone && cfg.skip != nil && cfg.skip(f.Path, int64(len(raw))) {
			method = CompressionNone
		}

		packed, err := codec.Compress(raw, method, cfg.level)
		if err != nil {
			return err
		}
		if _, err := data.Write(packed); err != nil {
			return fmt.Errorf("write data section: %w", err)
		}

		err = idx.Append(index.Entry{
			Path:           f.Path,
			Offset:         offset,
			SizeOriginal:   uint64(len(raw)),
			SizeCompressed: uint64(len(packed)),
			Hash:           digest.FromBytes(raw),
			Compression:    method,
		})
		if err != nil {
			return err
		}
		offset += uint64(len(packed))
		logger.Debug("packed file", "path", f.Path, "size", len(raw), "stored", len(packed), "compression", method.String())
	}

	// Catches file/directory prefix collisions before anything is written
	// to the destination.
	if err := idx.Validate(); err != nil {
		return err
	}

	rawIndex, err := idx.Encode()
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	packedIndex, err := codec.Compress(rawIndex, cfg.method, codec.DefaultLevel)
	if err != nil {
		return err
	}
	if len(packedIndex) > math.MaxUint32 {
		return fmt.Errorf("rpack: index block too large (%d bytes)", len(packedIndex))
	}

	if err := writePack(dest, packedIndex, data); err != nil {
		return err
	}
	logger.Info("pack written", "dest", dest, "entries", idx.Len(), "data_size", offset)
	return nil
}

// writePack assembles the final container in a temp file and renames it
// over dest, so dest either ends up fully valid or is not touched.
func writePack(dest string, packedIndex []byte, data *os.File) error {
	dir := filepath.Dir(dest)
	out, err := os.CreateTemp(dir, ".rpack-*")
	if err != nil {
		return fmt.Errorf("create temp pack file: %w", err)
	}
	outPath := out.Name()
	success := false
	defer func() {
		if !success {
			out.Close()
			os.Remove(outPath)
		}
	}()

	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(packedIndex)))
	if _, err := out.Write(magic); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := out.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := out.Write(packedIndex); err != nil {
		return fmt.Errorf("write index block: %w", err)
	}

	if _, err := data.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind data section: %w", err)
	}
	if _, err := io.Copy(out, data); err != nil {
		return fmt.Errorf("write data section: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("close pack file: %w", err)
	}
	if err := os.Rename(outPath, dest); err != nil {
		return fmt.Errorf("rename pack into place: %w", err)
	}
	success = true
	return nil
}
