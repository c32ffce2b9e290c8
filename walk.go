package rpack

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File names one input to pack: a filesystem source and the logical path
// it is stored under. An empty Path defaults to the source's basename.
type File struct {
	Source string
	Path   string
}

// collectInput enumerates the files to pack from a root directory or a
// single file. Directory walks are recursive and lexical, so repeated
// builds from unchanged input enumerate identically. Paths are relative to
// the root and forward-slash-separated regardless of host separator.
func collectInput(input string) ([]File, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("rpack: read source: %w", err)
	}
	if !info.IsDir() {
		return []File{{Source: input, Path: filepath.Base(input)}}, nil
	}

	var files []File
	err = fs.WalkDir(os.DirFS(input), ".", func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("rpack: read source: %w", walkErr)
		}
		if d.IsDir() || !d.Type().IsRegular() {
			// Symlinks and specials are not packed.
			return nil
		}
		files = append(files, File{
			Source: filepath.Join(input, filepath.FromSlash(p)),
			Path:   p,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// normalizeFiles fills default logical paths and normalizes them.
func normalizeFiles(in []File) ([]File, error) {
	out := make([]File, 0, len(in))
	for _, f := range in {
		logical := f.Path
		if logical == "" {
			logical = filepath.Base(f.Source)
		}
		logical = NormalizePath(logical)
		if logical == "" {
			return nil, fmt.Errorf("%w: empty logical path for source %q", ErrInvalidConfig, f.Source)
		}
		out = append(out, File{Source: f.Source, Path: logical})
	}
	return out, nil
}
