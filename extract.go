package rpack

import (
	"fmt"
	"os"
	"path/filepath"
)

// ExtractAll materializes every entry beneath destDir, creating parent
// directories as needed. Each file is written to a temp file and renamed
// into place, so an interrupted extraction leaves no partial files.
// Entry paths are validated at open time, so they cannot escape destDir.
func (p *Pack) ExtractAll(destDir string) error {
	if p.closed {
		return ErrClosed
	}
	for _, path := range p.idx.Paths() {
		data, err := p.Get(path)
		if err != nil {
			return err
		}
		target := filepath.Join(destDir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
			return fmt.Errorf("create directory for %s: %w", path, err)
		}
		if err := writeFileAtomic(target, data); err != nil {
			return fmt.Errorf("extract %s: %w", path, err)
		}
		p.log().Debug("extracted file", "path", path, "size", len(data))
	}
	return nil
}

// writeFileAtomic writes data to a temp file then renames to target,
// ensuring atomic replacement of the target file.
func writeFileAtomic(target string, data []byte) error {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, ".rpack-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
