package rpack

import (
	"os"
	"path/filepath"
)

// resolvePath locates a pack file. A path that exists (or is absolute) is
// used as given; otherwise the directory of the running executable is
// tried, so packaged binaries find packs shipped beside them.
func resolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	exe, err := os.Executable()
	if err != nil {
		return path
	}
	candidate := filepath.Join(filepath.Dir(exe), path)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return path
}
