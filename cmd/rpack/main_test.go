package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, out *bytes.Buffer, args ...string) error {
	t.Helper()
	// Package-level flag values persist across Execute calls.
	compression = "zlib"
	verbose = false
	if out != nil {
		rootCmd.SetOut(out)
		defer rootCmd.SetOut(nil)
	}
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestCreateListExtract(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "hello.txt"), []byte("Hello, World!"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "nested.txt"), []byte("nested"), 0o644))

	pack := filepath.Join(t.TempDir(), "out.rpack")
	require.NoError(t, runCLI(t, nil, "create", "-i", src, "-o", pack))
	require.FileExists(t, pack)

	var listing bytes.Buffer
	require.NoError(t, runCLI(t, &listing, "list", pack))
	assert.Contains(t, listing.String(), "hello.txt")
	assert.Contains(t, listing.String(), "sub/")
	assert.Contains(t, listing.String(), "nested.txt")

	out := t.TempDir()
	require.NoError(t, runCLI(t, nil, "extract", pack, "-o", out))

	got, err := os.ReadFile(filepath.Join(out, "hello.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("Hello, World!"), got)

	got, err = os.ReadFile(filepath.Join(out, "sub", "nested.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("nested"), got)
}

func TestCreateRejectsUnknownCompression(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "f.txt"), []byte("x"), 0o644))

	pack := filepath.Join(t.TempDir(), "out.rpack")
	err := runCLI(t, nil, "create", "-i", src, "-o", pack, "-c", "brotli")
	require.Error(t, err)
	assert.NoFileExists(t, pack)
}
