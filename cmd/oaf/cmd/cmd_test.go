package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), "oaf %v\n%s", args, buf.String())
	return buf.String()
}

func TestPackListInfoUnpackFlow(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("alpha"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "sub", "b.txt"), []byte("beta"), 0o644))

	out := filepath.Join(t.TempDir(), "src.oaf")
	execute(t, "pack", src, "-o", out)

	listing := execute(t, "list", out)
	assert.Contains(t, listing, "a.txt")
	assert.Contains(t, listing, "sub/b.txt")
	assert.Contains(t, listing, "directory")

	info := execute(t, "info", out)
	assert.Contains(t, info, "entries:         3")
	assert.Contains(t, info, "digest:          sha256:")

	dest := t.TempDir()
	execute(t, "unpack", out, "-C", dest)
	got, err := os.ReadFile(filepath.Join(dest, "sub", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("beta"), got)

	// Packing with --zstd wraps the file; reads un-wrap transparently.
	zout := filepath.Join(t.TempDir(), "src.oaf.zst")
	execute(t, "pack", src, "-o", zout, "--zstd")

	raw, err := os.ReadFile(zout)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(raw, zstdMagic))

	listing = execute(t, "list", zout)
	assert.Contains(t, listing, "a.txt")
}
