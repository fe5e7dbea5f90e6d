package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenImage_readOnlyDirectory(t *testing.T) {
	raw, _, _ := writeImages(t)
	dir := filepath.Dir(raw)
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	before, err := os.ReadDir(dir)
	require.NoError(t, err)

	img, err := openImage(raw)
	require.NoError(t, err)
	p := make([]byte, 2)
	_, err = img.ReadAt(p, 510)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x55, 0xAA}, p)
	require.NoError(t, img.Close())

	after, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after))
	assert.NoFileExists(t, raw+".lock")
}

func TestOpenImage_locked(t *testing.T) {
	raw, _, _ := writeImages(t)

	other := flock.New(raw)
	locked, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, locked)

	_, err = openImage(raw)
	assert.ErrorContains(t, err, "locked by another process")

	require.NoError(t, other.Unlock())
	img, err := openImage(raw)
	require.NoError(t, err)
	require.NoError(t, img.Close())
}
