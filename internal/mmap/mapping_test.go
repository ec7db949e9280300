package mmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRWRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")

	m, err := OpenRW(path, 4096)
	require.NoError(t, err)
	assert.Equal(t, 4096, m.Size())

	copy(m.Bytes(), "hello mmap")
	require.NoError(t, m.Sync())
	require.NoError(t, m.Close())

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, "hello mmap", string(r.Bytes()[:10]))
}

func TestOpenRWPreservesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("keepme"), 0o644))

	m, err := OpenRW(path, 64)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, "keepme", string(m.Bytes()[:6]))
}

func TestOpenRWInvalidSize(t *testing.T) {
	_, err := OpenRW(filepath.Join(t.TempDir(), "x"), 0)
	assert.ErrorIs(t, err, ErrInvalidSize)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestCloseIdempotent(t *testing.T) {
	m, err := OpenRW(filepath.Join(t.TempDir(), "data.bin"), 64)
	require.NoError(t, err)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	assert.Nil(t, m.Bytes())
	assert.ErrorIs(t, m.Sync(), ErrClosed)
	assert.ErrorIs(t, m.Advise(AccessRandom), ErrClosed)
}

func TestAdvise(t *testing.T) {
	m, err := OpenRW(filepath.Join(t.TempDir(), "data.bin"), 4096)
	require.NoError(t, err)
	defer m.Close()

	assert.NoError(t, m.Advise(AccessSequential))
	assert.NoError(t, m.Advise(AccessRandom))
	assert.NoError(t, m.Advise(AccessDefault))
}
