package blobstore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]BlobStore {
	t.Helper()
	local, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	return map[string]BlobStore{
		"memory": NewMemoryStore(),
		"local":  local,
	}
}

func TestCreateOpenRoundtrip(t *testing.T) {
	for name, bs := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			w, err := bs.Create(ctx, "blob")
			require.NoError(t, err)
			_, err = w.Write([]byte("hello "))
			require.NoError(t, err)
			_, err = w.Write([]byte("world"))
			require.NoError(t, err)
			require.NoError(t, w.Close())

			blob, err := bs.Open(ctx, "blob")
			require.NoError(t, err)
			defer blob.Close()

			assert.Equal(t, int64(11), blob.Size())

			buf := make([]byte, 5)
			_, err = blob.ReadAt(buf, 6)
			require.NoError(t, err)
			assert.Equal(t, "world", string(buf))
		})
	}
}

func TestOpenMissing(t *testing.T) {
	for name, bs := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := bs.Open(context.Background(), "missing")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestOverwrite(t *testing.T) {
	for name, bs := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			for _, content := range []string{"first", "second version"} {
				w, err := bs.Create(ctx, "blob")
				require.NoError(t, err)
				_, err = w.Write([]byte(content))
				require.NoError(t, err)
				require.NoError(t, w.Close())
			}

			blob, err := bs.Open(ctx, "blob")
			require.NoError(t, err)
			defer blob.Close()
			assert.Equal(t, int64(len("second version")), blob.Size())
		})
	}
}

func TestDelete(t *testing.T) {
	for name, bs := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			w, err := bs.Create(ctx, "blob")
			require.NoError(t, err)
			require.NoError(t, w.Close())

			require.NoError(t, bs.Delete(ctx, "blob"))
			_, err = bs.Open(ctx, "blob")
			assert.ErrorIs(t, err, ErrNotFound)

			// Deleting an absent blob is not an error.
			assert.NoError(t, bs.Delete(ctx, "blob"))
		})
	}
}

func TestList(t *testing.T) {
	for name, bs := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			for _, n := range []string{"snap/b", "snap/a", "other"} {
				w, err := bs.Create(ctx, n)
				require.NoError(t, err)
				_, err = w.Write([]byte("x"))
				require.NoError(t, err)
				require.NoError(t, w.Close())
			}

			names, err := bs.List(ctx, "snap/")
			require.NoError(t, err)
			assert.Equal(t, []string{"snap/a", "snap/b"}, names)

			all, err := bs.List(ctx, "")
			require.NoError(t, err)
			assert.Equal(t, []string{"other", "snap/a", "snap/b"}, all)
		})
	}
}

func TestLocalInFlightWriteNotVisible(t *testing.T) {
	ctx := context.Background()
	bs, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	w, err := bs.Create(ctx, "blob")
	require.NoError(t, err)
	_, err = w.Write([]byte("partial"))
	require.NoError(t, err)

	// Not committed yet: neither openable nor listed.
	_, err = bs.Open(ctx, "blob")
	assert.ErrorIs(t, err, ErrNotFound)
	names, err := bs.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, w.Close())
	blob, err := bs.Open(ctx, "blob")
	require.NoError(t, err)
	blob.Close()
}

func TestReadAtPastEnd(t *testing.T) {
	for name, bs := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			w, err := bs.Create(ctx, "blob")
			require.NoError(t, err)
			_, err = w.Write([]byte("abc"))
			require.NoError(t, err)
			require.NoError(t, w.Close())

			blob, err := bs.Open(ctx, "blob")
			require.NoError(t, err)
			defer blob.Close()

			buf := make([]byte, 10)
			n, err := blob.ReadAt(buf, 0)
			assert.Equal(t, 3, n)
			assert.ErrorIs(t, err, io.EOF)
		})
	}
}
