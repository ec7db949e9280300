package snapshot

import (
	"context"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treekv/treekv/alloc"
	"github.com/treekv/treekv/blobstore"
	"github.com/treekv/treekv/model"
	"github.com/treekv/treekv/resource"
	"github.com/treekv/treekv/store"
)

// buildTree writes a small three-node tree (root 10, left 5, right 15)
// directly into a fresh store/allocator pair.
func buildTree(t *testing.T) Tree {
	t.Helper()
	ctx := context.Background()

	st := store.NewFlat()
	al := alloc.New()

	root, err := al.Request()
	require.NoError(t, err)
	left, err := al.Request()
	require.NoError(t, err)
	right, err := al.Request()
	require.NoError(t, err)
	al.MarkReady()

	p, _ := model.PayloadFromString("root")
	require.NoError(t, st.WriteNode(ctx, root, model.Node{
		Token: 10, Payload: p,
		Left: left, Right: right,
		HasLeft: true, HasRight: true,
	}))
	require.NoError(t, st.WriteNode(ctx, left, model.Node{
		Token: 5, Parent: root, HasParent: true,
	}))
	require.NoError(t, st.WriteNode(ctx, right, model.Node{
		Token: 15, Parent: root, HasParent: true,
	}))

	return Tree{Store: st, Alloc: al, Root: root, Ready: true}
}

func TestExportImportRoundtrip(t *testing.T) {
	for _, ct := range []CompressionType{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(ctName(ct), func(t *testing.T) {
			ctx := context.Background()
			bs := blobstore.NewMemoryStore()
			src := buildTree(t)

			require.NoError(t, Export(ctx, bs, "snap", src, func(o *Options) {
				o.Compression = ct
			}))

			dst := store.NewFlat()
			dal := alloc.New()
			root, ready, err := Import(ctx, bs, "snap", dst, dal)
			require.NoError(t, err)
			assert.True(t, ready)
			assert.Equal(t, src.Root, root)

			stats := dal.Stats()
			assert.Equal(t, uint64(3), stats.Live)
			assert.Equal(t, uint64(3), stats.Frontier)
			assert.True(t, stats.Ready)

			for addr := model.Address(0); addr < 3; addr++ {
				want, err := src.Store.ReadNode(ctx, addr)
				require.NoError(t, err)
				got, err := dst.ReadNode(ctx, addr)
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}
		})
	}
}

func ctName(ct CompressionType) string {
	switch ct {
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return "none"
	}
}

func TestExportSkipsFreedSlots(t *testing.T) {
	ctx := context.Background()
	src := buildTree(t)

	// Free the left child; the snapshot must hold the remaining two nodes
	// and the import must leave address 1 reusable.
	src.Alloc.Free(1, false)

	bs := blobstore.NewMemoryStore()
	require.NoError(t, Export(ctx, bs, "snap", src))

	dst := store.NewFlat()
	dal := alloc.New()
	_, _, err := Import(ctx, bs, "snap", dst, dal)
	require.NoError(t, err)

	stats := dal.Stats()
	assert.Equal(t, uint64(2), stats.Live)
	assert.Equal(t, uint64(3), stats.Frontier)
	assert.True(t, dal.IsFree(1))

	addr, err := dal.Request()
	require.NoError(t, err)
	assert.Equal(t, model.Address(1), addr)
}

func TestExportEmptyTree(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()

	src := Tree{Store: store.NewFlat(), Alloc: alloc.New()}
	require.NoError(t, Export(ctx, bs, "empty", src))

	dal := alloc.New()
	_, ready, err := Import(ctx, bs, "empty", store.NewFlat(), dal)
	require.NoError(t, err)
	assert.False(t, ready)
	assert.Equal(t, uint64(0), dal.Stats().Live)
}

func TestImportMissingBlob(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()

	_, _, err := Import(ctx, bs, "nope", store.NewFlat(), alloc.New())
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestImportRejectsCorruptedBody(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	require.NoError(t, Export(ctx, bs, "snap", buildTree(t), func(o *Options) {
		o.Compression = CompressionNone
	}))

	corruptBlob(t, bs, "snap", func(data []byte) {
		data[headerSize] ^= 0xFF
	})

	_, _, err := Import(ctx, bs, "snap", store.NewFlat(), alloc.New())
	assert.ErrorIs(t, err, ErrChecksum)
}

func TestImportRejectsBadMagic(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	require.NoError(t, Export(ctx, bs, "snap", buildTree(t)))

	corruptBlob(t, bs, "snap", func(data []byte) {
		binary.LittleEndian.PutUint32(data[0:4], 0xBADC0DE)
	})

	_, _, err := Import(ctx, bs, "snap", store.NewFlat(), alloc.New())
	assert.ErrorIs(t, err, ErrInvalidMagic)
}

func TestImportRejectsUnknownVersion(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	require.NoError(t, Export(ctx, bs, "snap", buildTree(t)))

	corruptBlob(t, bs, "snap", func(data []byte) {
		binary.LittleEndian.PutUint32(data[4:8], Version+1)
	})

	_, _, err := Import(ctx, bs, "snap", store.NewFlat(), alloc.New())
	assert.ErrorIs(t, err, ErrInvalidVersion)
}

func TestImportRejectsTruncatedBlob(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()
	require.NoError(t, Export(ctx, bs, "snap", buildTree(t), func(o *Options) {
		o.Compression = CompressionNone
	}))

	blob, err := bs.Open(ctx, "snap")
	require.NoError(t, err)
	data := make([]byte, blob.Size())
	_, err = blob.ReadAt(data, 0)
	require.NoError(t, err)
	require.NoError(t, blob.Close())

	w, err := bs.Create(ctx, "snap")
	require.NoError(t, err)
	_, err = w.Write(data[:len(data)-8])
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, _, err = Import(ctx, bs, "snap", store.NewFlat(), alloc.New())
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestExportRateLimited(t *testing.T) {
	ctx := context.Background()
	bs := blobstore.NewMemoryStore()

	// A generous budget: the export must pass through the limiter without
	// altering the output.
	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 10 << 20})
	require.NoError(t, Export(ctx, bs, "snap", buildTree(t), func(o *Options) {
		o.Resources = rc
	}))

	_, _, err := Import(ctx, bs, "snap", store.NewFlat(), alloc.New())
	require.NoError(t, err)
}

func corruptBlob(t *testing.T, bs *blobstore.MemoryStore, name string, mutate func([]byte)) {
	t.Helper()
	ctx := context.Background()

	blob, err := bs.Open(ctx, name)
	require.NoError(t, err)
	data := make([]byte, blob.Size())
	_, err = blob.ReadAt(data, 0)
	if err == io.EOF {
		err = nil
	}
	require.NoError(t, err)
	require.NoError(t, blob.Close())

	mutate(data)

	w, err := bs.Create(ctx, name)
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}
