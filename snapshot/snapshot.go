package snapshot

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/treekv/treekv/alloc"
	"github.com/treekv/treekv/blobstore"
	"github.com/treekv/treekv/model"
	"github.com/treekv/treekv/resource"
	"github.com/treekv/treekv/store"
)

// entrySize is one body entry: address (8 bytes) + encoded node record.
const entrySize = 8 + store.RecordSize

// writeChunk is the granularity of rate-limited blob writes.
const writeChunk = 256 * 1024

// Tree is the engine state a snapshot captures. The caller must guarantee
// no command is in flight while Export reads it (engine.Arbiter.Quiesce).
type Tree struct {
	Store store.NodeStore
	Alloc *alloc.Allocator
	Root  model.Address
	Ready bool
}

// Options configures snapshot export.
type Options struct {
	// Compression selects the body compression. Defaults to ZSTD.
	Compression CompressionType

	// Resources rate-limits blob writes when its IO budget is set.
	Resources *resource.Controller
}

// Export writes a point-in-time snapshot of t to bs under name.
//
// This is a utility for backup and migration, not a durability guarantee:
// nothing is journaled between snapshots.
func Export(ctx context.Context, bs blobstore.BlobStore, name string, t Tree, optFns ...func(*Options)) error {
	opts := Options{Compression: CompressionZSTD}
	for _, fn := range optFns {
		fn(&opts)
	}

	stats := t.Alloc.Stats()
	body := make([]byte, 0, stats.Live*entrySize)
	var entry [entrySize]byte
	for addr := uint64(0); addr < stats.Frontier; addr++ {
		if t.Alloc.IsFree(model.Address(addr)) {
			continue
		}
		n, err := t.Store.ReadNode(ctx, model.Address(addr))
		if err != nil {
			return fmt.Errorf("snapshot: read node %d: %w", addr, err)
		}
		binary.LittleEndian.PutUint64(entry[0:8], addr)
		store.EncodeNode(entry[8:], &n)
		body = append(body, entry[:]...)
	}

	compressed, actualCT, err := compressBody(body, opts.Compression)
	if err != nil {
		return err
	}

	h := fileHeader{
		compression: actualCT,
		ready:       t.Ready,
		nodeCount:   stats.Live,
		frontier:    stats.Frontier,
		root:        uint64(t.Root),
		bodySize:    uint64(len(compressed)),
		rawSize:     uint64(len(body)),
		checksum:    crc32.ChecksumIEEE(compressed),
	}

	w, err := bs.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("snapshot: create blob %s: %w", name, err)
	}

	hdr := h.encode()
	if err := writeLimited(ctx, w, hdr[:], opts.Resources); err != nil {
		w.Close()
		return err
	}
	if err := writeLimited(ctx, w, compressed, opts.Resources); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// writeLimited writes data through the IO budget in writeChunk pieces.
func writeLimited(ctx context.Context, w io.Writer, data []byte, rc *resource.Controller) error {
	for len(data) > 0 {
		chunk := len(data)
		if chunk > writeChunk {
			chunk = writeChunk
		}
		if err := rc.WaitIO(ctx, chunk); err != nil {
			return err
		}
		if _, err := w.Write(data[:chunk]); err != nil {
			return err
		}
		data = data[chunk:]
	}
	return nil
}

// Import rebuilds st and al from the snapshot stored under name, returning
// the root address and ready flag for the caller to install. Any prior
// contents of st and al are overwritten.
func Import(ctx context.Context, bs blobstore.BlobStore, name string, st store.NodeStore, al *alloc.Allocator) (model.Address, bool, error) {
	blob, err := bs.Open(ctx, name)
	if err != nil {
		return 0, false, fmt.Errorf("snapshot: open blob %s: %w", name, err)
	}
	defer blob.Close()

	var hdr [headerSize]byte
	if err := readFullAt(blob, hdr[:], 0); err != nil {
		return 0, false, fmt.Errorf("snapshot: read header: %w", err)
	}
	h, err := decodeHeader(hdr[:])
	if err != nil {
		return 0, false, err
	}

	compressed := make([]byte, h.bodySize)
	if err := readFullAt(blob, compressed, headerSize); err != nil {
		return 0, false, ErrTruncated
	}
	if crc32.ChecksumIEEE(compressed) != h.checksum {
		return 0, false, ErrChecksum
	}

	body, err := decompressBody(compressed, h.compression, h.rawSize)
	if err != nil {
		return 0, false, err
	}
	if uint64(len(body)) != h.rawSize || h.rawSize != h.nodeCount*entrySize {
		return 0, false, ErrTruncated
	}

	liveSet := roaring64.NewBitmap()
	for off := 0; off < len(body); off += entrySize {
		addr := binary.LittleEndian.Uint64(body[off : off+8])
		n := store.DecodeNode(body[off+8 : off+entrySize])
		if err := st.WriteNode(ctx, model.Address(addr), n); err != nil {
			return 0, false, fmt.Errorf("snapshot: restore node %d: %w", addr, err)
		}
		liveSet.Add(addr)
	}

	if err := al.Restore(h.frontier, liveSet, h.ready); err != nil {
		return 0, false, err
	}
	return model.Address(h.root), h.ready, nil
}

func readFullAt(r io.ReaderAt, p []byte, off int64) error {
	n, err := r.ReadAt(p, off)
	if n == len(p) {
		return nil
	}
	if err == nil {
		err = io.ErrUnexpectedEOF
	}
	return err
}
