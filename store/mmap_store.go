package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/treekv/treekv/internal/mmap"
	"github.com/treekv/treekv/model"
)

// MmapStore is a file-backed NodeStore. The backing file is mapped
// read-write shared, so the node slab survives the process and can be
// reopened later (or inspected with external tooling).
//
// Capacity is fixed at creation: remapping would invalidate outstanding
// slices, and the engine's capacity is bounded by the allocator anyway.
type MmapStore struct {
	mu      sync.Mutex
	mapping *mmap.Mapping
	slots   uint64
	closed  bool

	reads  atomic.Uint64
	writes atomic.Uint64
}

// NewMmap opens (creating if necessary) the store file at path with room for
// maxSlots node records.
func NewMmap(path string, maxSlots uint64) (*MmapStore, error) {
	if maxSlots == 0 {
		return nil, fmt.Errorf("store: maxSlots must be positive")
	}

	m, err := mmap.OpenRW(path, int(maxSlots*RecordSize))
	if err != nil {
		return nil, fmt.Errorf("store: map %s: %w", path, err)
	}

	// Tree descent is pointer chasing, not a scan.
	_ = m.Advise(mmap.AccessRandom)

	return &MmapStore{
		mapping: m,
		slots:   maxSlots,
	}, nil
}

// ReadNode implements NodeStore.
func (s *MmapStore) ReadNode(ctx context.Context, addr model.Address) (model.Node, error) {
	if err := ctx.Err(); err != nil {
		return model.Node{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return model.Node{}, ErrClosed
	}
	if uint64(addr) >= s.slots {
		return model.Node{}, ErrOutOfRange
	}

	off := uint64(addr) * RecordSize
	s.reads.Add(1)
	return DecodeNode(s.mapping.Bytes()[off : off+RecordSize]), nil
}

// WriteNode implements NodeStore.
func (s *MmapStore) WriteNode(ctx context.Context, addr model.Address, n model.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if uint64(addr) >= s.slots {
		return ErrOutOfRange
	}

	off := uint64(addr) * RecordSize
	EncodeNode(s.mapping.Bytes()[off:off+RecordSize], &n)
	s.writes.Add(1)
	return nil
}

// Slots implements NodeStore.
func (s *MmapStore) Slots() uint64 {
	return s.slots
}

// Stats implements NodeStore.
func (s *MmapStore) Stats() Stats {
	return Stats{
		Reads:  s.reads.Load(),
		Writes: s.writes.Load(),
		Slots:  s.slots,
	}
}

// Sync flushes modified slots to the backing file.
func (s *MmapStore) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.mapping.Sync()
}

// Close implements NodeStore.
func (s *MmapStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.mapping.Close()
}
