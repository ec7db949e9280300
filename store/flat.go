package store

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/treekv/treekv/model"
)

// growSlots is the slot granularity the flat store's backing slab grows by.
const growSlots = 1024

// FlatStore is an in-memory NodeStore backed by a single contiguous byte
// slab. The slab grows on demand in growSlots-sized steps; existing slots
// never move, so encoded records are stable for the life of the store.
type FlatStore struct {
	mu     sync.Mutex
	data   []byte
	closed bool

	reads  atomic.Uint64
	writes atomic.Uint64
}

// NewFlat creates an empty FlatStore.
func NewFlat() *FlatStore {
	return &FlatStore{}
}

// ReadNode implements NodeStore.
func (s *FlatStore) ReadNode(ctx context.Context, addr model.Address) (model.Node, error) {
	if err := ctx.Err(); err != nil {
		return model.Node{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return model.Node{}, ErrClosed
	}
	off := uint64(addr) * RecordSize
	if off+RecordSize > uint64(len(s.data)) {
		return model.Node{}, ErrOutOfRange
	}

	s.reads.Add(1)
	return DecodeNode(s.data[off : off+RecordSize]), nil
}

// WriteNode implements NodeStore. Writing one slot past the current end
// extends the slab; the allocator's frontier grows addresses linearly, so
// this is the only growth pattern the engine produces.
func (s *FlatStore) WriteNode(ctx context.Context, addr model.Address, n model.Node) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	off := uint64(addr) * RecordSize
	if off+RecordSize > uint64(len(s.data)) {
		s.growLocked(off + RecordSize)
	}

	EncodeNode(s.data[off:off+RecordSize], &n)
	s.writes.Add(1)
	return nil
}

func (s *FlatStore) growLocked(minLen uint64) {
	newLen := uint64(len(s.data))
	if newLen == 0 {
		newLen = growSlots * RecordSize
	}
	for newLen < minLen {
		newLen += growSlots * RecordSize
	}

	grown := make([]byte, newLen)
	copy(grown, s.data)
	s.data = grown
}

// Slots implements NodeStore.
func (s *FlatStore) Slots() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint64(len(s.data)) / RecordSize
}

// Stats implements NodeStore.
func (s *FlatStore) Stats() Stats {
	return Stats{
		Reads:  s.reads.Load(),
		Writes: s.writes.Load(),
		Slots:  s.Slots(),
	}
}

// Close implements NodeStore.
func (s *FlatStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.data = nil
	return nil
}
