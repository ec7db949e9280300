package store

import (
	"context"
	"errors"

	"github.com/treekv/treekv/model"
)

var (
	// ErrOutOfRange is returned when an address lies outside the store's capacity.
	ErrOutOfRange = errors.New("store: address out of range")
	// ErrClosed is returned when accessing a closed store.
	ErrClosed = errors.New("store: closed")
)

// NodeStore is the narrow read/write interface the controllers walk the tree
// through. Implementations are address-indexed: one slot per allocator-issued
// address, each slot holding exactly one encoded node record.
//
// Calls block until the access completes; ctx is the only way to abandon an
// access that cannot make progress. The engine's arbiter guarantees a single
// outstanding request, so implementations need no internal queueing.
type NodeStore interface {
	// ReadNode decodes and returns the node at addr.
	ReadNode(ctx context.Context, addr model.Address) (model.Node, error)

	// WriteNode encodes n into the slot at addr.
	WriteNode(ctx context.Context, addr model.Address, n model.Node) error

	// Slots returns the number of addressable slots currently backed.
	Slots() uint64

	// Stats returns cumulative access counters.
	Stats() Stats

	// Close releases the store's resources.
	Close() error
}

// Stats holds cumulative access counters for a node store.
type Stats struct {
	Reads  uint64
	Writes uint64
	Slots  uint64
}
