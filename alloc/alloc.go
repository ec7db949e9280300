package alloc

import (
	"errors"
	"fmt"
	"sync"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/treekv/treekv/model"
	"github.com/treekv/treekv/resource"
)

// ErrExhausted is returned when no address can be granted: the free pool is
// empty and the frontier has hit the configured capacity. The failed
// operation performs no mutation.
var ErrExhausted = errors.New("alloc: address space exhausted")

// Allocator hands out and reclaims node addresses and tracks whether the
// tree is non-empty ("ready").
//
// Reclaimed addresses are preferred over frontier growth, lowest address
// first, so address reuse is deterministic under test. The free pool is a
// roaring bitmap: cheap membership checks make double-free detection free,
// and dense reclaim ranges stay compact.
type Allocator struct {
	mu sync.Mutex

	free     *roaring64.Bitmap
	frontier uint64
	live     uint64
	ready    bool

	maxAddresses uint64 // 0 = unbounded
	rc           *resource.Controller
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithMaxAddresses caps the frontier: no address >= max is ever minted.
// Required when the node store has fixed capacity (MmapStore).
func WithMaxAddresses(max uint64) Option {
	return func(a *Allocator) {
		a.maxAddresses = max
	}
}

// WithResourceController makes the allocator reserve a node slot from rc on
// every grant and release it on every reclaim.
func WithResourceController(rc *resource.Controller) Option {
	return func(a *Allocator) {
		a.rc = rc
	}
}

// New creates an empty Allocator.
func New(opts ...Option) *Allocator {
	a := &Allocator{
		free: roaring64.NewBitmap(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Request grants the next address: the lowest reclaimed address if any,
// otherwise one past the highest address ever granted. Returns ErrExhausted
// when neither source can supply one.
func (a *Allocator) Request() (model.Address, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.rc.TryAcquireNode() {
		return 0, ErrExhausted
	}

	if !a.free.IsEmpty() {
		addr := a.free.Minimum()
		a.free.Remove(addr)
		a.live++
		return model.Address(addr), nil
	}

	if a.maxAddresses > 0 && a.frontier >= a.maxAddresses {
		a.rc.ReleaseNode()
		return 0, ErrExhausted
	}

	addr := a.frontier
	a.frontier++
	a.live++
	return model.Address(addr), nil
}

// Free returns addr to the pool. wasRoot must be true exactly when the freed
// node was the tree's root; the root is only ever freed as the last node, so
// wasRoot clears the ready flag.
//
// Freeing an address that was never granted, or granted and already freed,
// is a programming error and panics.
func (a *Allocator) Free(addr model.Address, wasRoot bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	u := uint64(addr)
	if u >= a.frontier || a.free.Contains(u) {
		panic(fmt.Sprintf("alloc: free of unallocated address %d", u))
	}

	a.free.Add(u)
	a.live--
	a.rc.ReleaseNode()

	if wasRoot {
		if a.live != 0 {
			panic(fmt.Sprintf("alloc: root freed with %d live nodes", a.live))
		}
		a.ready = false
	}
}

// MarkReady records that the root address is allocated (first insert).
func (a *Allocator) MarkReady() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ready = true
}

// Ready reports whether the tree is non-empty.
func (a *Allocator) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ready
}

// IsFree reports whether addr is currently reclaimable or never granted.
// Used by snapshot export to skip dead slots.
func (a *Allocator) IsFree(addr model.Address) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	u := uint64(addr)
	return u >= a.frontier || a.free.Contains(u)
}

// Stats holds a point-in-time view of the allocator.
type Stats struct {
	Live     uint64 // addresses granted and not yet freed
	Frontier uint64 // one past the highest address ever granted
	FreePool uint64 // reclaimed addresses awaiting reuse
	Ready    bool
}

// Stats returns current allocator statistics.
func (a *Allocator) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Stats{
		Live:     a.live,
		Frontier: a.frontier,
		FreePool: a.free.GetCardinality(),
		Ready:    a.ready,
	}
}

// Restore rebuilds allocator state from a snapshot: frontier, the set of
// live addresses below it, and the ready flag. Any prior state is discarded.
func (a *Allocator) Restore(frontier uint64, liveSet *roaring64.Bitmap, ready bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.maxAddresses > 0 && frontier > a.maxAddresses {
		return ErrExhausted
	}

	// Replace the previous reservation wholesale.
	for ; a.live > 0; a.live-- {
		a.rc.ReleaseNode()
	}
	live := liveSet.GetCardinality()
	for a.live < live {
		if !a.rc.TryAcquireNode() {
			for ; a.live > 0; a.live-- {
				a.rc.ReleaseNode()
			}
			a.free = roaring64.NewBitmap()
			a.frontier = 0
			a.ready = false
			return ErrExhausted
		}
		a.live++
	}

	free := roaring64.NewBitmap()
	free.AddRange(0, frontier)
	free.AndNot(liveSet)

	a.free = free
	a.frontier = frontier
	a.ready = ready
	return nil
}
