package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/treekv/treekv/alloc"
	"github.com/treekv/treekv/model"
	"github.com/treekv/treekv/store"
)

// Arbiter is the single entry point for external commands. It admits a
// command only when all three controllers are idle: external operations are
// strictly serialized, never pipelined, which structurally guarantees the
// active controller exclusive ownership of the store and allocator.
type Arbiter struct {
	mu   sync.Mutex
	tree *tree

	search *searchController
	insert *insertController
	del    *deleteController
}

// New creates an Arbiter over the given node store and allocator.
func New(st store.NodeStore, al *alloc.Allocator) *Arbiter {
	t := &tree{store: st, alloc: al}
	search := &searchController{tree: t}
	insert := &insertController{tree: t}
	del := &deleteController{tree: t, search: search, insert: insert}

	return &Arbiter{
		tree:   t,
		search: search,
		insert: insert,
		del:    del,
	}
}

// Submit runs one command to completion and returns its Completion. The
// calling goroutine blocks until every other admitted command has finished;
// admission with a busy controller is impossible by construction, and its
// observation is treated as a fatal invariant violation.
func (a *Arbiter) Submit(ctx context.Context, cmd Command) Completion {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.allIdle() {
		panic("engine: command admitted while a controller is busy")
	}

	comp := Completion{Op: cmd.Op, Token: cmd.Token}
	switch cmd.Op {
	case OpInsert:
		comp.Err = a.insert.insert(ctx, cmd.Token, cmd.Payload)
	case OpSearch:
		loc, err := a.search.lookup(ctx, cmd.Token)
		if err != nil {
			comp.Err = err
			break
		}
		comp.Payload = loc.node.Payload
		comp.Address = loc.addr
	case OpDelete:
		comp.Err = a.del.delete(ctx, cmd.Token)
	default:
		comp.Err = fmt.Errorf("engine: unknown op %d", uint8(cmd.Op))
	}
	return comp
}

func (a *Arbiter) allIdle() bool {
	return !a.search.busy.Load() && !a.insert.busy.Load() && !a.del.busy.Load()
}

// Ready reports whether the tree is non-empty: false until the first
// successful insert, true until the root is freed.
func (a *Arbiter) Ready() bool {
	return a.tree.alloc.Ready()
}

// Status is the read-only diagnostic aggregate: each controller's state plus
// the tree-ready flag and component statistics. It has no effect on
// behavior.
type Status struct {
	Search State
	Insert State
	Delete State
	Ready  bool
	Alloc  alloc.Stats
	Store  store.Stats
}

// Status returns a point-in-time diagnostic snapshot.
func (a *Arbiter) Status() Status {
	return Status{
		Search: a.search.state.get(),
		Insert: a.insert.state.get(),
		Delete: a.del.state.get(),
		Ready:  a.tree.alloc.Ready(),
		Alloc:  a.tree.alloc.Stats(),
		Store:  a.tree.store.Stats(),
	}
}

// Quiesce runs fn while no command is in flight, passing the current root
// address and ready flag. Snapshot export uses this to read a consistent
// tree.
func (a *Arbiter) Quiesce(fn func(root model.Address, ready bool) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fn(a.tree.root, a.tree.alloc.Ready())
}

// Reload runs fn while no command is in flight and installs the root
// address it returns. Snapshot import uses this to swap in rebuilt store
// and allocator state atomically with respect to commands.
func (a *Arbiter) Reload(fn func() (model.Address, error)) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	root, err := fn()
	if err != nil {
		return err
	}
	a.tree.root = root
	return nil
}
