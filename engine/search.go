package engine

import (
	"context"
	"sync/atomic"

	"github.com/treekv/treekv/model"
)

// searchController walks the tree from the root comparing tokens. It serves
// two call sites that never interfere: the arbiter's external lookup and
// internal calls from the delete controller. It never mutates a node.
type searchController struct {
	tree  *tree
	state stateVar
	busy  atomic.Bool
}

// located is the result of a successful descent: the matching node and its
// address.
type located struct {
	addr model.Address
	node model.Node
}

// lookup is the external entry. An empty tree completes immediately with
// ErrEmptyTree and issues no store access.
func (c *searchController) lookup(ctx context.Context, token model.Token) (located, error) {
	c.acquire()
	defer c.release()

	if !c.tree.alloc.Ready() {
		c.state.set(StateComplete)
		return located{}, ErrEmptyTree
	}
	return c.descend(ctx, token)
}

// call is the internal entry used by the delete controller. The caller
// guarantees the tree is non-empty; there is no pre-check. Results return on
// this path only, so the two call sites cannot observe each other's
// completions.
func (c *searchController) call(ctx context.Context, token model.Token) (located, error) {
	c.acquire()
	defer c.release()

	return c.descend(ctx, token)
}

// descend performs the shared traversal: exactly one store read per visited
// node, blocking on each read before issuing the next.
func (c *searchController) descend(ctx context.Context, token model.Token) (located, error) {
	c.state.set(StateDescend)

	addr := c.tree.root
	for {
		n, err := c.tree.store.ReadNode(ctx, addr)
		if err != nil {
			return located{}, err
		}

		if token == n.Token {
			c.state.set(StateComplete)
			return located{addr: addr, node: n}, nil
		}

		next, ok := n.Child(sideFor(token, n.Token))
		if !ok {
			c.state.set(StateComplete)
			return located{}, ErrNotFound
		}
		addr = next
	}
}

// acquire claims the controller. Only one call may be outstanding; a second
// is a protocol violation the arbiter's admission rule should have made
// unreachable.
func (c *searchController) acquire() {
	if !c.busy.CompareAndSwap(false, true) {
		panic("engine: search controller called while busy")
	}
}

func (c *searchController) release() {
	c.state.set(StateIdle)
	c.busy.Store(false)
}
