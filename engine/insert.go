package engine

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/treekv/treekv/model"
)

// insertController adds new token/payload pairs. It descends independently
// of the search controller: the write path needs the would-be parent's
// address, which search's public result does not expose on a not-found
// outcome.
type insertController struct {
	tree  *tree
	state stateVar
	busy  atomic.Bool
}

// insert adds (token, payload), rejecting duplicates with no mutation.
func (c *insertController) insert(ctx context.Context, token model.Token, payload model.Payload) error {
	c.acquire()
	defer c.release()

	// First node: allocate, write, become root.
	if !c.tree.alloc.Ready() {
		c.state.set(StateAllocate)
		addr, err := c.tree.alloc.Request()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCapacity, err)
		}

		c.state.set(StateWrite)
		n := model.Node{Token: token, Payload: payload}
		if err := c.tree.store.WriteNode(ctx, addr, n); err != nil {
			c.tree.alloc.Free(addr, false)
			return err
		}

		c.tree.root = addr
		c.tree.alloc.MarkReady()
		c.state.set(StateComplete)
		return nil
	}

	// Own descent to the insertion parent: the node whose child slot on
	// token's side is absent.
	c.state.set(StateDescend)
	parentAddr := c.tree.root
	var parent model.Node
	var side model.Side
	for {
		n, err := c.tree.store.ReadNode(ctx, parentAddr)
		if err != nil {
			return err
		}
		if token == n.Token {
			c.state.set(StateComplete)
			return ErrDuplicateToken
		}

		side = sideFor(token, n.Token)
		next, ok := n.Child(side)
		if !ok {
			parent = n
			break
		}
		parentAddr = next
	}

	c.state.set(StateAllocate)
	addr, err := c.tree.alloc.Request()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCapacity, err)
	}

	// The child is fully populated before the parent link makes it
	// reachable.
	c.state.set(StateWrite)
	n := model.Node{
		Token:     token,
		Payload:   payload,
		Parent:    parentAddr,
		HasParent: true,
	}
	if err := c.tree.store.WriteNode(ctx, addr, n); err != nil {
		c.tree.alloc.Free(addr, false)
		return err
	}

	c.state.set(StateLink)
	parent.SetChild(side, addr)
	if err := c.tree.store.WriteNode(ctx, parentAddr, parent); err != nil {
		c.tree.alloc.Free(addr, false)
		return err
	}

	c.state.set(StateComplete)
	return nil
}

// overwrite is the write primitive the delete controller calls to promote a
// successor's content into a node at its existing address. Links and the
// address stay untouched; only token and payload change.
func (c *insertController) overwrite(ctx context.Context, addr model.Address, token model.Token, payload model.Payload) error {
	c.acquire()
	defer c.release()

	n, err := c.tree.store.ReadNode(ctx, addr)
	if err != nil {
		return err
	}

	c.state.set(StateWrite)
	n.Token = token
	n.Payload = payload
	if err := c.tree.store.WriteNode(ctx, addr, n); err != nil {
		return err
	}

	c.state.set(StateComplete)
	return nil
}

func (c *insertController) acquire() {
	if !c.busy.CompareAndSwap(false, true) {
		panic("engine: insert controller called while busy")
	}
}

func (c *insertController) release() {
	c.state.set(StateIdle)
	c.busy.Store(false)
}
