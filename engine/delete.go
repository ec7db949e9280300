package engine

import (
	"context"
	"sync/atomic"

	"github.com/treekv/treekv/model"
)

// deleteController removes a token's node while preserving BST order. It
// locates the target by calling into the search controller and promotes
// in-order successors through the insert controller's write primitive, so
// every content write in the engine goes through a single path.
type deleteController struct {
	tree   *tree
	search *searchController
	insert *insertController
	state  stateVar
	busy   atomic.Bool
}

// delete removes token's node. Exactly one address is freed per successful
// call; a not-found outcome performs no mutation.
func (c *deleteController) delete(ctx context.Context, token model.Token) error {
	c.acquire()
	defer c.release()

	// The internal search entry has no empty-tree pre-check; the caller
	// provides the guarantee.
	if !c.tree.alloc.Ready() {
		c.state.set(StateComplete)
		return ErrNotFound
	}

	c.state.set(StateLocate)
	loc, err := c.search.call(ctx, token)
	if err != nil {
		return err
	}

	switch loc.node.ChildCount() {
	case 0:
		return c.removeLeaf(ctx, loc)
	case 1:
		return c.splice(ctx, loc)
	default:
		return c.removeInner(ctx, loc)
	}
}

// removeLeaf detaches a node with no children and frees its address. A
// childless root empties the tree.
func (c *deleteController) removeLeaf(ctx context.Context, loc located) error {
	c.state.set(StateSplice)

	if !loc.node.HasParent {
		c.tree.alloc.Free(loc.addr, true)
		c.state.set(StateComplete)
		return nil
	}

	parent, err := c.tree.store.ReadNode(ctx, loc.node.Parent)
	if err != nil {
		return err
	}
	parent.ClearChild(childSide(&parent, loc.addr))
	if err := c.tree.store.WriteNode(ctx, loc.node.Parent, parent); err != nil {
		return err
	}

	c.tree.alloc.Free(loc.addr, false)
	c.state.set(StateComplete)
	return nil
}

// splice removes a node with exactly one child by linking that child
// directly to the node's parent. A spliced root makes the child the new
// root.
func (c *deleteController) splice(ctx context.Context, loc located) error {
	c.state.set(StateSplice)

	childAddr := loc.node.Left
	if !loc.node.HasLeft {
		childAddr = loc.node.Right
	}
	child, err := c.tree.store.ReadNode(ctx, childAddr)
	if err != nil {
		return err
	}

	if loc.node.HasParent {
		parent, err := c.tree.store.ReadNode(ctx, loc.node.Parent)
		if err != nil {
			return err
		}
		parent.SetChild(childSide(&parent, loc.addr), childAddr)
		if err := c.tree.store.WriteNode(ctx, loc.node.Parent, parent); err != nil {
			return err
		}
		child.Parent = loc.node.Parent
		child.HasParent = true
	} else {
		child.Parent = 0
		child.HasParent = false
		c.tree.root = childAddr
	}

	if err := c.tree.store.WriteNode(ctx, childAddr, child); err != nil {
		return err
	}

	c.tree.alloc.Free(loc.addr, false)
	c.state.set(StateComplete)
	return nil
}

// removeInner handles a node with two children: its in-order successor (the
// leftmost node of the right subtree) is copied into the node in place, then
// removed from its original position. The successor has at most one child,
// the right one, by construction.
func (c *deleteController) removeInner(ctx context.Context, loc located) error {
	c.state.set(StateDescend)

	succAddr := loc.node.Right
	var succ model.Node
	for {
		n, err := c.tree.store.ReadNode(ctx, succAddr)
		if err != nil {
			return err
		}
		if !n.HasLeft {
			succ = n
			break
		}
		succAddr = n.Left
	}

	c.state.set(StatePromote)
	if err := c.insert.overwrite(ctx, loc.addr, succ.Token, succ.Payload); err != nil {
		return err
	}

	sl := located{addr: succAddr, node: succ}
	if succ.HasRight {
		return c.splice(ctx, sl)
	}
	return c.removeLeaf(ctx, sl)
}

func (c *deleteController) acquire() {
	if !c.busy.CompareAndSwap(false, true) {
		panic("engine: delete controller called while busy")
	}
}

func (c *deleteController) release() {
	c.state.set(StateIdle)
	c.busy.Store(false)
}
