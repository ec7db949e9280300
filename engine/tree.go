package engine

import (
	"github.com/treekv/treekv/alloc"
	"github.com/treekv/treekv/model"
	"github.com/treekv/treekv/store"
)

// tree is the state shared by the three controllers: the node store, the
// allocator, and the root address. root is meaningful only while the
// allocator reports ready. Mutation is safe because the arbiter never lets
// more than one top-level controller run.
type tree struct {
	store store.NodeStore
	alloc *alloc.Allocator
	root  model.Address
}

// sideFor returns which side of parent the token belongs on.
func sideFor(token, parent model.Token) model.Side {
	if token < parent {
		return model.SideLeft
	}
	return model.SideRight
}

// childSide returns which of parent's links points at addr. The links must
// be mutually consistent with the child's parent pointer; anything else is a
// corrupted tree.
func childSide(parent *model.Node, addr model.Address) model.Side {
	if parent.HasLeft && parent.Left == addr {
		return model.SideLeft
	}
	if parent.HasRight && parent.Right == addr {
		return model.SideRight
	}
	panic("engine: parent/child links inconsistent")
}
