package model

import (
	"fmt"
)

// Address is the opaque handle identifying a node's slot in the node store.
// Addresses are issued exclusively by the allocator; they are the only way
// to reference a node.
type Address uint64

// Token is the fixed-width ordering key of a stored record.
// Tokens are unique across the tree.
type Token uint64

// PayloadSize is the fixed width of a stored payload in bytes.
const PayloadSize = 16

// Payload is the opaque fixed-width value associated with a token.
type Payload [PayloadSize]byte

// PayloadFromBytes copies b into a Payload.
// It fails if b is longer than PayloadSize; shorter inputs are zero-padded.
func PayloadFromBytes(b []byte) (Payload, error) {
	var p Payload
	if len(b) > PayloadSize {
		return p, fmt.Errorf("payload too large: %d bytes (max %d)", len(b), PayloadSize)
	}
	copy(p[:], b)
	return p, nil
}

// PayloadFromString copies s into a Payload. Same size rules as PayloadFromBytes.
func PayloadFromString(s string) (Payload, error) {
	return PayloadFromBytes([]byte(s))
}

// Side selects one of a node's two child links.
type Side int

const (
	// SideLeft is the left child link (strictly smaller tokens).
	SideLeft Side = iota
	// SideRight is the right child link (strictly larger tokens).
	SideRight
)

// String returns a string representation of the Side.
func (s Side) String() string {
	if s == SideLeft {
		return "left"
	}
	return "right"
}

// Node is a stored record: token, payload, and parent/child addresses.
// Child and parent addresses carry explicit presence flags; a cleared flag
// means the corresponding Address field is meaningless.
type Node struct {
	Token   Token
	Payload Payload

	Left     Address
	Right    Address
	Parent   Address
	HasLeft  bool
	HasRight bool

	// HasParent is false only for the root node.
	HasParent bool
}

// Child returns the child address on the given side and whether it is present.
func (n *Node) Child(s Side) (Address, bool) {
	if s == SideLeft {
		return n.Left, n.HasLeft
	}
	return n.Right, n.HasRight
}

// SetChild sets the child link on the given side.
func (n *Node) SetChild(s Side, addr Address) {
	if s == SideLeft {
		n.Left, n.HasLeft = addr, true
		return
	}
	n.Right, n.HasRight = addr, true
}

// ClearChild marks the child link on the given side as absent.
func (n *Node) ClearChild(s Side) {
	if s == SideLeft {
		n.Left, n.HasLeft = 0, false
		return
	}
	n.Right, n.HasRight = 0, false
}

// ChildCount returns the number of present child links (0, 1 or 2).
func (n *Node) ChildCount() int {
	count := 0
	if n.HasLeft {
		count++
	}
	if n.HasRight {
		count++
	}
	return count
}

// String returns a string representation of the Node.
func (n *Node) String() string {
	return fmt.Sprintf("Node(token=%d left=%v right=%v parent=%v)",
		n.Token, n.HasLeft, n.HasRight, n.HasParent)
}
