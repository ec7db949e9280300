package engine

import (
	"fmt"

	"github.com/treekv/treekv/model"
)

// Op is the kind of an external command.
type Op uint8

const (
	// OpInsert adds a new token/payload pair.
	OpInsert Op = iota
	// OpSearch looks up a token's payload.
	OpSearch
	// OpDelete removes a token.
	OpDelete
)

// String returns a string representation of the Op.
func (op Op) String() string {
	switch op {
	case OpInsert:
		return "insert"
	case OpSearch:
		return "search"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("op(%d)", uint8(op))
	}
}

// Command is an external request. Payload is ignored for OpSearch and
// OpDelete.
type Command struct {
	Op      Op
	Token   model.Token
	Payload model.Payload
}

// Completion is the engine's answer to one admitted command.
//
// Err carries the logical outcome: nil on success, or one of ErrNotFound,
// ErrDuplicateToken, ErrEmptyTree, ErrCapacity (possibly wrapped). Payload
// and Address are valid only for a successful OpSearch.
type Completion struct {
	Op      Op
	Token   model.Token
	Payload model.Payload
	Address model.Address
	Err     error
}
