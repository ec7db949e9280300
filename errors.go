package treekv

import (
	"errors"

	"github.com/treekv/treekv/engine"
)

// Logical outcomes are re-exported from the engine so callers need only
// this package for errors.Is checks.
var (
	// ErrNotFound is returned when the requested token is not in the tree.
	ErrNotFound = engine.ErrNotFound

	// ErrDuplicateToken is returned when inserting a token already present.
	ErrDuplicateToken = engine.ErrDuplicateToken

	// ErrEmptyTree is returned by a search before any insert has succeeded.
	ErrEmptyTree = engine.ErrEmptyTree

	// ErrCapacity is returned when the allocator cannot grant an address.
	ErrCapacity = engine.ErrCapacity

	// ErrClosed is returned by operations on a closed Tree.
	ErrClosed = errors.New("treekv: closed")

	// ErrNoBlobStore is returned by Snapshot/Restore when no blob store
	// was configured.
	ErrNoBlobStore = errors.New("treekv: no blob store configured")
)
