package engine

import "errors"

var (
	// ErrNotFound is reported when the requested token is not in the tree.
	ErrNotFound = errors.New("engine: token not found")

	// ErrDuplicateToken is reported when inserting a token already present.
	// The tree is left unchanged.
	ErrDuplicateToken = errors.New("engine: duplicate token")

	// ErrEmptyTree is reported by a search before any insert has succeeded.
	// No store access is issued.
	ErrEmptyTree = errors.New("engine: empty tree")

	// ErrCapacity is reported when the allocator cannot grant an address.
	// The failed operation performs no mutation.
	ErrCapacity = errors.New("engine: capacity exhausted")
)
