// Package alloc implements the node address allocator: a roaring-bitmap
// free pool with exact reuse-before-grow semantics (lowest reclaimed address
// first), a growth frontier, and the tree-ready flag that tracks whether the
// root address is allocated.
package alloc
