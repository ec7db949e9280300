// Package store implements the node store adapter: a fixed-size binary codec
// for tree nodes plus address-indexed backing stores.
//
// Two backends are provided:
//
//   - FlatStore: an in-memory slab that grows on demand
//   - MmapStore: a file-backed slab with fixed capacity, mapped read-write
//
// The store holds no tree state of its own; which slots are live is the
// allocator's business.
package store
