// Package model defines core types used throughout treekv.
//
// # Identity Types
//
//   - Address: Opaque, allocator-issued handle to a node slot (uint64)
//   - Token: Fixed-width ordering key, unique across the tree (uint64)
//
// # Data Types
//
//   - Payload: Opaque fixed-width value associated with a token
//   - Node: Stored record with token, payload, and parent/child links
//   - Side: Selector for a node's left or right child link
//
// Child and parent links carry explicit presence flags rather than a null
// sentinel address; address 0 is a valid node slot.
package model
