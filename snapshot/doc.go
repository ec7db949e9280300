// Package snapshot exports and imports point-in-time copies of the tree:
// every live node record plus the allocator's frontier, root address and
// ready flag, in a checksummed, optionally compressed blob.
//
// Snapshots are a backup/migration utility. They are not a write-ahead log:
// mutations between snapshots are not journaled anywhere.
package snapshot
