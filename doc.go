// Package treekv provides an embedded ordered-key index engine for Go.
//
// Treekv stores token/payload records as binary-search-tree nodes in a flat,
// address-addressable node store. Nodes are referenced exclusively through
// allocator-issued addresses, so the same tree logic runs over an in-memory
// slab or a file-mapped region.
//
// # Quick Start
//
// In-memory:
//
//	ctx := context.Background()
//	tree, _ := treekv.New()
//	_ = tree.Insert(ctx, 42, payload)
//	p, _ := tree.Search(ctx, 42)
//	_ = tree.Delete(ctx, 42)
//
// File-backed:
//
//	tree, _ := treekv.New(treekv.WithMmapStore("./nodes.tkv", 1<<20))
//
// # Ordering Model
//
// The tree is a plain binary search tree ordered by token: left subtree
// holds smaller tokens, right subtree larger ones. No rebalancing is
// performed, so the shape (and worst-case depth) follows insertion order.
// Duplicate tokens are rejected with ErrDuplicateToken, leaving the tree
// unchanged.
//
// # Concurrency Model
//
// All commands are strictly serialized: at most one of insert, search or
// delete runs at a time, and each runs to completion before the next is
// admitted. Tree is safe for concurrent use; callers queue on admission.
//
// # Capacity
//
// Addresses are recycled: a freed address is reused before the address
// space grows, lowest address first. WithMaxNodes caps the number of live
// nodes; an insert beyond the cap fails with ErrCapacity.
//
// # Snapshots
//
// Snapshot/Restore export and import point-in-time copies through a
// blobstore.BlobStore (local directory, in-memory, S3 or MinIO backends).
// Snapshots are an explicit backup utility; treekv makes no durability
// guarantees between snapshots.
//
//	blobs, _ := blobstore.NewLocal("./snapshots")
//	tree, _ := treekv.New(treekv.WithBlobStore(blobs))
//	_ = tree.Snapshot(ctx, "nightly")
//	_ = tree.Restore(ctx, "nightly")
package treekv
