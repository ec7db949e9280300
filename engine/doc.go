// Package engine implements the arbitrated multi-controller tree engine:
// three sequential controllers (search, insert, delete) that walk a binary
// search tree stored in a flat address space, and the arbiter that strictly
// serializes external commands across them.
//
// # Controllers
//
// Each controller is a sequential state machine. Its state register exists
// for diagnostics only; progress is ordinary blocking code, with the node
// store's read/write calls as the only suspension points.
//
// Delete may call into search (to locate its target) and into insert (to
// promote a successor's content). Calls are strictly nested, depth one; a
// call into a busy controller is a programming error and panics.
//
// # Concurrency
//
// Mutual exclusion is structural: the arbiter admits one command at a time,
// and a calling controller stays blocked while its callee runs, so exactly
// one controller ever touches the store. Tokens are compared with plain <
// on uint64, so no tie-breaking rules exist beyond strict BST order.
//
// The tree is deliberately unbalanced: no rotations are performed, and
// adversarial insert orders degrade it to a list. Range queries and batched
// operations are out of scope.
package engine
