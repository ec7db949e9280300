// Package resource provides global resource budgeting: a hard cap on live
// node slots (consulted by the allocator before growing its frontier) and a
// byte-rate budget for snapshot IO.
package resource
