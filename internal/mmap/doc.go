// Package mmap provides a small cross-platform wrapper around memory-mapped
// files, used by the file-backed node store. Read-write mappings are shared,
// so a store file can outlive the process that wrote it.
package mmap
