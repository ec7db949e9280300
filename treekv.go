package treekv

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/treekv/treekv/alloc"
	"github.com/treekv/treekv/engine"
	"github.com/treekv/treekv/model"
	"github.com/treekv/treekv/resource"
	"github.com/treekv/treekv/snapshot"
	"github.com/treekv/treekv/store"
)

// Tree is an embedded ordered-key index: token/payload records stored as
// binary-search-tree nodes in a flat, address-addressable node store.
//
// All operations are strictly serialized by the engine's arbiter; Tree is
// safe for concurrent use, with callers simply queueing on admission.
type Tree struct {
	arbiter *engine.Arbiter
	store   store.NodeStore
	alloc   *alloc.Allocator
	rc      *resource.Controller

	logger  *Logger
	metrics MetricsCollector
	opts    options

	closed atomic.Bool
}

// New creates a Tree. Without options it uses an in-memory store with no
// capacity limit, no metrics and no logging.
func New(optFns ...Option) (*Tree, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var rc *resource.Controller
	if opts.maxNodes > 0 || opts.ioLimitBytesPerSec > 0 {
		rc = resource.NewController(resource.Config{
			MaxNodes:           opts.maxNodes,
			IOLimitBytesPerSec: opts.ioLimitBytesPerSec,
		})
	}

	st := opts.store
	var allocOpts []alloc.Option
	if rc != nil {
		allocOpts = append(allocOpts, alloc.WithResourceController(rc))
	}
	if st == nil {
		if opts.storePath != "" {
			m, err := store.NewMmap(opts.storePath, opts.storeSlots)
			if err != nil {
				return nil, err
			}
			st = m
			allocOpts = append(allocOpts, alloc.WithMaxAddresses(opts.storeSlots))
		} else {
			st = store.NewFlat()
		}
	}

	al := alloc.New(allocOpts...)

	return &Tree{
		arbiter: engine.New(st, al),
		store:   st,
		alloc:   al,
		rc:      rc,
		logger:  opts.logger,
		metrics: opts.metrics,
		opts:    opts,
	}, nil
}

// Insert adds a token/payload pair. It fails with ErrDuplicateToken if the
// token is already present (the tree is unchanged) and with ErrCapacity if
// the allocator cannot grant an address.
func (t *Tree) Insert(ctx context.Context, token model.Token, payload model.Payload) error {
	if t.closed.Load() {
		return ErrClosed
	}

	start := time.Now()
	comp := t.arbiter.Submit(ctx, engine.Command{
		Op:      engine.OpInsert,
		Token:   token,
		Payload: payload,
	})
	t.metrics.RecordInsert(time.Since(start), comp.Err)
	t.logger.LogInsert(ctx, token, comp.Err)
	return comp.Err
}

// Search returns the payload stored under token. It fails with ErrEmptyTree
// before the first insert (issuing no store access) and with ErrNotFound for
// an absent token.
func (t *Tree) Search(ctx context.Context, token model.Token) (model.Payload, error) {
	if t.closed.Load() {
		return model.Payload{}, ErrClosed
	}

	start := time.Now()
	comp := t.arbiter.Submit(ctx, engine.Command{
		Op:    engine.OpSearch,
		Token: token,
	})
	t.metrics.RecordSearch(time.Since(start), comp.Err)
	t.logger.LogSearch(ctx, token, comp.Err)
	return comp.Payload, comp.Err
}

// Delete removes token's node, preserving BST order for all remaining
// nodes. It fails with ErrNotFound if the token is absent.
func (t *Tree) Delete(ctx context.Context, token model.Token) error {
	if t.closed.Load() {
		return ErrClosed
	}

	start := time.Now()
	comp := t.arbiter.Submit(ctx, engine.Command{
		Op:    engine.OpDelete,
		Token: token,
	})
	t.metrics.RecordDelete(time.Since(start), comp.Err)
	t.logger.LogDelete(ctx, token, comp.Err)
	return comp.Err
}

// Ready reports whether the tree is non-empty.
func (t *Tree) Ready() bool {
	return t.arbiter.Ready()
}

// Status returns the read-only diagnostic aggregate: controller states, the
// tree-ready flag and component statistics.
func (t *Tree) Status() engine.Status {
	return t.arbiter.Status()
}

// Snapshot exports a point-in-time copy of the tree to the configured blob
// store under name. Commands queue behind the export.
func (t *Tree) Snapshot(ctx context.Context, name string) error {
	if t.closed.Load() {
		return ErrClosed
	}
	if t.opts.blobs == nil {
		return ErrNoBlobStore
	}

	start := time.Now()
	err := t.arbiter.Quiesce(func(root model.Address, ready bool) error {
		return snapshot.Export(ctx, t.opts.blobs, name, snapshot.Tree{
			Store: t.store,
			Alloc: t.alloc,
			Root:  root,
			Ready: ready,
		}, func(o *snapshot.Options) {
			o.Compression = t.opts.compression
			o.Resources = t.rc
		})
	})
	t.metrics.RecordSnapshot(time.Since(start), err)
	t.logger.LogSnapshot(ctx, name, err)
	return err
}

// Restore replaces the tree's contents with the snapshot stored under name
// in the configured blob store.
func (t *Tree) Restore(ctx context.Context, name string) error {
	if t.closed.Load() {
		return ErrClosed
	}
	if t.opts.blobs == nil {
		return ErrNoBlobStore
	}

	start := time.Now()
	err := t.arbiter.Reload(func() (model.Address, error) {
		root, _, err := snapshot.Import(ctx, t.opts.blobs, name, t.store, t.alloc)
		return root, err
	})
	t.metrics.RecordRestore(time.Since(start), err)
	t.logger.LogRestore(ctx, name, err)
	return err
}

// Close releases the store's resources. Operations after Close fail with
// ErrClosed.
func (t *Tree) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	var errs []error
	if err := t.store.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
