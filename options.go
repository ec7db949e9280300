package treekv

import (
	"github.com/treekv/treekv/blobstore"
	"github.com/treekv/treekv/snapshot"
	"github.com/treekv/treekv/store"
)

type options struct {
	store              store.NodeStore
	storePath          string
	storeSlots         uint64
	maxNodes           int64
	ioLimitBytesPerSec int64
	logger             *Logger
	metrics            MetricsCollector
	blobs              blobstore.BlobStore
	compression        snapshot.CompressionType
}

func defaultOptions() options {
	return options{
		logger:      NoopLogger(),
		metrics:     NoopMetricsCollector{},
		compression: snapshot.CompressionZSTD,
	}
}

// Option configures Tree construction.
type Option func(*options)

// WithStore uses a caller-provided node store instead of the default
// in-memory one. The caller remains responsible for sizing the allocator
// via WithMaxNodes if the store has fixed capacity.
func WithStore(st store.NodeStore) Option {
	return func(o *options) {
		o.store = st
	}
}

// WithMmapStore backs the tree with a file-mapped node store at path,
// sized for maxSlots node records. The allocator's address space is capped
// to the store's capacity.
func WithMmapStore(path string, maxSlots uint64) Option {
	return func(o *options) {
		o.storePath = path
		o.storeSlots = maxSlots
	}
}

// WithMaxNodes caps the number of live nodes. An insert beyond the cap
// fails with ErrCapacity.
func WithMaxNodes(max int64) Option {
	return func(o *options) {
		o.maxNodes = max
	}
}

// WithIOLimit throttles snapshot export/import writes to the given byte
// rate. 0 means unlimited.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimitBytesPerSec = bytesPerSec
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithBlobStore sets the blob store snapshots are exported to and restored
// from.
func WithBlobStore(bs blobstore.BlobStore) Option {
	return func(o *options) {
		o.blobs = bs
	}
}

// WithSnapshotCompression selects the snapshot body compression.
// The default is ZSTD.
func WithSnapshotCompression(ct snapshot.CompressionType) Option {
	return func(o *options) {
		o.compression = ct
	}
}
