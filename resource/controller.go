package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxNodes is the hard limit on live node slots.
	// If 0, no hard limit is enforced (only tracking).
	MaxNodes int64

	// IOLimitBytesPerSec is the maximum IO throughput for snapshot
	// export/import. If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller manages global resources (node capacity, snapshot IO).
type Controller struct {
	cfg Config

	// Node capacity
	nodeSem  *semaphore.Weighted // nil if unlimited
	nodeUsed atomic.Int64

	// IO
	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}

	if cfg.MaxNodes > 0 {
		c.nodeSem = semaphore.NewWeighted(cfg.MaxNodes)
	}
	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// TryAcquireNode attempts to reserve one node slot without blocking.
// Returns true if acquired, false if the limit would be exceeded.
//
// The allocator uses the non-blocking form: an insert that cannot get a
// slot must fail with a capacity error, not stall the engine.
func (c *Controller) TryAcquireNode() bool {
	if c == nil {
		return true
	}
	if c.nodeSem != nil {
		if !c.nodeSem.TryAcquire(1) {
			return false
		}
	}
	c.nodeUsed.Add(1)
	return true
}

// ReleaseNode releases a reserved node slot.
func (c *Controller) ReleaseNode() {
	if c == nil {
		return
	}
	if c.nodeSem != nil {
		c.nodeSem.Release(1)
	}
	c.nodeUsed.Add(-1)
}

// NodesInUse returns the number of currently reserved node slots.
func (c *Controller) NodesInUse() int64 {
	if c == nil {
		return 0
	}
	return c.nodeUsed.Load()
}

// WaitIO blocks until the IO budget admits n more bytes.
// A nil controller or an unlimited budget admits immediately.
func (c *Controller) WaitIO(ctx context.Context, n int) error {
	if c == nil || c.ioLimiter == nil || n <= 0 {
		return nil
	}

	// rate.Limiter caps a single WaitN at its burst; split large writes.
	burst := c.ioLimiter.Burst()
	for n > 0 {
		chunk := n
		if chunk > burst {
			chunk = burst
		}
		if err := c.ioLimiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}
