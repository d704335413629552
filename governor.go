package fastslic

import (
	"context"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// GovernorConfig holds the soft resource limits enforced by a Governor.
type GovernorConfig struct {
	// MemoryBudgetBytes bounds the memory a Governor will admit through
	// ReserveMemory. Zero means unlimited; reservations are then not
	// recorded.
	MemoryBudgetBytes int64

	// MaxWorkers bounds how many Iterate calls sharing this Governor may
	// run concurrently; each call holds one slot. Zero defaults to 1.
	MaxWorkers int64

	// SnapshotBytesPerSec sets the byte rate WaitIO enforces. Zero means
	// unlimited. The snapshot read/write functions do not call WaitIO
	// themselves.
	SnapshotBytesPerSec int64

	// ProgressLogsPerSec rate-limits Iterate's per-iteration progress log
	// line, independent of SnapshotBytesPerSec. Zero means unlimited (one
	// log line per iteration).
	ProgressLogsPerSec float64
}

// Governor is a soft resource gate shared across Iterate calls (attached
// via Config.Governor). Go cannot intercept an
// allocator failure as a recoverable error, so instead of trying to catch
// out-of-memory conditions after the fact, Governor.ReserveMemory is a
// pre-check: callers ask for a budget before allocating the corresponding
// buffer, and get ErrResourceExhausted back instead of an allocation that
// might never return control to the runtime.
//
// A nil *Governor is valid and behaves as if unbounded.
type Governor struct {
	cfg GovernorConfig

	memSem     *semaphore.Weighted
	workSem    *semaphore.Weighted
	ioLimiter  *rate.Limiter
	logLimiter *rate.Limiter
}

// NewGovernor builds a Governor from cfg.
func NewGovernor(cfg GovernorConfig) *Governor {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 1
	}

	g := &Governor{
		cfg:     cfg,
		workSem: semaphore.NewWeighted(cfg.MaxWorkers),
	}

	if cfg.MemoryBudgetBytes > 0 {
		g.memSem = semaphore.NewWeighted(cfg.MemoryBudgetBytes)
	}
	if cfg.SnapshotBytesPerSec > 0 {
		g.ioLimiter = rate.NewLimiter(rate.Limit(cfg.SnapshotBytesPerSec), int(cfg.SnapshotBytesPerSec))
	}
	if cfg.ProgressLogsPerSec > 0 {
		g.logLimiter = rate.NewLimiter(rate.Limit(cfg.ProgressLogsPerSec), 1)
	}
	return g
}

// ReserveMemory admits a bytes-sized allocation against the budget. It does
// not allocate anything itself; the caller allocates only after this
// returns nil. The reservation must be released with ReleaseMemory once
// the backing buffer is no longer needed.
func (g *Governor) ReserveMemory(bytes int64) error {
	if g == nil || bytes <= 0 {
		return nil
	}
	if g.memSem != nil && !g.memSem.TryAcquire(bytes) {
		return ErrResourceExhausted
	}
	return nil
}

// ReleaseMemory returns a reservation made by ReserveMemory.
func (g *Governor) ReleaseMemory(bytes int64) {
	if g == nil || bytes <= 0 {
		return
	}
	if g.memSem != nil {
		g.memSem.Release(bytes)
	}
}

// AcquireWorker blocks until a worker slot is available or ctx is done.
func (g *Governor) AcquireWorker(ctx context.Context) error {
	if g == nil {
		return nil
	}
	return g.workSem.Acquire(ctx, 1)
}

// ReleaseWorker returns a worker slot acquired via AcquireWorker.
func (g *Governor) ReleaseWorker() {
	if g == nil {
		return
	}
	g.workSem.Release(1)
}

// WorkerLimit reports the configured worker concurrency (at least 1).
func (g *Governor) WorkerLimit() int64 {
	if g == nil {
		return 1
	}
	return g.cfg.MaxWorkers
}

// WaitIO blocks until n bytes of snapshot IO are permitted under the rate
// limit, or ctx is done.
func (g *Governor) WaitIO(ctx context.Context, n int) error {
	if g == nil || g.ioLimiter == nil {
		return nil
	}
	return g.ioLimiter.WaitN(ctx, n)
}

// AllowProgressLog reports whether Iterate's per-iteration progress log
// line is permitted right now under ProgressLogsPerSec. A nil Governor,
// or one with no configured rate, never throttles.
func (g *Governor) AllowProgressLog() bool {
	if g == nil || g.logLimiter == nil {
		return true
	}
	return g.logLimiter.Allow()
}
