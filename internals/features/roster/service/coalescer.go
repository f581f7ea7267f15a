// file: internals/features/roster/service/coalescer.go
package service

import (
	"context"
	"sync"
	"time"
)

/* =========================================================
   Debounced write coalescer
   =========================================================

   Buffers rapid repeated edits per (record, field) and flushes a
   single store write after a quiet period. Only the last enqueued
   write for a key survives; earlier ones are superseded, not queued.

   The coalescer orders nothing against network completion: a slow
   flush can still land after a fresher one for the same key. That
   staleness window is the accepted contract — the next edit schedules
   the next write, it does not wait for the previous one.
*/

// WriteKey identifies one debounce slot. Field is empty for
// whole-record patches (children directory).
type WriteKey struct {
	RecordID string
	Field    string
}

// FlushFunc performs the remote write. It runs on a background
// goroutine, detached from the request that enqueued it.
type FlushFunc func(ctx context.Context)

type pendingWrite struct {
	timer *time.Timer
	fn    FlushFunc
	gen   uint64
}

type WriteCoalescer struct {
	mu      sync.Mutex
	quiet   time.Duration
	timeout time.Duration
	gen     uint64
	pending map[WriteKey]*pendingWrite
	wg      sync.WaitGroup
}

func NewWriteCoalescer(quiet time.Duration) *WriteCoalescer {
	if quiet <= 0 {
		quiet = 300 * time.Millisecond
	}
	return &WriteCoalescer{
		quiet:   quiet,
		timeout: 5 * time.Second,
		pending: make(map[WriteKey]*pendingWrite),
	}
}

// Enqueue (re)starts the quiet-period timer for key. A pending write
// for the same key is superseded. Returns immediately.
func (c *WriteCoalescer) Enqueue(key WriteKey, fn FlushFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.pending[key]; ok {
		p.timer.Stop()
	}
	c.gen++
	p := &pendingWrite{fn: fn, gen: c.gen}
	gen := c.gen
	p.timer = time.AfterFunc(c.quiet, func() { c.fire(key, gen) })
	c.pending[key] = p
}

func (c *WriteCoalescer) fire(key WriteKey, gen uint64) {
	c.mu.Lock()
	p, ok := c.pending[key]
	if !ok || p.gen != gen {
		// superseded while the timer goroutine was waiting on the lock
		c.mu.Unlock()
		return
	}
	delete(c.pending, key)
	c.wg.Add(1)
	c.mu.Unlock()

	defer c.wg.Done()
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	p.fn(ctx)
}

// FlushAll flushes every pending write immediately and waits for the
// in-flight ones. Used on shutdown so toggled cells are not lost.
func (c *WriteCoalescer) FlushAll() {
	c.mu.Lock()
	drained := make([]*pendingWrite, 0, len(c.pending))
	for key, p := range c.pending {
		p.timer.Stop()
		drained = append(drained, p)
		delete(c.pending, key)
	}
	c.mu.Unlock()

	for _, p := range drained {
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		p.fn(ctx)
		cancel()
	}
	c.wg.Wait()
}

// PendingCount is only used by tests and the health endpoint.
func (c *WriteCoalescer) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}
