// file: internals/features/roster/service/coalescer_test.go
package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type flushRecorder struct {
	mu     sync.Mutex
	values []bool
}

func (r *flushRecorder) record(v bool) FlushFunc {
	return func(ctx context.Context) {
		r.mu.Lock()
		r.values = append(r.values, v)
		r.mu.Unlock()
	}
}

func (r *flushRecorder) snapshot() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.values...)
}

func TestCoalescerCollapsesRapidTogglesToLastValue(t *testing.T) {
	co := NewWriteCoalescer(30 * time.Millisecond)
	rec := &flushRecorder{}
	key := WriteKey{RecordID: "child-1", Field: "present"}

	// true → false → true → false inside one quiet window
	co.Enqueue(key, rec.record(true))
	co.Enqueue(key, rec.record(false))
	co.Enqueue(key, rec.record(true))
	co.Enqueue(key, rec.record(false))

	time.Sleep(120 * time.Millisecond)

	got := rec.snapshot()
	assert.Equal(t, []bool{false}, got, "only the last value may reach the store")
	assert.Equal(t, 0, co.PendingCount())
}

func TestCoalescerSeparateKeysFlushIndependently(t *testing.T) {
	co := NewWriteCoalescer(20 * time.Millisecond)
	rec := &flushRecorder{}

	co.Enqueue(WriteKey{RecordID: "child-1", Field: "present"}, rec.record(true))
	co.Enqueue(WriteKey{RecordID: "child-2", Field: "present"}, rec.record(true))
	co.Enqueue(WriteKey{RecordID: "child-1", Field: "massPresent"}, rec.record(false))

	time.Sleep(100 * time.Millisecond)

	assert.Len(t, rec.snapshot(), 3)
}

func TestCoalescerSpacedWritesAllFlush(t *testing.T) {
	co := NewWriteCoalescer(10 * time.Millisecond)
	rec := &flushRecorder{}
	key := WriteKey{RecordID: "child-1", Field: "present"}

	co.Enqueue(key, rec.record(true))
	time.Sleep(50 * time.Millisecond)
	co.Enqueue(key, rec.record(false))
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, []bool{true, false}, rec.snapshot())
}

func TestFlushAllRunsPendingWritesImmediately(t *testing.T) {
	// long quiet period: nothing would flush on its own during the test
	co := NewWriteCoalescer(10 * time.Second)
	rec := &flushRecorder{}

	co.Enqueue(WriteKey{RecordID: "child-1", Field: "present"}, rec.record(true))
	co.Enqueue(WriteKey{RecordID: "child-2", Field: "present"}, rec.record(false))
	assert.Equal(t, 2, co.PendingCount())

	co.FlushAll()

	assert.Len(t, rec.snapshot(), 2)
	assert.Equal(t, 0, co.PendingCount())
}

func TestCoalescerDefaultQuietPeriod(t *testing.T) {
	co := NewWriteCoalescer(0)
	assert.Equal(t, 300*time.Millisecond, co.quiet)
}
