// ABOUTME: Single-producer single-consumer ring buffer
// ABOUTME: Hands commands from caller goroutines to the real-time callback without locks
package mixer

import "sync/atomic"

// ring is safe for exactly one pushing goroutine and one popping goroutine
type ring[T any] struct {
	buf  []T
	mask uint64
	head atomic.Uint64 // next slot to pop (consumer owned)
	tail atomic.Uint64 // next slot to push (producer owned)
}

func newRing[T any](capacity int) *ring[T] {
	size := 1
	for size < capacity {
		size <<= 1
	}
	return &ring[T]{
		buf:  make([]T, size),
		mask: uint64(size - 1),
	}
}

func (r *ring[T]) push(v T) bool {
	tail := r.tail.Load()
	if tail-r.head.Load() == uint64(len(r.buf)) {
		return false
	}
	r.buf[tail&r.mask] = v
	r.tail.Store(tail + 1)
	return true
}

func (r *ring[T]) pop() (T, bool) {
	var zero T
	head := r.head.Load()
	if head == r.tail.Load() {
		return zero, false
	}
	v := r.buf[head&r.mask]
	r.buf[head&r.mask] = zero
	r.head.Store(head + 1)
	return v, true
}

func (r *ring[T]) len() int {
	return int(r.tail.Load() - r.head.Load())
}
