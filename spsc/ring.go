// Package spsc implements a bounded, wait-free queue for exactly one producer goroutine and exactly
// one consumer goroutine.
//
// It is the hand-off between the audio callback and everything else: neither side ever blocks,
// locks or allocates, so a slow consumer can never stall the audio thread and vice versa.
package spsc

import (
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/sys/cpu"
)

// Ring is a fixed-capacity FIFO with separate read and write cursors.
//
// TryPush may only be called from one goroutine at a time, and so may TryPop. When the ring is full,
// TryPush rejects the new value and keeps the unread ones (drop newest).
type Ring[T any] struct {
	buf []T

	_    cpu.CacheLinePad
	head atomic.Uint64 // next slot to read, owned by the consumer
	_    cpu.CacheLinePad
	tail atomic.Uint64 // next slot to write, owned by the producer
	_    cpu.CacheLinePad
}

// New allocates a ring holding up to capacity values. The ring never grows.
func New[T any](capacity int) (*Ring[T], error) {
	if capacity < 1 {
		return nil, errors.Errorf("spsc: invalid capacity: %d", capacity)
	}
	return &Ring[T]{buf: make([]T, capacity)}, nil
}

// TryPush appends v if there is room and reports whether it did. A false result means v was
// discarded.
func (r *Ring[T]) TryPush(v T) bool {
	tail := r.tail.Load()
	if tail-r.head.Load() >= uint64(len(r.buf)) {
		return false
	}
	r.buf[tail%uint64(len(r.buf))] = v
	// publishing the cursor makes the slot visible to the consumer
	r.tail.Store(tail + 1)
	return true
}

// TryPop removes and returns the oldest value. The second result is false if the ring is empty.
func (r *Ring[T]) TryPop() (v T, ok bool) {
	head := r.head.Load()
	if head == r.tail.Load() {
		return v, false
	}
	i := head % uint64(len(r.buf))
	v = r.buf[i]
	var zero T
	r.buf[i] = zero
	r.head.Store(head + 1)
	return v, true
}

// Len returns the number of unread values. It is exact only when called from the producer or the
// consumer while the other side is idle; otherwise it's a snapshot.
func (r *Ring[T]) Len() int {
	head := r.head.Load()
	return int(r.tail.Load() - head)
}

// Cap returns the capacity the ring was created with.
func (r *Ring[T]) Cap() int {
	return len(r.buf)
}
