// Package rewind records the state of opted-in game objects into per-object
// ring buffers and plays it back in reverse on demand.
//
// The package has no knowledge of rendering, physics or input. Objects take
// part by implementing Participant; a Coordinator samples them on a
// fixed-step clock and, while rewinding, walks a playhead backward on the
// frame clock, interpolating between recorded snapshots.
package rewind

import (
	"errors"
	"fmt"
	"sort"
)

// Buffer errors. These indicate a logic bug in the caller and are wrapped
// with context; test with errors.Is.
var (
	ErrEmptyBuffer     = errors.New("rewind: buffer is empty")
	ErrIndexOutOfRange = errors.New("rewind: index out of range")
	ErrInvalidArgument = errors.New("rewind: invalid argument")
)

// RingBuffer is a fixed-capacity circular store ordered oldest to newest.
// Once full, Add overwrites the oldest entry.
type RingBuffer[T any] struct {
	items []T
	head  int // next write position
	tail  int // oldest entry
	count int
}

// NewRingBuffer creates a buffer holding at most capacity entries.
func NewRingBuffer[T any](capacity int) (*RingBuffer[T], error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidArgument, capacity)
	}
	return &RingBuffer[T]{items: make([]T, capacity)}, nil
}

// Count returns the number of stored entries.
func (b *RingBuffer[T]) Count() int {
	return b.count
}

// Capacity returns the maximum number of entries.
func (b *RingBuffer[T]) Capacity() int {
	return len(b.items)
}

// HasStates reports whether the buffer holds at least one entry.
func (b *RingBuffer[T]) HasStates() bool {
	return b.count > 0
}

// IsFull reports whether the next Add will overwrite the oldest entry.
func (b *RingBuffer[T]) IsFull() bool {
	return b.count == len(b.items)
}

// Add appends item as the newest entry.
func (b *RingBuffer[T]) Add(item T) {
	b.items[b.head] = item
	b.head = (b.head + 1) % len(b.items)

	if b.count < len(b.items) {
		b.count++
		return
	}
	// Full: the slot just written was the oldest one.
	b.tail = (b.tail + 1) % len(b.items)
}

// Get returns the entry at logical index i (0 = oldest, Count-1 = newest).
func (b *RingBuffer[T]) Get(i int) (T, error) {
	if i < 0 || i >= b.count {
		var zero T
		return zero, fmt.Errorf("%w: index %d, count %d", ErrIndexOutOfRange, i, b.count)
	}
	return b.at(i), nil
}

// at is Get without the bounds check.
func (b *RingBuffer[T]) at(i int) T {
	return b.items[(b.tail+i)%len(b.items)]
}

// Newest returns the most recently added entry.
func (b *RingBuffer[T]) Newest() (T, error) {
	if b.count == 0 {
		var zero T
		return zero, ErrEmptyBuffer
	}
	return b.at(b.count - 1), nil
}

// Oldest returns the oldest retained entry.
func (b *RingBuffer[T]) Oldest() (T, error) {
	if b.count == 0 {
		var zero T
		return zero, ErrEmptyBuffer
	}
	return b.at(0), nil
}

// PopNewest removes and returns the newest entry.
func (b *RingBuffer[T]) PopNewest() (T, error) {
	if b.count == 0 {
		var zero T
		return zero, ErrEmptyBuffer
	}
	b.head = (b.head - 1 + len(b.items)) % len(b.items)
	b.count--
	item := b.items[b.head]
	var zero T
	b.items[b.head] = zero
	return item, nil
}

// TrimToCount keeps only the oldest keep entries. It is a no-op when keep
// is not smaller than Count.
func (b *RingBuffer[T]) TrimToCount(keep int) error {
	if keep < 0 {
		return fmt.Errorf("%w: trim count must not be negative, got %d", ErrInvalidArgument, keep)
	}
	if keep >= b.count {
		return nil
	}

	// Release dropped entries so snapshots with extras maps can be collected.
	var zero T
	for i := keep; i < b.count; i++ {
		b.items[(b.tail+i)%len(b.items)] = zero
	}
	b.count = keep
	b.head = (b.tail + keep) % len(b.items)
	return nil
}

// Clear removes every entry.
func (b *RingBuffer[T]) Clear() {
	clear(b.items)
	b.head = 0
	b.tail = 0
	b.count = 0
}

// FindClosestIndex returns the index whose timestamp is nearest target, or
// -1 when the buffer is empty. Entries must be in ascending timestamp order.
// Ties resolve to the first index at or after target; the left neighbour
// wins only when it is strictly closer.
func (b *RingBuffer[T]) FindClosestIndex(target float64, timestampOf func(T) float64) int {
	if b.count == 0 {
		return -1
	}

	left := b.lowerBound(target, timestampOf)
	if left == b.count {
		left = b.count - 1
	}

	if left > 0 {
		cur := timestampOf(b.at(left))
		prev := timestampOf(b.at(left - 1))
		if absf(prev-target) < absf(cur-target) {
			return left - 1
		}
	}
	return left
}

// InterpolationStates returns the pair of entries bracketing target and the
// normalized position of target between them. When target lies before the
// oldest entry, at or after the newest entry, or the buffer holds a single
// entry, before and after are the same entry and t is 0: callers clamp
// rather than extrapolate.
func (b *RingBuffer[T]) InterpolationStates(target float64, timestampOf func(T) float64) (before, after T, t float64, err error) {
	if b.count == 0 {
		return before, after, 0, ErrEmptyBuffer
	}

	oldest := b.at(0)
	if b.count == 1 || target <= timestampOf(oldest) {
		return oldest, oldest, 0, nil
	}

	newest := b.at(b.count - 1)
	if target >= timestampOf(newest) {
		return newest, newest, 0, nil
	}

	// First entry at or after target; it is in (0, count-1] here.
	idx := b.lowerBound(target, timestampOf)
	before = b.at(idx - 1)
	after = b.at(idx)

	t0 := timestampOf(before)
	duration := timestampOf(after) - t0
	if duration > 0 {
		t = clamp01((target - t0) / duration)
	}
	return before, after, t, nil
}

// CountAtOrBefore returns how many leading entries have a timestamp not
// greater than target.
func (b *RingBuffer[T]) CountAtOrBefore(target float64, timestampOf func(T) float64) int {
	return sort.Search(b.count, func(i int) bool {
		return timestampOf(b.at(i)) > target
	})
}

// lowerBound returns the first index whose timestamp is >= target, or Count
// if there is none.
func (b *RingBuffer[T]) lowerBound(target float64, timestampOf func(T) float64) int {
	return sort.Search(b.count, func(i int) bool {
		return timestampOf(b.at(i)) >= target
	})
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
