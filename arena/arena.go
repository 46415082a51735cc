// Package arena provides a slab-backed object store whose handles
// detect reuse: freeing a slot retires every handle that pointed at it,
// so a stale handle fails with an error instead of yielding whatever
// value the slot holds now.
//
// Slots carry a generation that increments on every allocation and
// every free. A [Handle] remembers the generation it was issued under
// and is rejected the moment the slot moves on, even if the slot has
// since been recycled for a new allocation.
//
// The zero Arena is ready to use. An Arena is not safe for concurrent
// use; guard it externally or give each goroutine its own.
package arena

import "errors"

// ErrStaleHandle reports a handle whose slot was freed, reset, or
// recycled after the handle was issued.
var ErrStaleHandle = errors.New("arena: stale handle")

// Handle identifies a single allocation. Handles are small, comparable
// and cheap to copy. The zero Handle is never valid.
type Handle struct {
	index int
	gen   uint64
}

// slot generations are odd while live and even while free, so a zero
// handle can never match a live slot.
type slot[T any] struct {
	value T
	gen   uint64
	next  int // free-list link, meaningful only while free
}

func (s *slot[T]) live() bool { return s.gen%2 == 1 }

// Arena is a growable slab of T addressed through generation-checked
// handles. Freed slots are recycled most-recently-freed first.
type Arena[T any] struct {
	slots []slot[T]
	free  int // head of the free list; == len(slots) when empty
	count int
}

// New returns an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// NewWithCapacity returns an empty arena with room for n allocations
// before the slab grows. Panics if n is negative.
func NewWithCapacity[T any](n int) *Arena[T] {
	if n < 0 {
		panic("arena: capacity must be non-negative")
	}
	return &Arena[T]{slots: make([]slot[T], 0, n)}
}

// Alloc stores v and returns the handle for it, reusing a freed slot
// when one is available.
func (a *Arena[T]) Alloc(v T) Handle {
	if a.free == len(a.slots) {
		a.slots = append(a.slots, slot[T]{value: v, gen: 1})
		a.free++
		a.count++
		return Handle{index: len(a.slots) - 1, gen: 1}
	}

	i := a.free
	s := &a.slots[i]
	a.free = s.next
	s.value = v
	s.gen++ // even -> odd, the slot is live again
	a.count++
	return Handle{index: i, gen: s.gen}
}

// Get returns the value h points at.
// Fails with [ErrStaleHandle] if the slot was freed since h was issued.
func (a *Arena[T]) Get(h Handle) (T, error) {
	s, err := a.slot(h)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.value, nil
}

// Set replaces the value h points at.
// Fails with [ErrStaleHandle] if the slot was freed since h was issued.
func (a *Arena[T]) Set(h Handle, v T) error {
	s, err := a.slot(h)
	if err != nil {
		return err
	}
	s.value = v
	return nil
}

// Free releases h's slot and returns the value it held. The slot goes
// back on the free list; h and every copy of it are stale afterwards.
func (a *Arena[T]) Free(h Handle) (T, error) {
	var zero T
	s, err := a.slot(h)
	if err != nil {
		return zero, err
	}

	v := s.value
	s.value = zero // release the stored value
	s.gen++        // odd -> even, retiring outstanding handles
	s.next = a.free
	a.free = h.index
	a.count--
	return v, nil
}

// Reset frees every live slot at once, keeping the slab memory for
// reuse. All outstanding handles become stale.
func (a *Arena[T]) Reset() {
	var zero T
	for i := range a.slots {
		s := &a.slots[i]
		if !s.live() {
			continue
		}
		s.value = zero
		s.gen++
		s.next = a.free
		a.free = i
	}
	a.count = 0
}

// Len returns the number of live allocations.
func (a *Arena[T]) Len() int { return a.count }

// Cap returns the number of allocations the arena can hold before the
// slab grows.
func (a *Arena[T]) Cap() int { return cap(a.slots) }

// All iterates over the live allocations in slot order, stopping early
// when f returns false. It is a range-over-func iterator:
//
//	for h, v := range a.All {
//		...
//	}
//
// Allocating or freeing during the walk is allowed but slots touched
// behind the cursor are not revisited.
func (a *Arena[T]) All(f func(Handle, T) bool) {
	for i := range a.slots {
		s := &a.slots[i]
		if !s.live() {
			continue
		}
		if !f(Handle{index: i, gen: s.gen}, s.value) {
			break
		}
	}
}

func (a *Arena[T]) slot(h Handle) (*slot[T], error) {
	if h.index < 0 || h.index >= len(a.slots) || h.gen%2 == 0 {
		return nil, ErrStaleHandle
	}
	s := &a.slots[h.index]
	if s.gen != h.gen {
		return nil, ErrStaleHandle
	}
	return s, nil
}
