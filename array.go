package safevec

import "sync/atomic"

// Array is a growable dynamic array with explicit bounds checking and a
// generation counter stamping every structural change.
//
// The zero Array is an empty array ready for use. An Array is not safe for
// concurrent use: all access is single-goroutine, except that a [Run] or
// [Begin] scope takes exclusive ownership for its lifetime and hands
// disjoint [Window] views to its workers. [Array.Stats] is the one
// exception and may be called from any goroutine at any time.
//
// Structural changes are [Array.Push], [Array.RemoveAt], opening a
// [Drain] and the completion of a scope. Each bumps the generation, which
// outstanding iterators compare against before every element access.
// [Array.Set] is an element write, not a structural change.
type Array[T any] struct {
	buf []T // backing storage; len(buf) == Cap()
	n   int // live prefix of buf; n <= len(buf)

	gen      atomic.Uint64
	borrowed atomic.Bool // set while a scope owns the array

	// Mirrors and counters for Stats, which monitoring goroutines read
	// while the owner mutates the array.
	live          atomic.Int64
	capacity      atomic.Int64
	pushes        atomic.Int64
	removes       atomic.Int64
	grows         atomic.Int64
	scopes        atomic.Int64
	drains        atomic.Int64
	invalidations atomic.Int64
}

// New returns an empty [Array]. It is equivalent to new(Array[T]) and
// exists for symmetry with [NewWithCapacity] and [From].
func New[T any]() *Array[T] {
	return &Array[T]{}
}

// NewWithCapacity returns an empty [Array] with room for n elements before
// the first growth. Panics if n is negative.
func NewWithCapacity[T any](n int) *Array[T] {
	if n < 0 {
		panic("safevec: NewWithCapacity requires non-negative capacity")
	}
	a := &Array[T]{buf: make([]T, n)}
	a.capacity.Store(int64(n))
	return a
}

// From returns an [Array] holding a copy of items. The slice is not
// retained: later mutation of items is invisible to the array.
func From[T any](items []T) *Array[T] {
	a := &Array[T]{
		buf: make([]T, len(items)),
		n:   len(items),
	}
	copy(a.buf, items)
	a.live.Store(int64(len(items)))
	a.capacity.Store(int64(len(items)))
	return a
}

// Len returns the number of live elements.
func (a *Array[T]) Len() int { return a.n }

// Cap returns the size of the backing storage.
func (a *Array[T]) Cap() int { return len(a.buf) }

// Generation returns the current structural generation. It increases with
// every structural change and never decreases.
func (a *Array[T]) Generation() uint64 { return a.gen.Load() }

// Get returns the element at index i.
// Fails with a [*BoundsError] if i is negative or i >= [Array.Len].
func (a *Array[T]) Get(i int) (T, error) {
	a.ensureOwned("Get")
	if i < 0 || i >= a.n {
		var zero T
		return zero, &BoundsError{Op: "Get", Index: i, Len: a.n}
	}
	return a.buf[i], nil
}

// Set replaces the element at index i. Set does not bump the generation:
// outstanding iterators keep yielding and will observe the new value.
// Fails with a [*BoundsError] if i is negative or i >= [Array.Len].
func (a *Array[T]) Set(i int, v T) error {
	a.ensureOwned("Set")
	if i < 0 || i >= a.n {
		return &BoundsError{Op: "Set", Index: i, Len: a.n}
	}
	a.buf[i] = v
	return nil
}

// Push appends v, doubling the backing storage when full so a sequence of
// pushes costs amortized O(1). Push bumps the generation.
func (a *Array[T]) Push(v T) {
	a.ensureOwned("Push")
	if a.n == len(a.buf) {
		a.grow(a.n + 1)
	}
	a.buf[a.n] = v
	a.n++
	a.live.Store(int64(a.n))
	a.pushes.Add(1)
	a.gen.Add(1)
}

// RemoveAt removes and returns the element at index i, shifting every
// later element left by one. RemoveAt bumps the generation.
// Fails with a [*BoundsError] if i is negative or i >= [Array.Len].
func (a *Array[T]) RemoveAt(i int) (T, error) {
	a.ensureOwned("RemoveAt")
	if i < 0 || i >= a.n {
		var zero T
		return zero, &BoundsError{Op: "RemoveAt", Index: i, Len: a.n}
	}
	v := a.buf[i]
	copy(a.buf[i:], a.buf[i+1:a.n])
	a.n--
	var zero T
	a.buf[a.n] = zero // release the vacated slot
	a.live.Store(int64(a.n))
	a.removes.Add(1)
	a.gen.Add(1)
	return v, nil
}

// grow resizes the backing storage to hold at least need elements.
func (a *Array[T]) grow(need int) {
	newCap := len(a.buf) * 2
	if newCap < 4 {
		newCap = 4
	}
	if newCap < need {
		newCap = need
	}
	next := make([]T, newCap)
	copy(next, a.buf[:a.n])
	a.buf = next
	a.capacity.Store(int64(newCap))
	a.grows.Add(1)
}

// ensureOwned panics if the array is borrowed by a running scope.
// Touching a borrowed array from outside its windows is a programming
// error, not a recoverable condition.
func (a *Array[T]) ensureOwned(op string) {
	if a.borrowed.Load() {
		panic("safevec: " + op + " called while a scope borrows the array")
	}
}

// Stats is a point-in-time snapshot of an [Array]'s counters.
type Stats struct {
	Len        int64
	Cap        int64
	Generation uint64

	Pushes        int64
	Removes       int64
	Grows         int64
	Scopes        int64 // completed scopes
	Drains        int64 // opened drains
	Invalidations int64 // calls that observed a stale generation
}

// Stats returns a snapshot of the array's counters. Unlike every other
// Array method it is safe to call concurrently with any operation,
// including from monitoring goroutines while a scope runs.
func (a *Array[T]) Stats() Stats {
	return Stats{
		Len:           a.live.Load(),
		Cap:           a.capacity.Load(),
		Generation:    a.gen.Load(),
		Pushes:        a.pushes.Load(),
		Removes:       a.removes.Load(),
		Grows:         a.grows.Load(),
		Scopes:        a.scopes.Load(),
		Drains:        a.drains.Load(),
		Invalidations: a.invalidations.Load(),
	}
}
