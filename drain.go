package safevec

import "io"

// Drain removes a range from an [Array], yielding the removed elements
// one at a time in index order. Create one with [Array.Drain]; finish
// with [Drain.Close], which reattaches the tail (the elements that
// followed the range) into the vacated slots.
//
// A Drain is protected by the array's generation, not by the scope
// borrow. Structurally mutating the array while a drain is open
// invalidates the drain, and an invalidated Close forfeits the tail
// rather than resurrecting slots the mutation may have overwritten.
// Abandoning a drain without Close leaves the array truncated at the
// range start: the cost of losing a drain is lost elements, never a
// corrupted array.
type Drain[T any] struct {
	a       *Array[T]
	r       Range
	origLen int
	pos     int // yielded so far, relative to r.Start
	seen    uint64

	err      error // sticky iteration error
	closed   bool
	closeErr error
}

// Drain removes the range r from the array and returns a [Drain] yielding
// the removed elements. Opening a drain is structural: the generation
// bumps and [Array.Len] drops to r.Start until [Drain.Close] reattaches
// the tail.
//
// Fails with a [*BoundsError] or wrapped [ErrInvalidRange] if r is
// malformed or reaches past [Array.Len]. Panics if called while a scope
// borrows the array.
func (a *Array[T]) Drain(r Range) (*Drain[T], error) {
	a.ensureOwned("Drain")
	if err := r.validate("Drain", a.n); err != nil {
		return nil, err
	}

	orig := a.n
	a.n = r.Start
	a.live.Store(int64(a.n))
	a.drains.Add(1)
	a.gen.Add(1)

	return &Drain[T]{
		a:       a,
		r:       r,
		origLen: orig,
		seen:    a.gen.Load(),
	}, nil
}

// Next returns the next removed element. It fails with
// [*InvalidatedError] if the array was structurally mutated since the
// drain opened (the generation comparison happens before any element
// access) and with [io.EOF] once the range is exhausted or the drain is
// closed. Errors are sticky.
func (d *Drain[T]) Next() (T, error) {
	var zero T
	if d.err != nil {
		return zero, d.err
	}
	if d.closed {
		d.err = io.EOF
		return zero, d.err
	}
	d.a.ensureOwned("Drain.Next")
	if cur := d.a.gen.Load(); cur != d.seen {
		d.a.invalidations.Add(1)
		d.err = &InvalidatedError{Seen: d.seen, Current: cur}
		return zero, d.err
	}
	if d.pos >= d.r.Len() {
		d.err = io.EOF
		return zero, d.err
	}
	v := d.a.buf[d.r.Start+d.pos]
	d.pos++
	return v, nil
}

// Close ends the drain and shifts the tail into the vacated slots.
// Elements of the range not yet yielded are discarded. Close bumps the
// generation and is idempotent; later calls return the first result.
//
// If the array was structurally mutated while the drain was open, Close
// returns the [*InvalidatedError] and leaves the array as the mutation
// made it: the tail stays forfeited.
func (d *Drain[T]) Close() error {
	if d.closed {
		return d.closeErr
	}
	d.closed = true

	d.a.ensureOwned("Drain.Close")
	if cur := d.a.gen.Load(); cur != d.seen {
		d.a.invalidations.Add(1)
		d.closeErr = &InvalidatedError{Seen: d.seen, Current: cur}
		return d.closeErr
	}

	a := d.a
	copy(a.buf[d.r.Start:], a.buf[d.r.End:d.origLen])
	newLen := d.origLen - d.r.Len()
	var zero T
	for i := newLen; i < d.origLen; i++ {
		a.buf[i] = zero // release the drained slots
	}
	a.n = newLen
	a.live.Store(int64(newLen))
	a.gen.Add(1)
	return nil
}

// Collect yields the remaining elements, closes the drain and returns
// them. On invalidation it returns the elements yielded so far alongside
// the error.
func (d *Drain[T]) Collect() ([]T, error) {
	var out []T
	for {
		v, err := d.Next()
		if err == io.EOF {
			return out, d.Close()
		}
		if err != nil {
			d.Close()
			return out, err
		}
		out = append(out, v)
	}
}
