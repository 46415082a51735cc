package safevec

import "io"

// Iterator yields an [Array]'s elements in index order. It captures the
// array's generation at creation and compares it against the array's
// current generation before every element access, failing with
// [*InvalidatedError] the moment a structural mutation is observed.
//
// Exhaustion is reported as [io.EOF]. Both exhaustion and invalidation are
// sticky: once Next has returned a non-nil error it returns that error
// forever. An Iterator is not restartable; call [Array.Iterate] again for
// a fresh pass.
//
// Note: Iterators are single-consumer. Next and the terminal methods must
// not be called concurrently.
type Iterator[T any] struct {
	next func() (T, error)
	err  error
}

// Iterate returns an [Iterator] over the array's elements, stamped with
// the array's current generation.
//
// Panics if called while a scope borrows the array.
func (a *Array[T]) Iterate() *Iterator[T] {
	a.ensureOwned("Iterate")
	pos := 0
	seen := a.gen.Load()
	return &Iterator[T]{
		next: func() (T, error) {
			var zero T
			a.ensureOwned("Iterator.Next")
			// Generation comparison happens before any element access,
			// so a stale iterator can never yield from mutated storage.
			if cur := a.gen.Load(); cur != seen {
				a.invalidations.Add(1)
				return zero, &InvalidatedError{Seen: seen, Current: cur}
			}
			if pos >= a.n {
				return zero, io.EOF
			}
			v := a.buf[pos]
			pos++
			return v, nil
		},
	}
}

// Next returns the next element.
// Returns io.EOF when the iterator is exhausted.
func (it *Iterator[T]) Next() (T, error) {
	if it.err != nil {
		var zero T
		return zero, it.err
	}
	v, err := it.next()
	if err != nil {
		it.err = err
		var zero T
		return zero, err
	}
	return v, nil
}

// Err returns the iterator's terminal error: nil while the iterator is
// still yielding, [io.EOF] after normal exhaustion, or the error that
// stopped it.
func (it *Iterator[T]) Err() error {
	return it.err
}

// Collect drains the iterator and returns the yielded elements. On
// invalidation it returns the elements yielded so far alongside the
// error, following [io.Reader] conventions; plain exhaustion is not an
// error.
func (it *Iterator[T]) Collect() ([]T, error) {
	var out []T
	for {
		v, err := it.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
}

// ForEach invokes fn for each remaining element, stopping at the first
// error from fn or from the iterator. Exhaustion is not an error.
func (it *Iterator[T]) ForEach(fn func(T) error) error {
	for {
		v, err := it.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := fn(v); err != nil {
			return err
		}
	}
}

// Count consumes the iterator and returns the number of elements yielded.
func (it *Iterator[T]) Count() (int, error) {
	n := 0
	for {
		_, err := it.Next()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return n, err
		}
		n++
	}
}
