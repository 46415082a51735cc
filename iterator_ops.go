package safevec

import "io"

// Filter returns an iterator yielding only the elements for which pred is
// true. The derived iterator rides on the source: invalidation or
// exhaustion of the source surfaces through it unchanged.
//
// Panics if pred is nil.
func (it *Iterator[T]) Filter(pred func(T) bool) *Iterator[T] {
	if pred == nil {
		panic("safevec: Filter requires non-nil predicate")
	}
	return &Iterator[T]{
		next: func() (T, error) {
			for {
				v, err := it.Next()
				if err != nil {
					var zero T
					return zero, err
				}
				if pred(v) {
					return v, nil
				}
			}
		},
	}
}

// Take limits the iterator to n elements. After n elements it reports
// [io.EOF] without touching the source again.
// Panics if n is negative.
func (it *Iterator[T]) Take(n int) *Iterator[T] {
	if n < 0 {
		panic("safevec: Take requires non-negative n")
	}
	remaining := n
	return &Iterator[T]{
		next: func() (T, error) {
			if remaining == 0 {
				var zero T
				return zero, io.EOF
			}
			v, err := it.Next()
			if err != nil {
				var zero T
				return zero, err
			}
			remaining--
			return v, nil
		},
	}
}

// Skip discards the first n elements of the iterator, then yields the
// rest. The skip happens lazily on the first Next call.
// Panics if n is negative.
func (it *Iterator[T]) Skip(n int) *Iterator[T] {
	if n < 0 {
		panic("safevec: Skip requires non-negative n")
	}
	skipped := false
	return &Iterator[T]{
		next: func() (T, error) {
			if !skipped {
				skipped = true
				for range n {
					if _, err := it.Next(); err != nil {
						var zero T
						return zero, err
					}
				}
			}
			return it.Next()
		},
	}
}

// Map returns an iterator applying fn to each element. Map is a function
// rather than a method so the element type can change.
//
// Panics if it is nil or fn is nil.
func Map[T, R any](it *Iterator[T], fn func(T) R) *Iterator[R] {
	if it == nil {
		panic("safevec: Map requires non-nil source iterator")
	}
	if fn == nil {
		panic("safevec: Map requires non-nil transform")
	}
	return &Iterator[R]{
		next: func() (R, error) {
			v, err := it.Next()
			if err != nil {
				var zero R
				return zero, err
			}
			return fn(v), nil
		},
	}
}

// Reduce folds the iterator into a single value, applying fn cumulatively
// starting from initial. On invalidation it returns the accumulation so
// far alongside the error.
//
// Panics if it is nil or fn is nil.
func Reduce[T, R any](it *Iterator[T], initial R, fn func(R, T) R) (R, error) {
	if it == nil {
		panic("safevec: Reduce requires non-nil source iterator")
	}
	if fn == nil {
		panic("safevec: Reduce requires non-nil accumulator")
	}
	acc := initial
	for {
		v, err := it.Next()
		if err == io.EOF {
			return acc, nil
		}
		if err != nil {
			return acc, err
		}
		acc = fn(acc, v)
	}
}
