package safevec

import (
	"context"
	"fmt"
)

// ForEachSlot runs fn once per element concurrently, each call as its own
// single-slot assignment. Disjointness holds by construction, so this is
// the safe way to fan read-modify work out over a whole array.
//
// This is a convenience wrapper around [Run] with one [Slot] assignment
// per index.
//
//	err := safevec.ForEachSlot(ctx, urls, func(ctx context.Context, i int, u string) error {
//	    return ping(ctx, u)
//	}, safevec.WithWorkerLimit(10))
func ForEachSlot[T any](ctx context.Context, a *Array[T], fn func(ctx context.Context, i int, v T) error, opts ...Option) error {
	assignments := make([]Assignment[T], a.Len())
	for i := range assignments {
		assignments[i] = Assignment[T]{
			Name:  fmt.Sprintf("slot[%d]", i),
			Range: Slot(i),
			Fn: func(ctx context.Context, w *Window[T]) error {
				v, err := w.Get(0)
				if err != nil {
					return err
				}
				return fn(ctx, i, v)
			},
		}
	}
	return Run(ctx, a, assignments, opts...)
}

// MapSlot replaces every element with fn's result, each slot transformed
// by its own worker. Each write lands in the slot the value came from, so
// disjointness holds by construction.
//
//	err := safevec.MapSlot(ctx, prices, func(ctx context.Context, i int, v float64) (float64, error) {
//	    return v * rate, nil
//	}, safevec.WithWorkerLimit(5))
func MapSlot[T any](ctx context.Context, a *Array[T], fn func(ctx context.Context, i int, v T) (T, error), opts ...Option) error {
	assignments := make([]Assignment[T], a.Len())
	for i := range assignments {
		assignments[i] = Assignment[T]{
			Name:  fmt.Sprintf("map[%d]", i),
			Range: Slot(i),
			Fn: func(ctx context.Context, w *Window[T]) error {
				v, err := w.Get(0)
				if err != nil {
					return err
				}
				r, err := fn(ctx, i, v)
				if err != nil {
					return err
				}
				return w.Set(0, r)
			},
		}
	}
	return Run(ctx, a, assignments, opts...)
}

// Partition splits [0, n) into at most parts contiguous ranges of
// near-equal size; the first n % parts ranges are one element longer.
// Returns fewer than parts ranges when n < parts, and nil when n is zero.
// Panics if parts is not positive or n is negative.
func Partition(n, parts int) []Range {
	if parts <= 0 {
		panic("safevec: Partition requires positive parts")
	}
	if n < 0 {
		panic("safevec: Partition requires non-negative n")
	}
	if n == 0 {
		return nil
	}
	if parts > n {
		parts = n
	}

	base, extra := n/parts, n%parts
	out := make([]Range, 0, parts)
	start := 0
	for i := range parts {
		size := base
		if i < extra {
			size++
		}
		out = append(out, Range{Start: start, End: start + size})
		start += size
	}
	return out
}

// Transform partitions the array into workers contiguous windows and runs
// fn on each concurrently. It is the bulk counterpart of [MapSlot]: one
// worker per partition instead of one per element, which keeps goroutine
// count flat on large arrays.
//
// Panics if workers is not positive.
func Transform[T any](ctx context.Context, a *Array[T], workers int, fn WorkFunc[T], opts ...Option) error {
	parts := Partition(a.Len(), workers)
	assignments := make([]Assignment[T], len(parts))
	for i, r := range parts {
		assignments[i] = Assignment[T]{
			Name:  fmt.Sprintf("part[%d]", i),
			Range: r,
			Fn:    fn,
		}
	}
	return Run(ctx, a, assignments, opts...)
}
