package safevec

import (
	"cmp"
	"context"
	"fmt"
	"slices"
)

// Range is a half-open interval [Start, End) of array indices. An empty
// range (Start == End) is valid anywhere within the array and overlaps
// nothing.
type Range struct {
	Start int
	End   int
}

// Slot returns the single-index range [i, i+1).
func Slot(i int) Range { return Range{Start: i, End: i + 1} }

// Len returns the number of indices the range covers.
func (r Range) Len() int { return r.End - r.Start }

// Overlaps reports whether r and o share at least one index.
func (r Range) Overlaps(o Range) bool {
	if r.Len() <= 0 || o.Len() <= 0 {
		return false
	}
	return r.Start < o.End && o.Start < r.End
}

// String formats the range in half-open notation, e.g. "[2,5)".
func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// validate checks r against an array of length n. The End bound may equal
// n; like a slice expression, the range covers indices up to End-1.
func (r Range) validate(op string, n int) error {
	if r.Start > r.End {
		return fmt.Errorf("safevec: %s range %s: %w", op, r, ErrInvalidRange)
	}
	if r.Start < 0 {
		return &BoundsError{Op: op, Index: r.Start, Len: n}
	}
	if r.End > n {
		return &BoundsError{Op: op, Index: r.End, Len: n}
	}
	return nil
}

// WorkFunc is the signature for an assignment's worker body. It receives
// the scope's context (observational only: a spawned worker always runs to
// completion) and the [Window] granting access to the assignment's range.
type WorkFunc[T any] func(ctx context.Context, w *Window[T]) error

// Assignment pairs a named range of the array with the function that will
// mutate it. The assignments handed to [Run] or [Begin] must have pairwise
// disjoint ranges.
type Assignment[T any] struct {
	Name  string
	Range Range
	Fn    WorkFunc[T]
}

func (asg Assignment[T]) info() AssignmentInfo {
	return AssignmentInfo{Name: asg.Name, Range: asg.Range}
}

// AssignmentInfo provides metadata about an assignment. It is carried by
// [*TaskError] and passed to observability hooks registered via
// [WithOnStart] and [WithOnDone].
type AssignmentInfo struct {
	Name  string
	Range Range
}

// Window is a worker's view of its assignment's range. Indices are
// window-relative: index 0 is the first element of the range. A Window
// aliases the array's backing storage, so writes land directly in the
// array and become visible to the owner at the scope's join barrier.
//
// A Window is valid only inside its assignment's [WorkFunc]. Retaining one
// past the worker's return and using it afterwards is a data race.
type Window[T any] struct {
	slots []T
	r     Range
}

// Len returns the number of elements the window covers.
func (w *Window[T]) Len() int { return len(w.slots) }

// Range returns the window's absolute range in the underlying array.
func (w *Window[T]) Range() Range { return w.r }

// Get returns the element at window-relative index i.
// Fails with a [*BoundsError] if i is negative or i >= [Window.Len].
func (w *Window[T]) Get(i int) (T, error) {
	if i < 0 || i >= len(w.slots) {
		var zero T
		return zero, &BoundsError{Op: "Window.Get", Index: i, Len: len(w.slots)}
	}
	return w.slots[i], nil
}

// Set replaces the element at window-relative index i.
// Fails with a [*BoundsError] if i is negative or i >= [Window.Len].
func (w *Window[T]) Set(i int, v T) error {
	if i < 0 || i >= len(w.slots) {
		return &BoundsError{Op: "Window.Set", Index: i, Len: len(w.slots)}
	}
	w.slots[i] = v
	return nil
}

// validateAssignments checks every range against the array length and the
// set for pairwise disjointness. It runs before any worker spawns, so a
// failure here means no element was touched.
func validateAssignments[T any](n int, assignments []Assignment[T]) error {
	for i := range assignments {
		if assignments[i].Fn == nil {
			panic(fmt.Sprintf("safevec: assignment %q has nil Fn", assignments[i].Name))
		}
		if err := assignments[i].Range.validate("Begin", n); err != nil {
			return err
		}
	}

	// Sorted by Start, disjoint non-empty ranges can only conflict with
	// the nearest non-empty neighbor.
	order := make([]int, len(assignments))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(x, y int) int {
		return cmp.Compare(assignments[x].Range.Start, assignments[y].Range.Start)
	})

	last := -1 // previous non-empty assignment in start order
	for _, idx := range order {
		if assignments[idx].Range.Len() == 0 {
			continue
		}
		if last >= 0 && assignments[last].Range.Overlaps(assignments[idx].Range) {
			return &OverlapError{A: assignments[last].info(), B: assignments[idx].info()}
		}
		last = idx
	}
	return nil
}
