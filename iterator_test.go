package safevec_test

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/baxromumarov/safevec"
)

func TestIterateYieldsAll(t *testing.T) {
	a := safevec.From([]int{1, 2, 3})
	it := a.Iterate()

	var out []int
	for {
		v, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out = append(out, v)
	}
	if len(out) != 3 || out[0] != 1 || out[1] != 2 || out[2] != 3 {
		t.Fatalf("expected [1 2 3], got %v", out)
	}

	// EOF is sticky.
	if _, err := it.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF after exhaustion, got %v", err)
	}
	if err := it.Err(); err != io.EOF {
		t.Fatalf("Err() = %v, want io.EOF", err)
	}
}

func TestIterateEmpty(t *testing.T) {
	a := safevec.New[int]()
	it := a.Iterate()
	if _, err := it.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF on empty array, got %v", err)
	}
}

func TestIteratorInvalidatedByPush(t *testing.T) {
	a := safevec.From([]int{1, 2, 3})
	it := a.Iterate()

	if v, err := it.Next(); err != nil || v != 1 {
		t.Fatalf("first Next = %d, %v", v, err)
	}

	a.Push(4)

	_, err := it.Next()
	if !safevec.IsInvalidated(err) {
		t.Fatalf("expected invalidation, got %v", err)
	}
	var ie *safevec.InvalidatedError
	if !errors.As(err, &ie) {
		t.Fatalf("expected *InvalidatedError, got %T", err)
	}
	if ie.Seen >= ie.Current {
		t.Fatalf("expected stale generation, got seen=%d current=%d", ie.Seen, ie.Current)
	}

	// Invalidation is sticky, even after further mutation.
	a.Push(5)
	if _, err := it.Next(); !safevec.IsInvalidated(err) {
		t.Fatalf("expected sticky invalidation, got %v", err)
	}
}

func TestIteratorInvalidatedByRemove(t *testing.T) {
	a := safevec.From([]int{1, 2, 3})
	it := a.Iterate()

	if _, err := a.RemoveAt(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := it.Next(); !safevec.IsInvalidated(err) {
		t.Fatalf("expected invalidation after RemoveAt, got %v", err)
	}
}

func TestSetDoesNotInvalidate(t *testing.T) {
	a := safevec.From([]int{1, 2, 3})
	it := a.Iterate()

	if _, err := it.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// An element write keeps iterators alive, and they observe it.
	if err := a.Set(1, 99); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := it.Next()
	if err != nil {
		t.Fatalf("unexpected error after Set: %v", err)
	}
	if v != 99 {
		t.Fatalf("expected to observe written value 99, got %d", v)
	}
}

func TestInvalidationWinsOverExhaustion(t *testing.T) {
	a := safevec.From([]int{1})
	it := a.Iterate()

	if _, err := it.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The iterator is positioned at the end but has not observed EOF.
	// A mutation now must surface as invalidation, not exhaustion.
	a.Push(2)
	if _, err := it.Next(); !safevec.IsInvalidated(err) {
		t.Fatalf("expected invalidation before EOF, got %v", err)
	}
}

func TestExhaustedIteratorStaysExhausted(t *testing.T) {
	a := safevec.From([]int{1})
	it := a.Iterate()

	if _, err := it.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := it.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}

	// Terminal state is sticky: mutation after observed EOF does not
	// resurrect the iterator as invalidated.
	a.Push(2)
	if _, err := it.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF to stick, got %v", err)
	}
}

func TestIteratorCollect(t *testing.T) {
	a := safevec.From([]int{1, 2, 3, 4})
	out, err := a.Iterate().Collect()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 4 {
		t.Fatalf("expected 4 elements, got %d", len(out))
	}

	a.Push(5)
	it := a.Iterate()
	a.Push(6)
	if _, err := it.Collect(); !safevec.IsInvalidated(err) {
		t.Fatalf("expected invalidation from Collect, got %v", err)
	}
}

func TestIteratorForEach(t *testing.T) {
	a := safevec.From([]int{1, 2, 3})
	sum := 0
	err := a.Iterate().ForEach(func(v int) error {
		sum += v
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != 6 {
		t.Fatalf("expected sum 6, got %d", sum)
	}

	stop := errors.New("stop")
	err = a.Iterate().ForEach(func(v int) error {
		if v == 2 {
			return stop
		}
		return nil
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected stop error, got %v", err)
	}
}

func TestIteratorCount(t *testing.T) {
	a := safevec.From([]int{1, 2, 3, 4, 5})
	n, err := a.Iterate().Count()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected 5, got %d", n)
	}
}

func TestFilterTakeSkip(t *testing.T) {
	a := safevec.From([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})

	even, err := a.Iterate().Filter(func(v int) bool { return v%2 == 0 }).Take(2).Collect()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(even) != 2 || even[0] != 2 || even[1] != 4 {
		t.Fatalf("expected [2 4], got %v", even)
	}

	tail, err := a.Iterate().Skip(8).Collect()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tail) != 2 || tail[0] != 9 || tail[1] != 10 {
		t.Fatalf("expected [9 10], got %v", tail)
	}
}

func TestMapIterator(t *testing.T) {
	a := safevec.From([]int{1, 2, 3})
	out, err := safevec.Map(a.Iterate(), func(v int) string {
		return fmt.Sprintf("#%d", v)
	}).Collect()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 3 || out[0] != "#1" || out[2] != "#3" {
		t.Fatalf("unexpected mapped output: %v", out)
	}
}

func TestReduce(t *testing.T) {
	a := safevec.From([]int{1, 2, 3, 4})
	sum, err := safevec.Reduce(a.Iterate(), 0, func(acc, v int) int { return acc + v })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum != 10 {
		t.Fatalf("expected 10, got %d", sum)
	}
}

func TestDerivedIteratorInvalidation(t *testing.T) {
	a := safevec.From([]int{1, 2, 3, 4, 5})
	filtered := a.Iterate().Filter(func(v int) bool { return v > 1 })

	if v, err := filtered.Next(); err != nil || v != 2 {
		t.Fatalf("first filtered Next = %d, %v", v, err)
	}

	a.Push(6)

	// Invalidation of the source surfaces through the whole chain.
	if _, err := filtered.Next(); !safevec.IsInvalidated(err) {
		t.Fatalf("expected invalidation through Filter, got %v", err)
	}
}

func TestTakeNegativePanics(t *testing.T) {
	a := safevec.From([]int{1})
	p := capturePanic(func() {
		a.Iterate().Take(-1)
	})
	if p == nil {
		t.Fatal("expected panic for negative Take")
	}
}

func TestStatsCountInvalidations(t *testing.T) {
	a := safevec.From([]int{1, 2, 3})
	it := a.Iterate()
	a.Push(4)
	_, _ = it.Next()

	if got := a.Stats().Invalidations; got != 1 {
		t.Fatalf("expected 1 recorded invalidation, got %d", got)
	}
}
