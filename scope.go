// Scope implements scoped parallel mutation: a group of worker goroutines
// that exclusively borrows an Array, mutates pairwise disjoint ranges of it
// through Window views, and returns ownership at a join barrier that always
// completes. Failures never cancel siblings; every spawned worker runs to
// completion and all failures are aggregated at the barrier.
//
// A Scope is created by Begin() and finalized by Wait(). Run() bundles the
// two for the common case:
//
//	err := safevec.Run(ctx, a, []safevec.Assignment[int]{
//	    {Name: "front", Range: safevec.Range{Start: 0, End: mid}, Fn: fill},
//	    {Name: "back", Range: safevec.Range{Start: mid, End: a.Len()}, Fn: fill},
//	})
package safevec

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// Scope tracks the workers of one [Begin] call: the join barrier, error
// aggregation and observability state. The zero Scope is not usable;
// obtain one from [Begin].
type Scope struct {
	ctx context.Context
	cfg config

	wg       sync.WaitGroup
	joined   chan struct{} // closed once every worker has finished
	joinOnce sync.Once

	errMu   sync.Mutex
	errs    []*TaskError
	dropped int // errors exceeding the maxErrors cap

	finOnce sync.Once
	finErr  error

	release func() // returns the array borrow; runs exactly once in finalize

	sem chan struct{}

	// Observability counters.
	totalSpawned atomic.Int64
	active       atomic.Int64
	completed    atomic.Int64
	errored      atomic.Int64
	panicked     atomic.Int64

	trackMu sync.Mutex
	started map[int]trackEntry

	stopMon chan struct{}
	monWg   sync.WaitGroup
}

// Run is the primary entry point for scoped parallel mutation: it
// validates the assignments, borrows the array, runs one worker goroutine
// per assignment and waits for the join barrier.
//
// On success every assignment ran and returned nil. On failure Run returns
// either a pre-spawn validation error (no element touched, nothing
// spawned) or the [*TaskError]s of every failed assignment joined via
// [errors.Join]. Siblings are never cancelled, so a multi-failure run
// reports every failure, not just the first.
func Run[T any](ctx context.Context, a *Array[T], assignments []Assignment[T], opts ...Option) error {
	s, err := Begin(ctx, a, assignments, opts...)
	if err != nil {
		return err
	}
	return s.Wait()
}

// Begin validates the assignments, takes exclusive ownership of a and
// spawns one worker goroutine per assignment. The returned [Scope] must be
// finalized via [Scope.Wait]; the array stays borrowed until then.
//
// Validation runs before any worker spawns: a malformed or out-of-range
// assignment fails with a [*BoundsError] or wrapped [ErrInvalidRange], and
// a pair of intersecting ranges fails with an [*OverlapError], in every
// case with no element touched. A ctx already cancelled at Begin refuses
// to spawn and returns ctx.Err().
//
// Workers receive ctx for observation only. Once spawned, a worker always
// runs to completion: the scope has no cancellation.
//
// Panics if a is nil, an assignment's Fn is nil, or the array is already
// borrowed by another scope.
func Begin[T any](ctx context.Context, a *Array[T], assignments []Assignment[T], opts ...Option) (*Scope, error) {
	if a == nil {
		panic("safevec: Begin requires non-nil array")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateAssignments(a.n, assignments); err != nil {
		return nil, err
	}

	if !a.borrowed.CompareAndSwap(false, true) {
		panic("safevec: Begin while another scope borrows the array")
	}

	s := &Scope{
		ctx:     ctx,
		cfg:     cfg,
		joined:  make(chan struct{}),
		stopMon: make(chan struct{}),
	}
	s.release = func() {
		// Scope completion is structural: workers may have written any
		// of their slots, so pre-scope iterators must not resume.
		a.gen.Add(1)
		a.scopes.Add(1)
		a.borrowed.Store(false)
	}
	if cfg.limit > 0 {
		s.sem = make(chan struct{}, cfg.limit)
	}
	if cfg.track || cfg.stallAfter > 0 {
		s.started = make(map[int]trackEntry, len(assignments))
	}

	s.wg.Add(len(assignments))
	for i, asg := range assignments {
		// Full slice expression caps the view so it cannot reach past
		// its range.
		w := &Window[T]{
			slots: a.buf[asg.Range.Start:asg.Range.End:asg.Range.End],
			r:     asg.Range,
		}
		fn := asg.Fn
		s.totalSpawned.Add(1)
		go s.exec(i, asg.info(), func(ctx context.Context) error {
			return fn(ctx, w)
		})
	}

	s.startMonitors()

	return s, nil
}

// exec is the worker body: semaphore gate, tracking, hooks, panic
// recovery and error recording.
func (s *Scope) exec(id int, info AssignmentInfo, fn func(ctx context.Context) error) {
	defer s.wg.Done()

	// semaphore
	if s.sem != nil {
		s.sem <- struct{}{}
		defer func() { <-s.sem }()
	}

	s.active.Add(1)
	defer s.active.Add(-1)

	s.track(id, info)
	defer s.untrack(id)

	start := time.Now()
	err := s.run(info, fn)
	elapsed := time.Since(start)

	if s.cfg.onDone != nil {
		// Runs outside run(), so a panicking hook crashes rather than
		// masquerading as an assignment failure.
		s.cfg.onDone(info, err, elapsed)
	}

	s.completed.Add(1)
	if err != nil {
		s.errored.Add(1)
		if errors.As(err, new(*PanicError)) {
			s.panicked.Add(1)
		}
		s.recordError(info, err)
	}
}

// run invokes fn with panic recovery. A recovered panic is converted to a
// [*PanicError] and returned as the worker's error, never re-raised.
// The onStart hook runs inside the recovered region.
func (s *Scope) run(info AssignmentInfo, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newPanicError(r)
		}
	}()
	if s.cfg.onStart != nil {
		s.cfg.onStart(info)
	}
	return fn(s.ctx)
}

// recordError stores a worker failure for aggregation at the barrier.
func (s *Scope) recordError(info AssignmentInfo, err error) {
	te := &TaskError{Assignment: info, Err: err}

	s.errMu.Lock()
	if s.cfg.maxErrors > 0 && len(s.errs) >= s.cfg.maxErrors {
		s.dropped++
	} else {
		s.errs = append(s.errs, te)
	}
	s.errMu.Unlock()
}

// barrier returns a channel closed once every worker has finished.
func (s *Scope) barrier() <-chan struct{} {
	s.joinOnce.Do(func() {
		go func() {
			s.wg.Wait()
			close(s.joined)
		}()
	})
	return s.joined
}

// finalize runs exactly once after the barrier completes: it stops the
// monitor goroutines, returns the array borrow (bumping the generation)
// and joins the recorded errors.
func (s *Scope) finalize() error {
	s.finOnce.Do(func() {
		close(s.stopMon)
		s.monWg.Wait()

		s.release()

		s.errMu.Lock()
		if len(s.errs) > 0 {
			errs := make([]error, 0, len(s.errs))
			for _, te := range s.errs {
				errs = append(errs, te)
			}
			s.finErr = errors.Join(errs...)
		}
		s.errMu.Unlock()
	})
	return s.finErr
}

// Wait blocks until every worker has completed, releases the array and
// returns the recorded failures joined via [errors.Join], or nil when all
// workers succeeded. The join barrier always completes: workers are never
// cancelled, so Wait returns only after the last worker has finished.
//
// Wait is idempotent; subsequent calls return the same result.
func (s *Scope) Wait() error {
	<-s.barrier()
	return s.finalize()
}

// WaitTimeout waits up to d for the workers to complete. On timeout it
// returns [context.DeadlineExceeded] without releasing the array or
// stopping the workers: the scope is still running and must still be
// finalized. Call [Scope.Wait] (or WaitTimeout again) to finish it.
func (s *Scope) WaitTimeout(d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-s.barrier():
		return s.finalize()
	case <-t.C:
		return context.DeadlineExceeded
	}
}

// ActiveWorkers returns the number of workers currently executing their
// assignments.
func (s *Scope) ActiveWorkers() int64 {
	return s.active.Load()
}

// TotalSpawned returns the number of workers the scope spawned. It equals
// the assignment count as soon as [Begin] returns.
func (s *Scope) TotalSpawned() int64 {
	return s.totalSpawned.Load()
}

// DroppedErrors returns the number of failures that were not stored
// because the [WithMaxErrors] cap was reached.
func (s *Scope) DroppedErrors() int {
	s.errMu.Lock()
	defer s.errMu.Unlock()

	return s.dropped
}
