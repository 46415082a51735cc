// Package safevec provides a dynamic array whose sharp edges are fenced at
// runtime: every access is bounds-checked, iterators detect structural
// mutation through generation stamps, and parallel mutation is only
// possible through a scope that proves its writers disjoint before
// spawning them.
//
// # Bounds-Checked Storage
//
// [Array] is a growable array created by [New], [NewWithCapacity] or
// [From]; the zero value is also ready for use. [Array.Get], [Array.Set]
// and [Array.RemoveAt] validate their index and fail with a
// [*BoundsError] instead of panicking, so an off-by-one is an error value
// the caller handles:
//
//	a := safevec.From([]int{1, 2, 3})
//	if _, err := a.Get(7); safevec.IsOutOfBounds(err) {
//	    // handle it, nothing crashed
//	}
//
// [Array.Push], [Array.RemoveAt] and [Array.Drain] are structural: each
// bumps the array's generation. [Array.Set] writes in place and does not.
//
// # Generation-Stamped Iteration
//
// [Array.Iterate] returns an [Iterator] stamped with the generation at
// creation. Every [Iterator.Next] compares stamps before touching an
// element, so an iterator created before a Push or RemoveAt fails with
// [*InvalidatedError] rather than yielding from shifted storage.
// Exhaustion is [io.EOF]; both outcomes are sticky and an iterator is
// never restartable.
//
// Chains of [Iterator.Filter], [Iterator.Take], [Iterator.Skip] and [Map]
// are evaluated lazily. Terminal methods ([Iterator.Collect],
// [Iterator.ForEach], [Iterator.Count], [Reduce]) return partial results
// alongside any error, following [io.Reader] conventions.
//
// # Scoped Parallel Mutation
//
// [Run] mutates disjoint ranges of an array in parallel. Each
// [Assignment] names a half-open [Range] and a function receiving a
// [Window], a bounds-checked view of just that range. Overlap is
// rejected with an [*OverlapError] before any goroutine spawns; the array
// is exclusively borrowed for the scope's lifetime; and the join barrier
// always completes, so worker writes are published exactly once, at the
// end:
//
//	a := safevec.From(make([]int, 1000))
//	err := safevec.Run(ctx, a, []safevec.Assignment[int]{
//	    {Name: "low", Range: safevec.Range{Start: 0, End: 500}, Fn: fill},
//	    {Name: "high", Range: safevec.Range{Start: 500, End: 1000}, Fn: fill},
//	})
//
// Failures never cancel siblings. Every failed assignment is wrapped in a
// [*TaskError] and the lot is joined via [errors.Join]; use [IsTaskError],
// [AssignmentOf], [CauseOf] and [AllTaskErrors] to inspect the result. A
// worker panic is captured as a [*PanicError] with its stack trace and
// reported as a failure, never re-raised.
//
// For manual lifecycle control, [Begin] returns a [Scope]; finalize with
// [Scope.Wait]. [Scope.WaitTimeout] bounds the wait, not the workers.
//
// # Helpers
//
// Convenience wrappers over [Run] for common shapes:
//
//   - [ForEachSlot]: run a function per element, one slot per worker.
//   - [MapSlot]: transform every element in place concurrently.
//   - [Transform]: split the array into contiguous partitions, one
//     worker each.
//   - [Partition]: compute near-equal contiguous ranges for manual
//     assignment building.
//
// # Bounded Concurrency
//
// [WithWorkerLimit] caps how many workers execute simultaneously. The
// scope still spawns one goroutine per assignment; excess workers queue
// for a slot and always run eventually.
//
// # Draining
//
// [Array.Drain] removes a range and yields its elements lazily,
// reattaching the tail on [Drain.Close]. A drain is generation-protected
// like an iterator: mutating the array mid-drain invalidates it, and an
// abandoned drain merely truncates the array instead of corrupting it.
//
// # Observability
//
// Register hooks on a scope:
//
//   - [WithOnStart], [WithOnDone]: per-assignment lifecycle hooks.
//   - [WithOnMetrics]: periodic [Metrics] snapshots with counters for
//     spawned, active, completed, errored and panicked workers.
//   - [WithStallDetector]: callback for assignments running past a
//     threshold.
//   - [WithTracking]: per-assignment elapsed times via [Scope.Snapshot].
//
// [Array.Stats] is safe from any goroutine and feeds the optional
// Prometheus bridge in the
// [github.com/baxromumarov/safevec/promvec] subpackage.
//
// # Arena
//
// The [github.com/baxromumarov/safevec/arena] subpackage applies the same
// generation discipline to a slab allocator: handles into the arena are
// stamped, and a stale handle after Free or Reset fails with
// ErrStaleHandle instead of reaching recycled memory.
package safevec
