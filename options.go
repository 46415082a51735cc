package safevec

import "time"

type config struct {
	limit     int
	maxErrors int
	track     bool

	onStart func(AssignmentInfo)
	onDone  func(AssignmentInfo, error, time.Duration)

	onMetrics    func(Metrics)
	metricsEvery time.Duration

	onStall    func(RunningAssignment)
	stallAfter time.Duration
}

// Option configures a scope created by [Run] or [Begin].
type Option func(*config)

func defaultConfig() config {
	return config{}
}

// WithWorkerLimit caps how many workers execute simultaneously. The scope
// still spawns one goroutine per assignment; workers beyond the limit
// block before starting their assignment and never skip it.
//
// A limit of zero (the default) means unlimited concurrency.
// WithWorkerLimit panics if n is negative.
func WithWorkerLimit(n int) Option {
	return func(c *config) {
		if n < 0 {
			panic("safevec: worker limit must be non-negative")
		}
		c.limit = n
	}
}

// WithMaxErrors caps how many failures the scope retains for aggregation.
// Failures beyond the cap are counted (see [Scope.DroppedErrors]) but not
// kept, bounding memory under mass failure. Zero (the default) keeps
// every failure. Panics if n is negative.
func WithMaxErrors(n int) Option {
	return func(c *config) {
		if n < 0 {
			panic("safevec: max errors must be non-negative")
		}
		c.maxErrors = n
	}
}

// WithOnStart registers a hook invoked as each worker begins its
// assignment. The hook runs inside the worker goroutine before the
// assignment function; a panicking hook is captured like a panicking
// assignment.
func WithOnStart(fn func(AssignmentInfo)) Option {
	return func(c *config) {
		c.onStart = fn
	}
}

// WithOnDone registers a hook invoked as each worker finishes. It receives
// the assignment's error (nil on success) and wall-clock duration. The
// hook runs inside the worker goroutine after the assignment function
// returns, outside panic recovery.
func WithOnDone(fn func(AssignmentInfo, error, time.Duration)) Option {
	return func(c *config) {
		c.onDone = fn
	}
}

// WithOnMetrics registers a callback receiving a [Metrics] snapshot every
// interval while the scope runs, plus one final snapshot as the scope
// finalizes. Panics if interval is not positive or fn is nil.
func WithOnMetrics(interval time.Duration, fn func(Metrics)) Option {
	return func(c *config) {
		if interval <= 0 {
			panic("safevec: metrics interval must be positive")
		}
		if fn == nil {
			panic("safevec: metrics callback must be non-nil")
		}
		c.metricsEvery = interval
		c.onMetrics = fn
	}
}

// WithStallDetector registers a callback fired for any assignment that
// has been running for at least threshold. The callback may fire
// repeatedly for the same assignment while it keeps running. Panics if
// threshold is not positive or fn is nil.
func WithStallDetector(threshold time.Duration, fn func(RunningAssignment)) Option {
	return func(c *config) {
		if threshold <= 0 {
			panic("safevec: stall threshold must be positive")
		}
		if fn == nil {
			panic("safevec: stall callback must be non-nil")
		}
		c.stallAfter = threshold
		c.onStall = fn
	}
}

// WithTracking records per-assignment start times so [Scope.Snapshot] can
// report the running assignments and their elapsed times. Tracking costs
// a map write per worker start and finish.
func WithTracking() Option {
	return func(c *config) {
		c.track = true
	}
}
