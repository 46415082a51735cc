package safevec

import (
	"cmp"
	"slices"
	"time"
)

// Metrics is a point-in-time snapshot of a [Scope]'s counters, delivered
// to the [WithOnMetrics] callback and embedded in [Snapshot].
type Metrics struct {
	TotalSpawned int64
	ActiveTasks  int64
	Completed    int64
	Errored      int64
	Panicked     int64

	// LongestActive is the elapsed time of the oldest still-running
	// assignment. Zero unless tracking is on (see [WithTracking] and
	// [WithStallDetector]).
	LongestActive time.Duration
}

// RunningAssignment describes one still-executing assignment, as reported
// by [Scope.Snapshot] and the [WithStallDetector] callback.
type RunningAssignment struct {
	Info    AssignmentInfo
	Elapsed time.Duration
}

// Snapshot is a consistent view of a scope's progress, taken by
// [Scope.Snapshot].
type Snapshot struct {
	Metrics Metrics

	// Running lists the currently executing assignments, oldest first.
	// Nil unless [WithTracking] is set.
	Running []RunningAssignment
}

type trackEntry struct {
	info  AssignmentInfo
	start time.Time
}

func (s *Scope) track(id int, info AssignmentInfo) {
	if s.started == nil {
		return
	}
	s.trackMu.Lock()
	s.started[id] = trackEntry{info: info, start: time.Now()}
	s.trackMu.Unlock()
}

func (s *Scope) untrack(id int) {
	if s.started == nil {
		return
	}
	s.trackMu.Lock()
	delete(s.started, id)
	s.trackMu.Unlock()
}

// running returns the tracked assignments, oldest first.
func (s *Scope) running(now time.Time) []RunningAssignment {
	s.trackMu.Lock()
	out := make([]RunningAssignment, 0, len(s.started))
	for _, e := range s.started {
		out = append(out, RunningAssignment{Info: e.info, Elapsed: now.Sub(e.start)})
	}
	s.trackMu.Unlock()

	slices.SortFunc(out, func(a, b RunningAssignment) int {
		return cmp.Compare(b.Elapsed, a.Elapsed)
	})
	return out
}

func (s *Scope) metricsSnapshot() Metrics {
	m := Metrics{
		TotalSpawned: s.totalSpawned.Load(),
		ActiveTasks:  s.active.Load(),
		Completed:    s.completed.Load(),
		Errored:      s.errored.Load(),
		Panicked:     s.panicked.Load(),
	}
	if s.started != nil {
		if rs := s.running(time.Now()); len(rs) > 0 {
			m.LongestActive = rs[0].Elapsed
		}
	}
	return m
}

// Snapshot returns the scope's current [Metrics] and, when [WithTracking]
// is set, the list of running assignments. Safe to call from any goroutine
// at any point in the scope's lifetime.
func (s *Scope) Snapshot() Snapshot {
	snap := Snapshot{Metrics: s.metricsSnapshot()}
	if s.cfg.track {
		snap.Running = s.running(time.Now())
	}
	return snap
}

// startMonitors launches the metrics ticker and the stall detector. Both
// stop in finalize, before the array borrow is returned.
func (s *Scope) startMonitors() {
	if s.cfg.onMetrics != nil {
		s.monWg.Add(1)
		go func() {
			defer s.monWg.Done()
			t := time.NewTicker(s.cfg.metricsEvery)
			defer t.Stop()
			for {
				select {
				case <-t.C:
					s.cfg.onMetrics(s.metricsSnapshot())
				case <-s.stopMon:
					// Final flush so short scopes still observe a
					// complete report.
					s.cfg.onMetrics(s.metricsSnapshot())
					return
				}
			}
		}()
	}

	if s.cfg.stallAfter > 0 {
		s.monWg.Add(1)
		go func() {
			defer s.monWg.Done()
			every := s.cfg.stallAfter / 4
			if every < time.Millisecond {
				every = time.Millisecond
			}
			t := time.NewTicker(every)
			defer t.Stop()
			for {
				select {
				case <-t.C:
					for _, ra := range s.running(time.Now()) {
						if ra.Elapsed < s.cfg.stallAfter {
							break // sorted oldest first
						}
						s.cfg.onStall(ra)
					}
				case <-s.stopMon:
					return
				}
			}
		}()
	}
}
