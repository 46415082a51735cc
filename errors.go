package safevec

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange reports a [Range] whose Start exceeds its End. It is
	// returned wrapped by every operation that validates a caller range.
	ErrInvalidRange = errors.New("range start exceeds end")
)

// BoundsError reports an index or range bound outside the valid portion of
// an [Array]. Every access or removal whose index is not strictly less than
// the array's length fails with a BoundsError.
type BoundsError struct {
	Op    string // operation that rejected the index, e.g. "Get"
	Index int
	Len   int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("safevec: %s index %d out of range with length %d", e.Op, e.Index, e.Len)
}

// IsOutOfBounds reports whether err (or any error in its chain) is a [*BoundsError].
func IsOutOfBounds(err error) bool {
	if err == nil {
		return false
	}
	var be *BoundsError
	return errors.As(err, &be)
}

// InvalidatedError reports that an [Iterator] or [Drain] observed a
// structural mutation of its array: the generation it captured at creation
// no longer matches the array's current generation. The iterator is dead;
// obtain a fresh one to see the array's current contents.
type InvalidatedError struct {
	// Seen is the generation captured when the iterator was created.
	Seen uint64

	// Current is the generation observed at the failing call.
	Current uint64
}

func (e *InvalidatedError) Error() string {
	return fmt.Sprintf("safevec: iterator invalidated: generation %d is stale, array is at %d", e.Seen, e.Current)
}

// IsInvalidated reports whether err (or any error in its chain) is an [*InvalidatedError].
func IsInvalidated(err error) bool {
	if err == nil {
		return false
	}
	var ie *InvalidatedError
	return errors.As(err, &ie)
}

// OverlapError reports two assignments whose ranges intersect. [Run] and
// [Begin] reject overlapping assignments before any worker spawns, so an
// OverlapError always means no element was touched.
type OverlapError struct {
	A AssignmentInfo
	B AssignmentInfo
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("safevec: assignments %q %s and %q %s overlap", e.A.Name, e.A.Range, e.B.Name, e.B.Range)
}

// IsOverlap reports whether err (or any error in its chain) is an [*OverlapError].
func IsOverlap(err error) bool {
	if err == nil {
		return false
	}
	var oe *OverlapError
	return errors.As(err, &oe)
}
