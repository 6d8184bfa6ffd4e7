// Package errs collects the sentinel errors shared across the branded
// kernel packages, so callers can use errors.Is regardless of which
// package raised them.
package errs

import "errors"

var (
	// ErrAlreadyInitialised is returned by a second Set on a OnceCell that
	// has already completed initialisation.
	ErrAlreadyInitialised = errors.New("brandkernel: already initialised")

	// ErrBrandMismatch is returned when a token and a branded value carry
	// different generative tags.
	ErrBrandMismatch = errors.New("brandkernel: brand mismatch")

	// ErrGenerationStale is returned when a SlotPool key's generation no
	// longer matches the occupant of its slot.
	ErrGenerationStale = errors.New("brandkernel: stale generation")

	// ErrShareMismatch is returned when two ShareHandle values do not
	// refer to the same underlying allocation, when a split's parts do not
	// add up to the handle's share, or when a consumed or non-unique
	// handle is used where that is not allowed.
	ErrShareMismatch = errors.New("brandkernel: share mismatch")

	// ErrDequeFull is returned when a ChaseLevDeque's ring buffer has no
	// room for another pushed item.
	ErrDequeFull = errors.New("brandkernel: deque full")

	// ErrStackFull is returned when a TreiberStack's node pool is
	// exhausted.
	ErrStackFull = errors.New("brandkernel: stack full")

	// ErrPoisoned is returned by a SharedToken guard when a prior writer
	// panicked while holding the write lock.
	ErrPoisoned = errors.New("brandkernel: poisoned")

	// ErrRegionClosed is returned when an arena, pool or bitset operation
	// targets a key or index that is out of range, or a pool slot that is
	// not currently occupied.
	ErrRegionClosed = errors.New("brandkernel: region closed")

	// ErrNotRestartable is returned by LazyCell.Invalidate when the cell
	// was built from a one-shot computation rather than a restartable one.
	ErrNotRestartable = errors.New("brandkernel: lazy computation is not restartable")
)
