// Package once implements the single-threaded, non-atomic members of the
// once/lazy family: OnceCell (single-shot initialisation) and LazyCell
// (memoised computation). Both are gated by a brand.Token like every
// other container in this kernel; neither is safe to race across
// goroutines — pkg/lazylock covers that case.
package once

import (
	"brandkernel/pkg/brand"
	"brandkernel/pkg/errs"
)

// OnceCell holds at most one T. It starts Uninitialised and transitions
// to Initialised on the first successful Set; every subsequent Set fails
// with errs.ErrAlreadyInitialised, matching spec.md §4.3.
type OnceCell[T any] struct {
	b    brand.Brand
	set  bool
	v    T
}

// NewOnceCell creates an uninitialised cell under tok's brand.
func NewOnceCell[T any](tok brand.Token) *OnceCell[T] {
	return &OnceCell[T]{b: tok.Of()}
}

// Set transitions Uninitialised -> Initialised. On a second call it
// returns the rejected value alongside errs.ErrAlreadyInitialised, so
// the caller can recover it rather than lose it.
func (o *OnceCell[T]) Set(tok *brand.Token, v T) (T, error) {
	if !o.b.Is(*tok) {
		var zero T
		return zero, errs.ErrBrandMismatch
	}
	if o.set {
		return v, errs.ErrAlreadyInitialised
	}
	o.v = v
	o.set = true
	var zero T
	return zero, nil
}

// Get returns the stored value only once initialised.
func (o *OnceCell[T]) Get(tok brand.Token) (T, bool, error) {
	if !o.b.Is(tok) {
		var zero T
		return zero, false, errs.ErrBrandMismatch
	}
	if !o.set {
		var zero T
		return zero, false, nil
	}
	return o.v, true, nil
}

// LazyCell stores either a pending FnOnce-style computation or its
// already-realised result. First access triggers the computation exactly
// once; subsequent accesses return the cached value.
type LazyCell[T any] struct {
	b        brand.Brand
	realised bool
	v        T
	compute  func() T
	restart  bool // true if built by NewRestartableLazyCell (an Fn, not an FnOnce)
}

// NewLazyCell creates an unrealised cell whose value is produced by
// compute on first access.
func NewLazyCell[T any](tok brand.Token, compute func() T) *LazyCell[T] {
	return &LazyCell[T]{b: tok.Of(), compute: compute}
}

// NewRestartableLazyCell is the same as NewLazyCell, but marks compute as
// restartable (an Fn rather than an FnOnce), which is the precondition
// Invalidate checks for.
func NewRestartableLazyCell[T any](tok brand.Token, compute func() T) *LazyCell[T] {
	return &LazyCell[T]{b: tok.Of(), compute: compute, restart: true}
}

// Get triggers compute on first access and returns the cached value
// thereafter. Requires a mutable borrow of the token because the first
// call mutates the cell's internal state.
func (l *LazyCell[T]) Get(tok *brand.Token) (*T, error) {
	if !l.b.Is(*tok) {
		return nil, errs.ErrBrandMismatch
	}
	if !l.realised {
		l.v = l.compute()
		l.realised = true
	}
	return &l.v, nil
}

// Invalidate discards the realised value so the next Get recomputes it.
// It is only permitted when the cell was constructed with
// NewRestartableLazyCell; otherwise the original compute closure has
// already been consumed conceptually and restarting it would be unsound
// (spec.md §4.3: "Eviction is permitted when the computation is
// restartable, forbidden otherwise").
func (l *LazyCell[T]) Invalidate(tok *brand.Token) error {
	if !l.b.Is(*tok) {
		return errs.ErrBrandMismatch
	}
	if !l.restart {
		return errs.ErrNotRestartable
	}
	var zero T
	l.v = zero
	l.realised = false
	return nil
}
