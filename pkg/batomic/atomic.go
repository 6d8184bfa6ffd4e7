// Package batomic implements the branded atomic primitives from
// spec.md §4.6: thin, brand-checked wrappers over sync/atomic so
// atomics compose with the rest of the branded kernel, plus the
// word-packed Bitset used by the work-stealing scenarios.
//
// Branded atomics still synchronise themselves — the brand check here
// is advisory bookkeeping (catching a value used with the wrong
// scope), not the source of thread safety, matching spec.md §5's
// "branded raw memory... may be accessed concurrently without the
// token because the atomics carry their own internal synchronisation."
package batomic

import (
	"sync/atomic"

	"brandkernel/pkg/brand"
	"brandkernel/pkg/errs"
)

// Bool is a branded atomic boolean.
type Bool struct {
	b brand.Brand
	v atomic.Bool
}

// NewBool creates a branded atomic bool under tok with initial value v.
func NewBool(tok brand.Token, v bool) *Bool {
	b := &Bool{b: tok.Of()}
	b.v.Store(v)
	return b
}

// Load reads the current value.
func (x *Bool) Load(tok brand.Token) (bool, error) {
	if !x.b.Is(tok) {
		return false, errs.ErrBrandMismatch
	}
	return x.v.Load(), nil
}

// Store writes v unconditionally.
func (x *Bool) Store(tok brand.Token, v bool) error {
	if !x.b.Is(tok) {
		return errs.ErrBrandMismatch
	}
	x.v.Store(v)
	return nil
}

// CompareAndSwap performs the usual CAS.
func (x *Bool) CompareAndSwap(tok brand.Token, old, new bool) (bool, error) {
	if !x.b.Is(tok) {
		return false, errs.ErrBrandMismatch
	}
	return x.v.CompareAndSwap(old, new), nil
}

// U32 is a branded atomic uint32.
type U32 struct {
	b brand.Brand
	v atomic.Uint32
}

// NewU32 creates a branded atomic uint32 under tok with initial value v.
func NewU32(tok brand.Token, v uint32) *U32 {
	x := &U32{b: tok.Of()}
	x.v.Store(v)
	return x
}

func (x *U32) Load(tok brand.Token) (uint32, error) {
	if !x.b.Is(tok) {
		return 0, errs.ErrBrandMismatch
	}
	return x.v.Load(), nil
}

func (x *U32) Store(tok brand.Token, v uint32) error {
	if !x.b.Is(tok) {
		return errs.ErrBrandMismatch
	}
	x.v.Store(v)
	return nil
}

func (x *U32) Add(tok brand.Token, delta uint32) (uint32, error) {
	if !x.b.Is(tok) {
		return 0, errs.ErrBrandMismatch
	}
	return x.v.Add(delta), nil
}

func (x *U32) CompareAndSwap(tok brand.Token, old, new uint32) (bool, error) {
	if !x.b.Is(tok) {
		return false, errs.ErrBrandMismatch
	}
	return x.v.CompareAndSwap(old, new), nil
}

// U64 is a branded atomic uint64.
type U64 struct {
	b brand.Brand
	v atomic.Uint64
}

func NewU64(tok brand.Token, v uint64) *U64 {
	x := &U64{b: tok.Of()}
	x.v.Store(v)
	return x
}

func (x *U64) Load(tok brand.Token) (uint64, error) {
	if !x.b.Is(tok) {
		return 0, errs.ErrBrandMismatch
	}
	return x.v.Load(), nil
}

func (x *U64) Store(tok brand.Token, v uint64) error {
	if !x.b.Is(tok) {
		return errs.ErrBrandMismatch
	}
	x.v.Store(v)
	return nil
}

func (x *U64) Add(tok brand.Token, delta uint64) (uint64, error) {
	if !x.b.Is(tok) {
		return 0, errs.ErrBrandMismatch
	}
	return x.v.Add(delta), nil
}

func (x *U64) CompareAndSwap(tok brand.Token, old, new uint64) (bool, error) {
	if !x.b.Is(tok) {
		return false, errs.ErrBrandMismatch
	}
	return x.v.CompareAndSwap(old, new), nil
}

// Usize is a branded atomic machine-word counter (Go's uint).
type Usize struct {
	b brand.Brand
	v atomic.Uintptr
}

func NewUsize(tok brand.Token, v uint) *Usize {
	x := &Usize{b: tok.Of()}
	x.v.Store(uintptr(v))
	return x
}

func (x *Usize) Load(tok brand.Token) (uint, error) {
	if !x.b.Is(tok) {
		return 0, errs.ErrBrandMismatch
	}
	return uint(x.v.Load()), nil
}

func (x *Usize) Add(tok brand.Token, delta uint) (uint, error) {
	if !x.b.Is(tok) {
		return 0, errs.ErrBrandMismatch
	}
	return uint(x.v.Add(uintptr(delta))), nil
}
