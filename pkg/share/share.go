// Package share implements fractional ownership: a ShareHandle carries a
// compile-time fraction N/D in the Rust original (spec.md §4.4); Go
// lacks const-generic arithmetic (Design Notes §9), so (N, D) are
// runtime fields and every split/join verifies the sum invariant at call
// time instead of at compile time. A handle with N == D is the unique
// owner and is the only one allowed to deref mutably or convert to/from
// a plain owned box.
//
// Go also has no move-only types, so nothing stops a caller from
// shallow-copying a *ShareHandle's pointee by value. Split and Join
// mark the handles they consume as spent (mirroring the teacher's Freed
// flag in pkg/memory/genref.go and symmetric.go) so reuse of a consumed
// handle fails fast instead of silently corrupting the Σ N_i = D
// invariant; callers are still responsible for not retaining a shallow
// copy of a handle past Split/Join, exactly the caveat Design Notes §9
// flags for simulating linearity in a language without move semantics.
package share

import "brandkernel/pkg/errs"

// allocation is the single heap slot a family of ShareHandle values
// co-owns.
type allocation[T any] struct {
	v T
}

// ShareHandle owns an N/D fraction of a single allocation.
type ShareHandle[T any] struct {
	a        *allocation[T]
	n, d     uint32
	consumed bool
}

// New allocates a T and returns the unique handle (D, D) over it.
func New[T any](v T, d uint32) *ShareHandle[T] {
	if d == 0 {
		panic("share: denominator must be > 0")
	}
	return &ShareHandle[T]{a: &allocation[T]{v: v}, n: d, d: d}
}

// Numerator returns the handle's current share N.
func (h *ShareHandle[T]) Numerator() uint32 { return h.n }

// Denominator returns the handle's D.
func (h *ShareHandle[T]) Denominator() uint32 { return h.d }

// IsUnique reports whether this handle holds the entire allocation
// (N == D), the precondition for BorrowMut and box conversion.
func (h *ShareHandle[T]) IsUnique() bool { return h.n == h.d }

// Borrow always grants shared read access: holding any live handle is
// itself proof of a share, so — unlike cell.Cell — no token is needed
// (spec.md §4.4: "Deref to &T is always allowed").
func (h *ShareHandle[T]) Borrow() (*T, error) {
	if h.consumed {
		return nil, errs.ErrShareMismatch
	}
	return &h.a.v, nil
}

// BorrowMut grants exclusive write access, but only to the unique
// (N == D) holder.
func (h *ShareHandle[T]) BorrowMut() (*T, error) {
	if h.consumed {
		return nil, errs.ErrShareMismatch
	}
	if !h.IsUnique() {
		return nil, errs.ErrShareMismatch
	}
	return &h.a.v, nil
}

// Split divides this handle's share N into a and b (a+b == N),
// returning two new handles over the same allocation and marking the
// receiver consumed. A mismatched split (a+b != N) is rejected before
// any state changes.
func (h *ShareHandle[T]) Split(a, b uint32) (*ShareHandle[T], *ShareHandle[T], error) {
	if h.consumed {
		return nil, nil, errs.ErrShareMismatch
	}
	if a == 0 || b == 0 || a+b != h.n {
		return nil, nil, errs.ErrShareMismatch
	}
	h.consumed = true
	return &ShareHandle[T]{a: h.a, n: a, d: h.d}, &ShareHandle[T]{a: h.a, n: b, d: h.d}, nil
}

// Join recombines two handles over the same allocation into one with
// their summed share, consuming both inputs. Handles over different
// allocations, or whose denominators differ, are rejected.
func Join[T any](x, y *ShareHandle[T]) (*ShareHandle[T], error) {
	if x.consumed || y.consumed {
		return nil, errs.ErrShareMismatch
	}
	if x.a != y.a || x.d != y.d {
		return nil, errs.ErrShareMismatch
	}
	sum := x.n + y.n
	if sum > x.d {
		// Should be structurally unreachable given the Σ N_i = D
		// invariant; re-asserted here per spec.md §7's
		// defence-in-depth stance on type-system rejections.
		panic("share: join would exceed denominator")
	}
	x.consumed = true
	y.consumed = true
	return &ShareHandle[T]{a: x.a, n: sum, d: x.d}, nil
}

// ToBox converts a unique handle into a plain owned pointer, freeing the
// fractional bookkeeping. Only valid when IsUnique.
func (h *ShareHandle[T]) ToBox() (*T, error) {
	if h.consumed || !h.IsUnique() {
		return nil, errs.ErrShareMismatch
	}
	h.consumed = true
	return &h.a.v, nil
}

// FromBox copies the value behind a plain owned pointer into a fresh
// allocation and returns the unique ShareHandle (d, d) over it; the
// pointer itself is not retained.
func FromBox[T any](v *T, d uint32) *ShareHandle[T] {
	if d == 0 {
		panic("share: denominator must be > 0")
	}
	return &ShareHandle[T]{a: &allocation[T]{v: *v}, n: d, d: d}
}
