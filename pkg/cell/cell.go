// Package cell implements the minimum branded primitive: an
// interior-mutable slot whose reads and writes are gated by a
// brand.Token borrow instead of a lock or refcount.
//
// A Cell's layout is just its brand plus its payload — no header, no
// flag — and every operation that would yield &T or &mut T in the
// original design instead checks the caller's Token against the Cell's
// own Brand and returns errs.ErrBrandMismatch on a mismatch. Go cannot
// enforce "no overlapping &mut borrow" through the type system the way
// Rust's borrow checker does (spec.md §4.2's safety justification), so
// BorrowMut additionally takes the Token by pointer to at least force
// the caller to hold it exclusively in their own code, the closest Go
// analogue available.
package cell

import (
	"brandkernel/pkg/brand"
	"brandkernel/pkg/errs"
)

// Cell owns one T, gated by brand b.
type Cell[T any] struct {
	b brand.Brand
	v T
}

// New wraps a value under tok's brand. Matches spec.md §4.2: "new(v) ->
// Cell<'b, T> — wraps a value; requires no token" in spirit, though Go's
// runtime brand check means construction still needs to capture tok's
// tag.
func New[T any](tok brand.Token, v T) *Cell[T] {
	return &Cell[T]{b: tok.Of(), v: v}
}

// Borrow yields a shared read of the cell's value, gated by a shared
// borrow of tok.
func (c *Cell[T]) Borrow(tok brand.Token) (*T, error) {
	if !c.b.Is(tok) {
		return nil, errs.ErrBrandMismatch
	}
	return &c.v, nil
}

// BorrowMut yields an exclusive write view of the cell's value, gated by
// an exclusive borrow of tok.
func (c *Cell[T]) BorrowMut(tok *brand.Token) (*T, error) {
	if !c.b.Is(*tok) {
		return nil, errs.ErrBrandMismatch
	}
	return &c.v, nil
}

// Get copies out the cell's value. T must be safe to copy; the caller is
// responsible for only using this with value types, as Go has no
// T: Copy bound to enforce it.
func (c *Cell[T]) Get(tok brand.Token) (T, error) {
	if !c.b.Is(tok) {
		var zero T
		return zero, errs.ErrBrandMismatch
	}
	return c.v, nil
}

// Set overwrites the cell's value.
func (c *Cell[T]) Set(tok *brand.Token, v T) error {
	if !c.b.Is(*tok) {
		return errs.ErrBrandMismatch
	}
	c.v = v
	return nil
}

// Replace swaps in v and returns the value it displaced.
func (c *Cell[T]) Replace(tok *brand.Token, v T) (T, error) {
	if !c.b.Is(*tok) {
		var zero T
		return zero, errs.ErrBrandMismatch
	}
	old := c.v
	c.v = v
	return old, nil
}

// Swap exchanges this cell's value with other's. Both cells must carry
// the same brand as tok.
func (c *Cell[T]) Swap(tok *brand.Token, other *Cell[T]) error {
	if !c.b.Is(*tok) || !other.b.Is(*tok) {
		return errs.ErrBrandMismatch
	}
	c.v, other.v = other.v, c.v
	return nil
}

// IntoInner consumes the cell and returns its value. Ownership of the
// cell already implies exclusivity, so no token is required — matching
// spec.md §4.2.
func (c *Cell[T]) IntoInner() T {
	return c.v
}
