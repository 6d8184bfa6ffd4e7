// Package box implements BrandedBox, the single-owner, token-gated heap
// cell equivalent to a share.ShareHandle fixed at N == D (spec.md §4.5).
// Unlike ShareHandle, every access goes through the brand.Token, the way
// cell.Cell does, since a BrandedBox is meant to live inside the same
// branded-container family as Cell/Arena/Pool rather than stand alone.
package box

import (
	"brandkernel/pkg/brand"
	"brandkernel/pkg/errs"
	"brandkernel/pkg/share"
)

// BrandedBox owns a single T, gated by brand b.
type BrandedBox[T any] struct {
	b brand.Brand
	v *T
}

// New heap-allocates v under tok's brand.
func New[T any](tok brand.Token, v T) *BrandedBox[T] {
	vv := v
	return &BrandedBox[T]{b: tok.Of(), v: &vv}
}

// Borrow yields a shared read of the boxed value.
func (x *BrandedBox[T]) Borrow(tok brand.Token) (*T, error) {
	if !x.b.Is(tok) {
		return nil, errs.ErrBrandMismatch
	}
	return x.v, nil
}

// BorrowMut yields an exclusive write view of the boxed value.
func (x *BrandedBox[T]) BorrowMut(tok *brand.Token) (*T, error) {
	if !x.b.Is(*tok) {
		return nil, errs.ErrBrandMismatch
	}
	return x.v, nil
}

// IntoInner consumes the box and returns the plain pointer it owned.
func (x *BrandedBox[T]) IntoInner() *T {
	return x.v
}

// FromPlain adopts a plain owned pointer as a BrandedBox under tok.
func FromPlain[T any](tok brand.Token, v *T) *BrandedBox[T] {
	return &BrandedBox[T]{b: tok.Of(), v: v}
}

// ToShare converts a BrandedBox losslessly into a unique
// share.ShareHandle(1,1), per spec.md §8's round-trip law.
func (x *BrandedBox[T]) ToShare() *share.ShareHandle[T] {
	return share.FromBox(x.v, 1)
}

// FromShare converts a unique share.ShareHandle back into a BrandedBox
// under tok. Fails if the handle is not unique (N != D).
func FromShare[T any](tok brand.Token, h *share.ShareHandle[T]) (*BrandedBox[T], error) {
	v, err := h.ToBox()
	if err != nil {
		return nil, err
	}
	return &BrandedBox[T]{b: tok.Of(), v: v}, nil
}
