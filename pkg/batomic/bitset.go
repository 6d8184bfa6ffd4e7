package batomic

import (
	"sync/atomic"

	"brandkernel/pkg/brand"
	"brandkernel/pkg/errs"
)

const wordBits = 64

// Bitset is a fixed-length bit array backed by atomic 64-bit words, the
// layout spec.md §4.6 describes: "length n bits laid out in ceil(n/W)
// atomic words." Word-level operations (FetchOrWord) let a caller batch
// many bit updates into one atomic round trip, cutting contention for
// traversals that touch neighbouring ids — e.g. a visited-set shared by
// a work-stealing graph walk (spec.md scenario S4).
type Bitset struct {
	b     brand.Brand
	words []atomic.Uint64
	n     int
}

// NewBitset creates a Bitset of n bits, all initially clear.
func NewBitset(tok brand.Token, n int) *Bitset {
	if n < 0 {
		panic("batomic: bitset length must be >= 0")
	}
	nWords := (n + wordBits - 1) / wordBits
	return &Bitset{b: tok.Of(), words: make([]atomic.Uint64, nWords), n: n}
}

// Len returns the number of addressable bits.
func (s *Bitset) Len() int { return s.n }

func (s *Bitset) locate(bit int) (word int, mask uint64) {
	return bit / wordBits, uint64(1) << uint(bit%wordBits)
}

// TestAndSet atomically sets bit and returns its prior value. A
// traversal using TestAndSet to claim nodes will, for any given bit,
// see exactly one caller observe false — spec.md §8 testable property 5.
func (s *Bitset) TestAndSet(tok brand.Token, bit int) (bool, error) {
	if !s.b.Is(tok) {
		return false, errs.ErrBrandMismatch
	}
	if bit < 0 || bit >= s.n {
		return false, errs.ErrRegionClosed
	}
	w, mask := s.locate(bit)
	for {
		old := s.words[w].Load()
		if old&mask != 0 {
			return true, nil
		}
		if s.words[w].CompareAndSwap(old, old|mask) {
			return false, nil
		}
	}
}

// Test reports whether bit is currently set.
func (s *Bitset) Test(tok brand.Token, bit int) (bool, error) {
	if !s.b.Is(tok) {
		return false, errs.ErrBrandMismatch
	}
	if bit < 0 || bit >= s.n {
		return false, errs.ErrRegionClosed
	}
	w, mask := s.locate(bit)
	return s.words[w].Load()&mask != 0, nil
}

// FetchOrWord ORs mask into word wordIndex atomically and returns the
// word's prior value, letting a caller batch many bit updates (e.g. a
// whole neighbour list) into a single atomic round trip.
func (s *Bitset) FetchOrWord(tok brand.Token, wordIndex int, mask uint64) (uint64, error) {
	if !s.b.Is(tok) {
		return 0, errs.ErrBrandMismatch
	}
	if wordIndex < 0 || wordIndex >= len(s.words) {
		return 0, errs.ErrRegionClosed
	}
	w := &s.words[wordIndex]
	for {
		old := w.Load()
		if w.CompareAndSwap(old, old|mask) {
			return old, nil
		}
	}
}

// ClearAll zeroes every word. It is not synchronised against concurrent
// Test/TestAndSet/FetchOrWord calls — the caller must hold exclusive
// access by convention, matching spec.md's design choice for this one
// operation.
func (s *Bitset) ClearAll(tok *brand.Token) error {
	if !s.b.Is(*tok) {
		return errs.ErrBrandMismatch
	}
	for i := range s.words {
		s.words[i].Store(0)
	}
	return nil
}

// PopCount returns the number of set bits across the whole set. It is a
// point-in-time snapshot with the same "caller ensures no concurrent
// mutation if an exact answer matters" caveat as ClearAll.
func (s *Bitset) PopCount(tok brand.Token) (int, error) {
	if !s.b.Is(tok) {
		return 0, errs.ErrBrandMismatch
	}
	count := 0
	for i := range s.words {
		w := s.words[i].Load()
		for w != 0 {
			w &= w - 1
			count++
		}
	}
	return count, nil
}
