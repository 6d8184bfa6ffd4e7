// Package pool implements the fixed-size-class allocator (Pool) and the
// generational slot-map (SlotPool) from spec.md §4.5. Both are
// token-gated containers; Pool keys are opaque integers reused
// deterministically via a LIFO free list, and SlotPool keys additionally
// carry a generation counter so a stale key from before a Free is
// rejected instead of silently aliasing the slot's new occupant — the
// generational-index technique spec.md calls out in Design Notes §9 as
// "portable: directly encode (index, generation) in 64 bits."
package pool

import (
	"brandkernel/pkg/brand"
	"brandkernel/pkg/brandlog"
	"brandkernel/pkg/errs"
)

// Key identifies a slot in a Pool. It carries no generation, so reusing
// a freed Key is the caller's responsibility — use SlotPool when that
// must be caught.
type Key int

// Pool is a fixed-size-class allocator: Alloc returns a fresh or
// recycled Key, Free returns a Key to the LIFO free list.
type Pool[T any] struct {
	b       brand.Brand
	slots   []T
	occ     []bool
	free    []Key // LIFO free list
	log     brandlog.Logger
}

// New creates an empty Pool gated by tok's brand.
func New[T any](tok brand.Token, opts ...brandlog.Option) *Pool[T] {
	cfg := brandlog.New(opts...)
	return &Pool[T]{b: tok.Of(), log: cfg.Log}
}

// Alloc stores v in a recycled or new slot and returns its Key.
func (p *Pool[T]) Alloc(tok *brand.Token, v T) (Key, error) {
	if !p.b.Is(*tok) {
		return 0, errs.ErrBrandMismatch
	}
	if n := len(p.free); n > 0 {
		k := p.free[n-1]
		p.free = p.free[:n-1]
		p.slots[k] = v
		p.occ[k] = true
		return k, nil
	}
	k := Key(len(p.slots))
	p.slots = append(p.slots, v)
	p.occ = append(p.occ, true)
	return k, nil
}

// Get returns the value stored at k, if any slot is currently occupied
// there.
func (p *Pool[T]) Get(tok brand.Token, k Key) (*T, error) {
	if !p.b.Is(tok) {
		return nil, errs.ErrBrandMismatch
	}
	if int(k) < 0 || int(k) >= len(p.slots) || !p.occ[k] {
		return nil, errs.ErrRegionClosed
	}
	return &p.slots[k], nil
}

// Free returns k's slot to the free list. Freeing an already-free or
// out-of-range key is an error rather than a silent no-op, so bugs
// surface instead of masking a double free.
func (p *Pool[T]) Free(tok *brand.Token, k Key) error {
	if !p.b.Is(*tok) {
		return errs.ErrBrandMismatch
	}
	if int(k) < 0 || int(k) >= len(p.slots) || !p.occ[k] {
		return errs.ErrRegionClosed
	}
	var zero T
	p.slots[k] = zero
	p.occ[k] = false
	p.free = append(p.free, k)
	p.log.Debugw("pool slot freed", "key", int(k))
	return nil
}

// Len returns the number of slots the pool has ever allocated
// (occupied + free), matching the teacher's sizing style in
// pkg/memory/region.go's GetObjectCount.
func (p *Pool[T]) Len() int { return len(p.slots) }

// SlotKey identifies a slot in a SlotPool and remembers the generation
// it was issued under, the (index, generation) pair from spec.md's data
// model.
type SlotKey struct {
	Index      int
	Generation uint32
}

type slot[T any] struct {
	v          T
	generation uint32
	occupied   bool
}

// SlotPool is the generational variant of Pool: Free bumps the slot's
// generation so a stale SlotKey from before the Free fails safely
// instead of aliasing whatever reoccupies the slot (spec.md's ABA
// prevention, and testable property §8.4).
type SlotPool[T any] struct {
	b     brand.Brand
	slots []slot[T]
	free  []int
	log   brandlog.Logger
}

// NewSlotPool creates an empty SlotPool gated by tok's brand.
func NewSlotPool[T any](tok brand.Token, opts ...brandlog.Option) *SlotPool[T] {
	cfg := brandlog.New(opts...)
	return &SlotPool[T]{b: tok.Of(), log: cfg.Log}
}

// Alloc stores v in a recycled or new slot and returns a SlotKey good
// until the next Free of that index.
func (p *SlotPool[T]) Alloc(tok *brand.Token, v T) (SlotKey, error) {
	if !p.b.Is(*tok) {
		return SlotKey{}, errs.ErrBrandMismatch
	}
	if n := len(p.free); n > 0 {
		idx := p.free[n-1]
		p.free = p.free[:n-1]
		s := &p.slots[idx]
		s.v = v
		s.occupied = true
		return SlotKey{Index: idx, Generation: s.generation}, nil
	}
	idx := len(p.slots)
	p.slots = append(p.slots, slot[T]{v: v, generation: 1, occupied: true})
	return SlotKey{Index: idx, Generation: 1}, nil
}

// Get returns the value at k only if k's generation still matches the
// slot's current occupant.
func (p *SlotPool[T]) Get(tok brand.Token, k SlotKey) (*T, error) {
	if !p.b.Is(tok) {
		return nil, errs.ErrBrandMismatch
	}
	s, err := p.at(k)
	if err != nil {
		return nil, err
	}
	return &s.v, nil
}

// Free invalidates k: it bumps the slot's generation so k (and any
// other copy of it) can never again resolve to a value, then returns
// the index to the free list.
func (p *SlotPool[T]) Free(tok *brand.Token, k SlotKey) error {
	if !p.b.Is(*tok) {
		return errs.ErrBrandMismatch
	}
	s, err := p.at(k)
	if err != nil {
		return err
	}
	var zero T
	s.v = zero
	s.occupied = false
	s.generation++
	p.free = append(p.free, k.Index)
	p.log.Debugw("slot pool generation bumped", "index", k.Index, "generation", s.generation)
	return nil
}

func (p *SlotPool[T]) at(k SlotKey) (*slot[T], error) {
	if k.Index < 0 || k.Index >= len(p.slots) {
		return nil, errs.ErrGenerationStale
	}
	s := &p.slots[k.Index]
	if !s.occupied || s.generation != k.Generation {
		return nil, errs.ErrGenerationStale
	}
	return s, nil
}
