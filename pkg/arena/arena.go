// Package arena implements the append-only, two-generation Arena from
// spec.md §4.5: new elements enter a nursery; once the nursery crosses a
// tunable threshold, its whole contents migrate to a mature region.
// Migration rewrites where a Key's data physically lives but never its
// public value, so callers never observe the migration except through
// slightly different timing (spec.md §8's boundary behaviour: "the
// (k+1)-th insertion behaves observationally identical to the first").
package arena

import (
	"brandkernel/pkg/brand"
	"brandkernel/pkg/brandlog"
	"brandkernel/pkg/errs"
)

// Key is a stable, opaque identifier for an arena element. It survives
// nursery-to-mature migration.
type Key uint64

type location struct {
	mature bool
	chunk  int
	slot   int
}

// Arena is a chunked, append-only store of T with a nursery/mature
// two-generation layout.
type Arena[T any] struct {
	b brand.Brand

	chunkSize int
	threshold int

	nursery      [][]T
	nurseryCount int

	mature [][]T

	locations []location // indexed by Key
	log       brandlog.Logger
}

// New creates an Arena gated by tok's brand. chunkSize bounds each
// underlying slice; threshold is the nursery population above which a
// bulk migration into the mature region runs.
func New[T any](tok brand.Token, chunkSize, threshold int, opts ...brandlog.Option) *Arena[T] {
	if chunkSize <= 0 {
		panic("arena: chunkSize must be > 0")
	}
	cfg := brandlog.New(opts...)
	return &Arena[T]{b: tok.Of(), chunkSize: chunkSize, threshold: threshold, log: cfg.Log}
}

// Alloc stores v in the nursery and returns its stable Key, migrating
// the nursery to mature if this insertion crosses the threshold.
func (a *Arena[T]) Alloc(tok *brand.Token, v T) (Key, error) {
	if !a.b.Is(*tok) {
		return 0, errs.ErrBrandMismatch
	}
	k := a.pushNursery(v)
	a.maybeMigrate()
	return k, nil
}

// AllocBatch allocates every element of vs, in order, returning their
// Keys.
func (a *Arena[T]) AllocBatch(tok *brand.Token, vs []T) ([]Key, error) {
	if !a.b.Is(*tok) {
		return nil, errs.ErrBrandMismatch
	}
	keys := make([]Key, 0, len(vs))
	for _, v := range vs {
		keys = append(keys, a.pushNursery(v))
	}
	a.maybeMigrate()
	return keys, nil
}

func (a *Arena[T]) pushNursery(v T) Key {
	chunkIdx := len(a.nursery) - 1
	if chunkIdx < 0 || len(a.nursery[chunkIdx]) >= a.chunkSize {
		a.nursery = append(a.nursery, make([]T, 0, a.chunkSize))
		chunkIdx = len(a.nursery) - 1
	}
	a.nursery[chunkIdx] = append(a.nursery[chunkIdx], v)
	slot := len(a.nursery[chunkIdx]) - 1

	key := Key(len(a.locations))
	a.locations = append(a.locations, location{mature: false, chunk: chunkIdx, slot: slot})
	a.nurseryCount++
	return key
}

// maybeMigrate moves the entire nursery into the mature region once its
// population exceeds the configured threshold. Migration preserves key
// identity: only the location table changes.
func (a *Arena[T]) maybeMigrate() {
	if a.threshold <= 0 || a.nurseryCount <= a.threshold {
		return
	}

	// Every pushNursery call appends to a.nursery and a.locations in
	// lockstep, so the nursery's keys are exactly the trailing
	// nurseryCount entries of a.locations, in the same chunk/slot
	// enumeration order as a.nursery itself. That lets migration update
	// locations in a single pass instead of a lookup per element.
	baseChunk := len(a.mature)
	key := Key(len(a.locations) - a.nurseryCount)
	for ci, chunk := range a.nursery {
		a.mature = append(a.mature, chunk)
		for si := range chunk {
			a.locations[key] = location{mature: true, chunk: baseChunk + ci, slot: si}
			key++
		}
	}
	a.log.Debugw("arena nursery migrated to mature", "elements", a.nurseryCount, "chunks", len(a.nursery))
	a.nursery = nil
	a.nurseryCount = 0
}

func (a *Arena[T]) resolve(k Key) (*T, bool) {
	if int(k) < 0 || int(k) >= len(a.locations) {
		return nil, false
	}
	loc := a.locations[k]
	if loc.mature {
		return &a.mature[loc.chunk][loc.slot], true
	}
	return &a.nursery[loc.chunk][loc.slot], true
}

// Get returns the element at k, wherever it currently lives.
func (a *Arena[T]) Get(tok brand.Token, k Key) (*T, error) {
	if !a.b.Is(tok) {
		return nil, errs.ErrBrandMismatch
	}
	v, ok := a.resolve(k)
	if !ok {
		return nil, errs.ErrRegionClosed
	}
	return v, nil
}

// ForEach visits every live element with a shared borrow.
func (a *Arena[T]) ForEach(tok brand.Token, f func(Key, T)) error {
	if !a.b.Is(tok) {
		return errs.ErrBrandMismatch
	}
	for k := range a.locations {
		v, _ := a.resolve(Key(k))
		f(Key(k), *v)
	}
	return nil
}

// ForEachMut visits every live element with an exclusive borrow, one at
// a time, so only a single &mut Token-equivalent is ever live — this is
// why the signature is a callback rather than an iterator yielding
// *T values (spec.md §4.5: "without producing an owning iterator of
// mutable references, which would attempt to alias the single token").
func (a *Arena[T]) ForEachMut(tok *brand.Token, f func(Key, *T)) error {
	if !a.b.Is(*tok) {
		return errs.ErrBrandMismatch
	}
	for k := range a.locations {
		v, _ := a.resolve(Key(k))
		f(Key(k), v)
	}
	return nil
}

// Len returns the number of elements ever allocated.
func (a *Arena[T]) Len() int { return len(a.locations) }
