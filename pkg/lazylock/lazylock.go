// Package lazylock implements LazyLock: a thread-safe, one-shot
// memoised computation. Unlike once.LazyCell, many goroutines may race
// to call Get at once; exactly one of them runs the initialiser, and the
// rest park until it finishes, mirroring spec.md §4.3's three-state
// machine (Uninitialised / Initialising / Initialised).
//
// The parking protocol is grounded on the sibling example repo
// go-ilock's condvar-guarded state transitions: a sync.Mutex plus
// sync.Cond serialises state changes, with the state itself readable
// without the lock via sync/atomic for the fast (already-Initialised)
// path.
package lazylock

import (
	"sync"
	"sync/atomic"

	"brandkernel/pkg/brand"
	"brandkernel/pkg/brandlog"
	"brandkernel/pkg/errs"
)

type state int32

const (
	uninitialised state = iota
	initialising
	initialised
)

// LazyLock memoises the result of compute, running it at most once
// across however many goroutines call Get concurrently.
type LazyLock[T any] struct {
	b       brand.Brand
	state   int32
	mu      sync.Mutex
	cond    *sync.Cond
	compute func() T
	v       T
	log     brandlog.Logger
}

// New creates a LazyLock under tok's brand. compute runs on first
// successful Get, exactly once, even under concurrent first callers.
func New[T any](tok brand.Token, compute func() T, opts ...brandlog.Option) *LazyLock[T] {
	cfg := brandlog.New(opts...)
	l := &LazyLock[T]{b: tok.Of(), compute: compute, log: cfg.Log}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// Get returns the memoised value, computing it if this is the first
// call to observe Uninitialised. If the initialiser panics, the lock
// resets to Uninitialised so a later caller may retry — the documented
// failure-handling behaviour from spec.md §4.3 — and the panic is
// re-raised to this caller.
func (l *LazyLock[T]) Get(tok brand.Token) (*T, error) {
	if !l.b.Is(tok) {
		return nil, errs.ErrBrandMismatch
	}

	if atomic.LoadInt32(&l.state) == int32(initialised) {
		return &l.v, nil
	}

	l.mu.Lock()
	for {
		switch state(atomic.LoadInt32(&l.state)) {
		case initialised:
			l.mu.Unlock()
			return &l.v, nil
		case uninitialised:
			atomic.StoreInt32(&l.state, int32(initialising))
			l.mu.Unlock()
			l.runCompute()
			return &l.v, nil
		default: // initialising: another goroutine is racing us
			l.cond.Wait()
		}
	}
}

// runCompute runs the initialiser outside the lock (so other goroutines
// can still observe state changes via cond.Wait), publishing the result
// or resetting to Uninitialised and re-panicking on failure.
func (l *LazyLock[T]) runCompute() {
	defer func() {
		if r := recover(); r != nil {
			l.mu.Lock()
			atomic.StoreInt32(&l.state, int32(uninitialised))
			l.mu.Unlock()
			l.cond.Broadcast()
			l.log.Warnw("lazylock initialiser panicked, reset to uninitialised", "panic", r)
			panic(r)
		}
	}()

	v := l.compute()

	l.mu.Lock()
	l.v = v
	atomic.StoreInt32(&l.state, int32(initialised))
	l.mu.Unlock()
	l.cond.Broadcast()
}
