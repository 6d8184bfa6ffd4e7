// Package sharedtoken implements spec.md §4.7's reader-writer cell around
// a single token: readers borrow it concurrently, a writer borrows it
// exclusively, and a writer panic poisons the cell the way a Rust
// Mutex's poison flag would.
package sharedtoken

import (
	"sync"

	"brandkernel/pkg/brand"
	"brandkernel/pkg/brandlog"
	"brandkernel/pkg/errs"
)

// SharedToken is a reader-writer cell holding a brand.Token. Many
// goroutines may hold a ReadGuard at once; a WriteGuard is exclusive
// with all reads and other writes, matching spec.md §5: "the token *is*
// the shared resource... locking discipline reduces to 'take the writer
// guard on the shared token.'"
type SharedToken struct {
	mu       sync.RWMutex
	tok      brand.Token
	poisoned bool
	log      brandlog.Logger
}

// New wraps tok in a SharedToken.
func New(tok brand.Token, opts ...brandlog.Option) *SharedToken {
	cfg := brandlog.New(opts...)
	return &SharedToken{tok: tok, log: cfg.Log}
}

// ReadGuard exposes a read-only copy of the shared token. Many
// ReadGuards may coexist; release one with Close.
type ReadGuard struct {
	st  *SharedToken
	tok brand.Token
}

// Token returns the guarded token, usable with any branded API that
// only needs read access.
func (g ReadGuard) Token() brand.Token { return g.tok }

// Close releases the read lock. It must be called exactly once per
// guard, typically via defer.
func (g ReadGuard) Close() { g.st.mu.RUnlock() }

// Read blocks until no writer holds the cell, then returns a ReadGuard.
// It fails with errs.ErrPoisoned if a prior writer panicked.
func (st *SharedToken) Read() (ReadGuard, error) {
	st.mu.RLock()
	if st.poisoned {
		st.mu.RUnlock()
		return ReadGuard{}, errs.ErrPoisoned
	}
	return ReadGuard{st: st, tok: st.tok}, nil
}

// WriteGuard exposes exclusive, mutable access to the shared token.
type WriteGuard struct {
	st  *SharedToken
	tok *brand.Token
}

// Token returns a pointer to the guarded token, usable with any branded
// API requiring mutable access.
func (g *WriteGuard) Token() *brand.Token { return g.tok }

// Close releases the write lock. If called as a deferred function while
// a panic is unwinding through the guarded section, it poisons the cell
// (matching spec.md §6's documented Poisoned error surface) and
// re-raises the panic after releasing the lock.
func (g *WriteGuard) Close() {
	if r := recover(); r != nil {
		g.st.poisoned = true
		g.st.log.Warnw("sharedtoken: writer panicked, cell poisoned", "panic", r)
		g.st.mu.Unlock()
		panic(r)
	}
	g.st.mu.Unlock()
}

// Write blocks until no reader or writer holds the cell, then returns a
// WriteGuard. It fails with errs.ErrPoisoned if a prior writer panicked.
func (st *SharedToken) Write() (*WriteGuard, error) {
	st.mu.Lock()
	if st.poisoned {
		st.mu.Unlock()
		return nil, errs.ErrPoisoned
	}
	return &WriteGuard{st: st, tok: &st.tok}, nil
}
