// Package brand implements the capability kernel's generative token: a
// single, scope-bound handle that is the sole permission needed to read
// or write any cell, pool, arena, or atomic built atop it.
//
// Rust expresses the brand as an invariant lifetime and enforces
// uniqueness and non-escape entirely at compile time via a rank-2
// closure bound (spec.md §4.1). Go has neither higher-rank lifetimes nor
// move-only types, so this package follows the porting note in spec.md
// §9: the brand becomes a generative runtime tag — a uniquely allocated
// pointer minted once per Run call — and every operation that Rust
// rejects at compile time (mixing a cell's brand with a foreign token)
// is instead checked here and reported as errs.ErrBrandMismatch.
package brand

import "sync"

// tag is the runtime brand. Its identity, not its contents, is what
// matters: two tags are the same brand iff they are the same pointer.
type tag struct{ _ byte }

// Token is the capability handle. Callers obtain one only through Run,
// mirroring the rank-2 closure in the original design. A Token is cheap
// to copy (it is a single pointer) but callers must not hand the same
// Token to two goroutines expecting exclusive (mutable-borrow) access at
// once; see pkg/sharedtoken for the primitive that arbitrates that.
type Token struct {
	t *tag
}

// Brand identifies the generative tag a Token carries, without granting
// any access right itself. Branded containers (cell.Cell, pool.Pool,
// arena.Arena, ...) capture a Brand at construction time so later
// Borrow/BorrowMut calls can check it against the Token presented.
type Brand struct {
	t *tag
}

// Of returns the brand a Token carries. Constructors for branded
// containers take a Token (or its Brand) up front; this is the Go
// analogue of the type parameter 'b in the Rust design, since Go cannot
// carry a lifetime as a type parameter.
func (tok Token) Of() Brand {
	return Brand{t: tok.t}
}

// Is reports whether tok was minted by the same Run call that produced
// b. Branded containers call this (or the equivalent check against the
// token's own Brand) before dereferencing.
func (b Brand) Is(tok Token) bool {
	return b.t == tok.t
}

// Equal reports whether two brands are the same generative tag.
func (b Brand) Equal(other Brand) bool {
	return b.t == other.t
}

// Run creates a fresh brand, invokes f with a Token carrying it exactly
// once, and returns f's result. The brand is valid for the dynamic
// extent of the call to f; nothing in this package lets a Token or a
// container branded with this Token's tag escape usefully past Run
// returning, since no other code holds a reference to this tag.
//
// Run is the direct analogue of the rank-2 `scope(f)` entry point in
// spec.md §4.1 and §6.
func Run[R any](f func(Token) R) R {
	tok := Token{t: &tag{}}
	return f(tok)
}

// globalTok is the token behind Global, minted at most once via globalOnce.
var (
	globalOnce sync.Once
	globalTok  Token
)

// Global returns a process-lifetime Token whose brand is distinct from
// every brand minted by Run. It exists for the "static token" usage the
// original Rust source benchmarks alongside the scoped one
// (benches/static_token_benchmark.rs) — a convenience for programs that
// want one arena for their whole lifetime and don't need Run's scoping.
//
// Global's brand must never be mixed with a Run-scoped brand: a
// container built with Global's Token will report errs.ErrBrandMismatch
// against any Token from Run, and vice versa. Prefer Run unless the
// container genuinely outlives every conceivable scope.
func Global() Token {
	globalOnce.Do(func() {
		globalTok = Token{t: &tag{}}
	})
	return globalTok
}
