package sharedtoken

import (
	"context"

	"golang.org/x/sync/errgroup"

	"brandkernel/pkg/brand"
)

// ParallelRead runs each task concurrently, every task receiving its own
// copy of tok — safe because every task only needs read access, and a
// Token is freely copyable (spec.md §4.7's "a borrow of &Token is
// replicated to every child thread spawned inside a bounded scope").
// All tasks are joined before ParallelRead returns; the first task error
// cancels the shared context and is returned, matching errgroup's usual
// first-error semantics.
func ParallelRead[R any](ctx context.Context, tok brand.Token, tasks []func(context.Context, brand.Token) (R, error)) ([]R, error) {
	results := make([]R, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			r, err := task(gctx, tok)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// WriteScope realizes the "baton" pattern from spec.md §4.7: the token
// is handed to exactly one caller at a time. Each call to Hand acquires
// the underlying SharedToken's write lock, invokes f with exclusive
// access, and releases it before returning — so a sequence of Hand
// calls (even from different goroutines) sees the hand-offs occur one
// at a time, sequentially consistent with each other.
type WriteScope struct {
	st *SharedToken
}

// Scope returns a WriteScope over st.
func (st *SharedToken) Scope() WriteScope { return WriteScope{st: st} }

// Hand gives f exclusive access to the token, then returns it to the
// scope for the next Hand call.
func (w WriteScope) Hand(f func(*brand.Token) error) error {
	g, err := w.st.Write()
	if err != nil {
		return err
	}
	defer g.Close()
	return f(g.Token())
}

// ParallelReadThenCommit runs tasks concurrently under a read guard
// (read_phase), then runs commit once under a write guard over the
// collected results (commit_phase) — spec.md §4.7's "parallel plan,
// sequential commit" convenience. Read-phase completion happens-before
// commit-phase: the read guard is fully released before the write guard
// is acquired.
func ParallelReadThenCommit[R, C any](
	ctx context.Context,
	st *SharedToken,
	tasks []func(context.Context, brand.Token) (R, error),
	commit func(*brand.Token, []R) (C, error),
) (C, error) {
	var zero C

	rg, err := st.Read()
	if err != nil {
		return zero, err
	}
	readTok := rg.Token()
	results, err := ParallelRead(ctx, readTok, tasks)
	rg.Close()
	if err != nil {
		return zero, err
	}

	wg, err := st.Write()
	if err != nil {
		return zero, err
	}
	defer wg.Close()
	return commit(wg.Token(), results)
}
