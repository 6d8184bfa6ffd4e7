package lazylock

import (
	"sync"
	"sync/atomic"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandkernel/pkg/brand"
)

// TestLazyLockLayoutOverhead is the thread-safe analogue of pkg/cell's
// zero-overhead layout check. LazyLock is not zero-cost the way Cell
// is — it carries a sync.Mutex, a *sync.Cond, a compute closure and a
// logger alongside T. The check is a lower bound: the struct's size must
// be at least the sum of those fields plus the size of T. Padding and
// any extra size above that bound are not checked.
func TestLazyLockLayoutOverhead(t *testing.T) {
	var l LazyLock[int]
	var v int
	fixedOverhead := unsafe.Sizeof(l.b) + unsafe.Sizeof(l.state) + unsafe.Sizeof(l.mu) +
		unsafe.Sizeof(l.cond) + unsafe.Sizeof(l.compute) + unsafe.Sizeof(l.log)
	if got, want := unsafe.Sizeof(l), fixedOverhead+unsafe.Sizeof(v); got < want {
		t.Fatalf("LazyLock[int] smaller than its declared fields imply: sizeof=%d, want >= %d", got, want)
	}
}

// TestScenarioS6LazyLockRace exercises spec.md §8 scenario S6: N
// concurrent first-callers, initialiser runs exactly once, every caller
// observes the same value.
func TestScenarioS6LazyLockRace(t *testing.T) {
	const threads = 8
	brand.Run(func(tok brand.Token) struct{} {
		var invocations int64
		l := New(tok, func() int {
			atomic.AddInt64(&invocations, 1)
			return 99
		})

		var wg sync.WaitGroup
		results := make([]int, threads)
		start := make(chan struct{})
		for i := 0; i < threads; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				<-start
				v, err := l.Get(tok)
				require.NoError(t, err)
				results[idx] = *v
			}(i)
		}
		close(start)
		wg.Wait()

		assert.EqualValues(t, 1, atomic.LoadInt64(&invocations), "initialiser must run exactly once")
		for _, r := range results {
			assert.Equal(t, 99, r, "every caller must observe the same memoised value")
		}
		return struct{}{}
	})
}

func TestLazyLockPanicResetsToUninitialised(t *testing.T) {
	brand.Run(func(tok brand.Token) struct{} {
		attempt := 0
		l := New(tok, func() int {
			attempt++
			if attempt == 1 {
				panic("boom")
			}
			return 7
		})

		assert.Panics(t, func() {
			_, _ = l.Get(tok)
		})

		v, err := l.Get(tok)
		require.NoError(t, err)
		assert.Equal(t, 7, *v, "a retry after a panicking initialiser should succeed")
		assert.Equal(t, 2, attempt)
		return struct{}{}
	})
}

func TestLazyLockForeignTokenRejected(t *testing.T) {
	var l *LazyLock[int]
	brand.Run(func(tok brand.Token) struct{} {
		l = New(tok, func() int { return 1 })
		return struct{}{}
	})
	brand.Run(func(foreign brand.Token) struct{} {
		_, err := l.Get(foreign)
		assert.Error(t, err)
		return struct{}{}
	})
}
