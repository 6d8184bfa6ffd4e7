package arena

import (
	"sync"
	"testing"

	"brandkernel/pkg/brand"
	"brandkernel/pkg/sharedtoken"
)

// TestLarsonStyleConcurrentAllocation runs a Larson-style churn workload
// against an Arena: many goroutines allocate concurrently, each access
// serialized through a SharedToken write-scope baton since Arena itself
// carries no internal lock. Arena has no Free (it is append-only, spec.md
// §4.5), so the property under test is allocation-side: every key handed
// out is distinct and still resolves to the value it was given, both
// before and after nursery->mature migration.
func TestLarsonStyleConcurrentAllocation(t *testing.T) {
	brand.Run(func(tok brand.Token) struct{} {
		a := New[int](tok, 8, 32)
		st := sharedtoken.New(tok)
		scope := st.Scope()

		const workers = 8
		const allocsPerWorker = 500

		var mu sync.Mutex
		want := make(map[Key]int)

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func(base int) {
				defer wg.Done()
				for i := 0; i < allocsPerWorker; i++ {
					v := base*100000 + i
					err := scope.Hand(func(tk *brand.Token) error {
						k, err := a.Alloc(tk, v)
						if err != nil {
							return err
						}
						mu.Lock()
						if _, dup := want[k]; dup {
							t.Errorf("key %d allocated twice", k)
						}
						want[k] = v
						mu.Unlock()
						return nil
					})
					if err != nil {
						t.Errorf("alloc: %v", err)
					}
				}
			}(w + 1)
		}
		wg.Wait()

		if got := a.Len(); got != workers*allocsPerWorker {
			t.Fatalf("expected %d total allocations, got %d", workers*allocsPerWorker, got)
		}
		for k, v := range want {
			got, err := a.Get(tok, k)
			if err != nil {
				t.Fatalf("get %d: %v", k, err)
			}
			if *got != v {
				t.Fatalf("key %d: expected %d, got %d", k, v, *got)
			}
		}
		return struct{}{}
	})
}
