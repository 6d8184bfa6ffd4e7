package worklist

import (
	"sync"
	"testing"

	"brandkernel/pkg/brand"
)

func TestTreiberPushPopIsLIFO(t *testing.T) {
	brand.Run(func(tok brand.Token) struct{} {
		s := NewTreiberStack(tok, 4)
		for _, v := range []uint{1, 2, 3} {
			if err := s.Push(tok, v); err != nil {
				t.Fatalf("push %d: %v", v, err)
			}
		}
		for _, want := range []uint{3, 2, 1} {
			v, ok, err := s.Pop(tok)
			if err != nil || !ok || v != want {
				t.Fatalf("expected pop %d, got %d ok=%v err=%v", want, v, ok, err)
			}
		}
		if _, ok, _ := s.Pop(tok); ok {
			t.Fatal("expected empty stack")
		}
		return struct{}{}
	})
}

// TestTreiberAtCapacityBoundary exercises spec.md §8's boundary
// behaviour: "Worklist at capacity: next push fails; after one pop,
// push succeeds."
func TestTreiberAtCapacityBoundary(t *testing.T) {
	brand.Run(func(tok brand.Token) struct{} {
		s := NewTreiberStack(tok, 2)
		if err := s.Push(tok, 1); err != nil {
			t.Fatalf("push 1: %v", err)
		}
		if err := s.Push(tok, 2); err != nil {
			t.Fatalf("push 2: %v", err)
		}
		if err := s.Push(tok, 3); err == nil {
			t.Fatal("expected push at capacity to fail")
		}
		if _, _, err := s.Pop(tok); err != nil {
			t.Fatalf("pop: %v", err)
		}
		if err := s.Push(tok, 3); err != nil {
			t.Fatalf("push after pop should succeed, got %v", err)
		}
		return struct{}{}
	})
}

func TestTreiberForeignTokenRejected(t *testing.T) {
	var s *TreiberStack
	brand.Run(func(tok brand.Token) struct{} {
		s = NewTreiberStack(tok, 4)
		return struct{}{}
	})
	brand.Run(func(foreign brand.Token) struct{} {
		if err := s.Push(foreign, 1); err == nil {
			t.Fatal("expected brand mismatch on push")
		}
		if _, _, err := s.Pop(foreign); err == nil {
			t.Fatal("expected brand mismatch on pop")
		}
		return struct{}{}
	})
}

// TestTreiberConcurrentPushPopConservesCount hammers the stack from many
// goroutines and checks that every pushed value is popped exactly once,
// the property the generation-stamped head exists to protect.
func TestTreiberConcurrentPushPopConservesCount(t *testing.T) {
	brand.Run(func(tok brand.Token) struct{} {
		const n = 500
		s := NewTreiberStack(tok, n)

		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(v uint) {
				defer wg.Done()
				for {
					if err := s.Push(tok, v); err == nil {
						return
					}
				}
			}(uint(i))
		}
		wg.Wait()

		seen := make([]bool, n)
		var mu sync.Mutex
		var popWg sync.WaitGroup
		for i := 0; i < n; i++ {
			popWg.Add(1)
			go func() {
				defer popWg.Done()
				for {
					v, ok, err := s.Pop(tok)
					if err != nil {
						t.Errorf("pop: %v", err)
						return
					}
					if !ok {
						return
					}
					mu.Lock()
					if seen[v] {
						t.Errorf("value %d popped twice", v)
					}
					seen[v] = true
					mu.Unlock()
				}
			}()
		}
		popWg.Wait()

		for i, ok := range seen {
			if !ok {
				t.Errorf("value %d never popped", i)
			}
		}
		return struct{}{}
	})
}
