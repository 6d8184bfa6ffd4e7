package batomic

import (
	"sync"
	"testing"

	"brandkernel/pkg/brand"
)

// TestScenarioBitsetLinearizability exercises spec.md §8 testable
// property 5: after TestAndSet(i) returns false, a subsequent
// TestAndSet(i) by any thread returns true.
func TestScenarioBitsetLinearizability(t *testing.T) {
	brand.Run(func(tok brand.Token) struct{} {
		s := NewBitset(tok, 128)

		const racers = 16
		var wg sync.WaitGroup
		wins := make([]bool, racers)
		for i := 0; i < racers; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				prior, _ := s.TestAndSet(tok, 5)
				wins[idx] = !prior
			}(i)
		}
		wg.Wait()

		winners := 0
		for _, w := range wins {
			if w {
				winners++
			}
		}
		if winners != 1 {
			t.Fatalf("expected exactly one TestAndSet racer to observe false, got %d", winners)
		}
		set, _ := s.Test(tok, 5)
		if !set {
			t.Fatal("bit should be set after the race")
		}
		return struct{}{}
	})
}

func TestFetchOrWordBatchesBits(t *testing.T) {
	brand.Run(func(tok brand.Token) struct{} {
		s := NewBitset(tok, 64)
		prior, err := s.FetchOrWord(tok, 0, 0b1011)
		if err != nil || prior != 0 {
			t.Fatalf("expected prior word 0, got %d err=%v", prior, err)
		}
		count, _ := s.PopCount(tok)
		if count != 3 {
			t.Fatalf("expected 3 bits set after OR-ing 0b1011, got %d", count)
		}
		return struct{}{}
	})
}

func TestClearAll(t *testing.T) {
	brand.Run(func(tok brand.Token) struct{} {
		s := NewBitset(tok, 10)
		s.TestAndSet(tok, 3)
		s.ClearAll(&tok)
		set, _ := s.Test(tok, 3)
		if set {
			t.Fatal("expected bit 3 clear after ClearAll")
		}
		return struct{}{}
	})
}
