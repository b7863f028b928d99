package worksteal

import (
	"context"
	"sync/atomic"
	"testing"

	"pgregory.net/rapid"
)

func TestRapidScheduler_ExactlyOnce(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 300).Draw(t, "items")
		workers := rapid.IntRange(1, 12).Draw(t, "workers")
		batch := rapid.IntRange(1, 40).Draw(t, "batch")

		counts := make([]atomic.Int32, n)
		s := New(Options{Workers: workers, BatchSize: batch}, seq(n))

		stats, err := s.Run(context.Background(), func(_ context.Context, _ int, item int) {
			counts[item].Add(1)
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i := range counts {
			if c := counts[i].Load(); c != 1 {
				t.Fatalf("item %d processed %d times (items=%d workers=%d batch=%d)", i, c, n, workers, batch)
			}
		}
		if stats.Total() != n {
			t.Fatalf("stats.Total() = %d, want %d", stats.Total(), n)
		}
	})
}

func TestRapidDeque_StealConservesItems(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		size := rapid.IntRange(0, 100).Draw(t, "size")
		victim := NewDeque[int]()
		victim.Push(seq(size)...)
		thief := NewDeque[int]()

		moved := victim.Stealer().StealBatch(thief)

		if moved+victim.Len() != size {
			t.Fatalf("moved %d + remaining %d != %d", moved, victim.Len(), size)
		}
		if size > 0 && moved == 0 {
			t.Fatalf("nothing stolen from deque of size %d", size)
		}
		if moved > (size+1)/2 {
			t.Fatalf("stole %d of %d, more than half", moved, size)
		}
	})
}
