package worksteal

import "sync"

// Deque is a worker-local FIFO queue. The owning worker pushes and pops;
// peers can only take items through the Stealer returned by Stealer().
type Deque[T any] struct {
	mu    sync.Mutex
	items []T
}

// NewDeque creates an empty deque.
func NewDeque[T any]() *Deque[T] {
	return &Deque[T]{}
}

// Push appends items to the back of the deque.
func (d *Deque[T]) Push(items ...T) {
	if len(items) == 0 {
		return
	}
	d.mu.Lock()
	d.items = append(d.items, items...)
	d.mu.Unlock()
}

// Pop removes the item at the front of the deque.
func (d *Deque[T]) Pop() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var zero T
	if len(d.items) == 0 {
		return zero, false
	}
	item := d.items[0]
	d.items[0] = zero
	d.items = d.items[1:]
	return item, true
}

// Len returns the number of queued items.
func (d *Deque[T]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}

// IsEmpty reports whether the deque holds no items.
func (d *Deque[T]) IsEmpty() bool {
	return d.Len() == 0
}

// Stealer returns a handle peers use to take work from this deque.
func (d *Deque[T]) Stealer() *Stealer[T] {
	return &Stealer[T]{d: d}
}

// takeHalf removes half of the items (rounded up) from the front, capped at
// limit when limit is positive.
func (d *Deque[T]) takeHalf(limit int) []T {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := half(len(d.items))
	if limit > 0 && n > limit {
		n = limit
	}
	if n == 0 {
		return nil
	}
	batch := make([]T, n)
	copy(batch, d.items[:n])
	clear(d.items[:n])
	d.items = d.items[n:]
	return batch
}

// Stealer is a read-only capability over a peer's deque.
type Stealer[T any] struct {
	d *Deque[T]
}

// IsEmpty reports whether the underlying deque is empty.
func (s *Stealer[T]) IsEmpty() bool {
	return s.d.IsEmpty()
}

// StealBatch moves about half of the peer's items into dst and returns the
// number moved. The victim lock is released before dst is locked, so two
// workers stealing from each other cannot deadlock.
func (s *Stealer[T]) StealBatch(dst *Deque[T]) int {
	if s.d == dst {
		return 0
	}
	batch := s.d.takeHalf(0)
	dst.Push(batch...)
	return len(batch)
}

func half(n int) int {
	return (n + 1) / 2
}
