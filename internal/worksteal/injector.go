package worksteal

// Injector is the global backlog shared by all workers. It is filled once
// before the workers start and drained in batches.
type Injector[T any] struct {
	q Deque[T]
}

// NewInjector creates a backlog seeded with items.
func NewInjector[T any](items ...T) *Injector[T] {
	inj := &Injector[T]{}
	inj.Push(items...)
	return inj
}

// Push adds items to the backlog.
func (inj *Injector[T]) Push(items ...T) {
	inj.q.Push(items...)
}

// IsEmpty reports whether the backlog is drained.
func (inj *Injector[T]) IsEmpty() bool {
	return inj.q.IsEmpty()
}

// Len returns the number of unclaimed items.
func (inj *Injector[T]) Len() int {
	return inj.q.Len()
}

// StealBatch moves half of the backlog, at most limit items, into dst.
func (inj *Injector[T]) StealBatch(dst *Deque[T], limit int) int {
	batch := inj.q.takeHalf(limit)
	dst.Push(batch...)
	return len(batch)
}
