// Package worksteal distributes items across a fixed pool of workers. Each
// worker owns a local deque filled from a shared backlog; a worker whose
// deque and the backlog are both empty steals a batch from a peer, and
// terminates once no peer has anything left.
package worksteal

import (
	"context"
	"sync"
	"sync/atomic"
)

const (
	// DefaultWorkers is the pool size used when Options.Workers is not set.
	DefaultWorkers = 4
	// DefaultBatchSize caps how many items one pull from the backlog takes.
	DefaultBatchSize = 32
)

// Handler processes one item on the calling worker. It runs synchronously;
// a slow item only stalls its own worker.
type Handler[T any] func(ctx context.Context, worker int, item T)

// Options configures a Scheduler.
type Options struct {
	Workers   int
	BatchSize int
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	return o
}

// Stats summarizes a finished run.
type Stats struct {
	Processed []int // items handled, indexed by worker
	Steals    int   // successful peer steals
}

// Total returns the number of items handled by all workers.
func (s Stats) Total() int {
	total := 0
	for _, n := range s.Processed {
		total += n
	}
	return total
}

// Scheduler owns the backlog and the registry of worker stealers.
type Scheduler[T any] struct {
	opts     Options
	backlog  *Injector[T]
	registry registry[T]
}

// New creates a scheduler seeded with items.
func New[T any](opts Options, items []T) *Scheduler[T] {
	return &Scheduler[T]{
		opts:    opts.withDefaults(),
		backlog: NewInjector(items...),
	}
}

// Run starts the worker pool and blocks until every worker has terminated.
// Cancelling ctx makes workers stop before their next item; Run then returns
// ctx.Err() along with the stats gathered so far. Run may be called again
// once it has returned, but not concurrently.
func (s *Scheduler[T]) Run(ctx context.Context, handle Handler[T]) (Stats, error) {
	s.registry.reset()
	processed := make([]atomic.Int64, s.opts.Workers)
	var steals atomic.Int64

	var wg sync.WaitGroup
	for id := 0; id < s.opts.Workers; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			w := &worker[T]{
				id:     id,
				sched:  s,
				local:  NewDeque[T](),
				done:   &processed[id],
				steals: &steals,
			}
			w.run(ctx, handle)
		}(id)
	}
	wg.Wait()

	stats := Stats{Processed: make([]int, s.opts.Workers), Steals: int(steals.Load())}
	for i := range processed {
		stats.Processed[i] = int(processed[i].Load())
	}
	return stats, ctx.Err()
}

type worker[T any] struct {
	id     int
	sched  *Scheduler[T]
	local  *Deque[T]
	done   *atomic.Int64
	steals *atomic.Int64
}

func (w *worker[T]) run(ctx context.Context, handle Handler[T]) {
	self := w.sched.registry.publish(w.local.Stealer())
	w.sched.backlog.StealBatch(w.local, w.sched.opts.BatchSize)

	for ctx.Err() == nil {
		if item, ok := w.local.Pop(); ok {
			handle(ctx, w.id, item)
			w.done.Add(1)
			continue
		}
		if !w.sched.backlog.IsEmpty() {
			w.sched.backlog.StealBatch(w.local, w.sched.opts.BatchSize)
			continue
		}
		if !w.stealFromPeers(self) {
			return
		}
	}
}

// stealFromPeers scans peers in registration order and steals from the
// first one that has work.
func (w *worker[T]) stealFromPeers(self *Stealer[T]) bool {
	for _, peer := range w.sched.registry.snapshot() {
		if peer == self || peer.IsEmpty() {
			continue
		}
		if peer.StealBatch(w.local) > 0 {
			w.steals.Add(1)
			return true
		}
	}
	return false
}

// registry holds one stealer per worker of the current run. Entries are
// appended once at worker start and never modified afterwards.
type registry[T any] struct {
	mu       sync.RWMutex
	stealers []*Stealer[T]
}

func (r *registry[T]) publish(s *Stealer[T]) *Stealer[T] {
	r.mu.Lock()
	r.stealers = append(r.stealers, s)
	r.mu.Unlock()
	return s
}

func (r *registry[T]) reset() {
	r.mu.Lock()
	r.stealers = nil
	r.mu.Unlock()
}

func (r *registry[T]) snapshot() []*Stealer[T] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stealers[:len(r.stealers):len(r.stealers)]
}
