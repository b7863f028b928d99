// Package mining runs the per-repository pipeline (clone, read history,
// parse, write rows) for every job on a work-stealing worker pool.
package mining

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/masmgr/repominer/internal/git"
	"github.com/masmgr/repominer/internal/job"
	"github.com/masmgr/repominer/internal/worksteal"
)

// ErrSink marks a failure to write to the output. It aborts the run.
var ErrSink = errors.New("output write failed")

// RowWriter receives commit stat rows from any worker.
type RowWriter interface {
	WriteRow(git.CommitStat) error
}

// Observer is notified about job progress. Implementations must be safe
// for concurrent use.
type Observer interface {
	JobStarted(worker int, j job.Job)
	JobFinished(worker int, j job.Job, rows int, err error)
}

// Options configures a Miner.
type Options struct {
	Workers   int
	BatchSize int
	// TempDir is the parent of the per-run temp root; os.TempDir() when empty.
	TempDir string
	// KeepWorkdirs leaves cloned working copies on disk.
	KeepWorkdirs bool
	// RunID names the run; a random UUID when empty.
	RunID string
}

// Summary describes a finished run.
type Summary struct {
	RunID     string
	Jobs      int
	Succeeded int
	Failed    int
	Rows      int
	Steals    int
	Elapsed   time.Duration
}

// Miner mines commit stats from a set of repositories.
type Miner struct {
	acquirer  git.Acquirer
	extractor git.Extractor
	sink      RowWriter
	filter    git.IdentityFilter
	observer  Observer
	opts      Options
}

// New creates a Miner. observer may be nil.
func New(acquirer git.Acquirer, extractor git.Extractor, sink RowWriter, filter git.IdentityFilter, observer Observer, opts Options) (*Miner, error) {
	if filter.Len() == 0 {
		return nil, git.ErrNoIdentities
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Miner{
		acquirer:  acquirer,
		extractor: extractor,
		sink:      sink,
		filter:    filter,
		observer:  observer,
		opts:      opts,
	}, nil
}

// Run processes every job exactly once. Jobs that fail to clone or whose
// history cannot be read are counted and skipped. A sink failure cancels
// the remaining work and is returned.
func (m *Miner) Run(ctx context.Context, jobs []job.Job) (Summary, error) {
	start := time.Now()
	summary := Summary{RunID: m.opts.RunID, Jobs: len(jobs)}
	if summary.RunID == "" {
		summary.RunID = uuid.NewString()
	}

	if err := job.ValidateAll(jobs); err != nil {
		return summary, err
	}

	root, err := os.MkdirTemp(m.opts.TempDir, "repominer-"+summary.RunID+"-")
	if err != nil {
		return summary, fmt.Errorf("create temp root: %w", err)
	}
	if !m.opts.KeepWorkdirs {
		defer os.RemoveAll(root)
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	var succeeded, failed, rows atomic.Int64
	sched := worksteal.New(worksteal.Options{Workers: m.opts.Workers, BatchSize: m.opts.BatchSize}, jobs)

	stats, runErr := sched.Run(ctx, func(ctx context.Context, worker int, j job.Job) {
		m.observer.JobStarted(worker, j)
		n, err := m.process(ctx, root, j)
		rows.Add(int64(n))
		m.observer.JobFinished(worker, j, n, err)

		switch {
		case errors.Is(err, ErrSink):
			failed.Add(1)
			cancel(err)
		case err != nil:
			failed.Add(1)
		default:
			succeeded.Add(1)
		}
	})

	summary.Succeeded = int(succeeded.Load())
	summary.Failed = int(failed.Load())
	summary.Rows = int(rows.Load())
	summary.Steals = stats.Steals
	summary.Elapsed = time.Since(start)

	if runErr != nil {
		if cause := context.Cause(ctx); cause != nil {
			return summary, cause
		}
		return summary, runErr
	}
	return summary, nil
}

// process runs the pipeline for one job and returns the number of rows
// written. The working copy is removed on every path.
func (m *Miner) process(ctx context.Context, root string, j job.Job) (int, error) {
	workdir, err := m.acquirer.Acquire(ctx, j, root)
	if !m.opts.KeepWorkdirs {
		// A failed clone can leave a partial directory behind.
		defer func() {
			os.RemoveAll(filepath.Join(root, j.Name))
			if workdir != "" {
				os.RemoveAll(workdir)
			}
		}()
	}
	if err != nil {
		return 0, err
	}

	out, err := m.extractor.Extract(ctx, workdir, m.filter)
	if err != nil {
		return 0, err
	}

	written := 0
	err = git.ParseNumstat(bytes.NewReader(out), func(stat git.CommitStat) error {
		if werr := m.sink.WriteRow(stat); werr != nil {
			return fmt.Errorf("%w: %w", ErrSink, werr)
		}
		written++
		return nil
	})
	return written, err
}

type nopObserver struct{}

func (nopObserver) JobStarted(int, job.Job) {}
func (nopObserver) JobFinished(int, job.Job, int, error) {}
