package output

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/masmgr/repominer/internal/job"
)

// Reporter prints human-readable progress to the console. A nil or quiet
// Reporter prints nothing.
type Reporter struct {
	out     io.Writer
	verbose bool

	title *color.Color
	good  *color.Color
	warn  *color.Color
	bad   *color.Color
}

// NewReporter creates a reporter writing to out (stderr when nil).
func NewReporter(out io.Writer, verbose bool) *Reporter {
	if out == nil {
		out = os.Stderr
	}
	return &Reporter{
		out:     out,
		verbose: verbose,
		title:   color.New(color.FgGreen).Add(color.Underline),
		good:    color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		bad:     color.New(color.FgRed),
	}
}

// QuietReporter returns a reporter that discards everything.
func QuietReporter() *Reporter {
	return NewReporter(io.Discard, false)
}

// Start announces a run.
func (r *Reporter) Start(runID string, jobs, workers int) {
	if r == nil {
		return
	}
	r.good.Fprintf(r.out, "Mining %d repositories with %d workers (run %s)\n", jobs, workers, runID)
}

// JobStarted is called when a worker picks up a job.
func (r *Reporter) JobStarted(worker int, j job.Job) {
	if r == nil || !r.verbose {
		return
	}
	fmt.Fprintf(r.out, "\t[worker %d] %s\n", worker, j.Name)
}

// JobFinished is called when a job's pipeline ends, successfully or not.
func (r *Reporter) JobFinished(worker int, j job.Job, rows int, err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.bad.Fprintf(r.out, "\t[worker %d] %s failed: %v\n", worker, j.Name, err)
		return
	}
	if r.verbose {
		fmt.Fprintf(r.out, "\t[worker %d] %s: %d commits\n", worker, j.Name, rows)
	}
}

// Warn prints a non-fatal problem.
func (r *Reporter) Warn(format string, args ...any) {
	if r == nil {
		return
	}
	r.warn.Fprintf(r.out, format+"\n", args...)
}

// Summary prints the totals of a finished run.
func (r *Reporter) Summary(succeeded, failed, rows int, elapsed time.Duration) {
	if r == nil {
		return
	}
	fmt.Fprintln(r.out)
	r.title.Fprintln(r.out, "Summary:")
	fmt.Fprintf(r.out, "\trepositories mined: %d\n", succeeded)
	if failed > 0 {
		r.warn.Fprintf(r.out, "\trepositories failed: %d\n", failed)
	}
	fmt.Fprintf(r.out, "\tcommits written: %d\n", rows)
	fmt.Fprintf(r.out, "\nCompleted in %s\n", elapsed.Round(time.Millisecond))
}

// WriteJobs prints a job table to w.
func WriteJobs(w io.Writer, jobs []job.Job) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tName\tLocation")
	for i, j := range jobs {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, j.Name, j.Location)
	}
	return tw.Flush()
}
