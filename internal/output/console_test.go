package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/masmgr/repominer/internal/job"
)

func TestReporter_Output(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	r := NewReporter(&buf, false)
	j := job.Job{Location: "https://example.com/a.git", Name: "a"}

	r.Start("run-1", 3, 2)
	r.JobStarted(0, j)
	r.JobFinished(0, j, 5, nil)
	r.JobFinished(1, job.Job{Name: "b"}, 0, errors.New("clone failed"))
	r.Summary(1, 1, 5, 1500*time.Millisecond)

	out := buf.String()
	for _, want := range []string{
		"Mining 3 repositories with 2 workers (run run-1)",
		"b failed: clone failed",
		"repositories mined: 1",
		"repositories failed: 1",
		"commits written: 5",
		"Completed in 1.5s",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "[worker 0] a") {
		t.Errorf("non-verbose reporter printed job progress:\n%s", out)
	}
}

func TestReporter_NilIsSilent(t *testing.T) {
	var r *Reporter
	r.Start("x", 1, 1)
	r.JobFinished(0, job.Job{}, 0, errors.New("ignored"))
	r.Summary(0, 0, 0, 0)
}

func TestWriteJobs(t *testing.T) {
	var buf bytes.Buffer
	err := WriteJobs(&buf, []job.Job{
		{Location: "https://example.com/a.git", Name: "a"},
		{Location: "https://example.com/bb.git", Name: "bb"},
	})
	if err != nil {
		t.Fatalf("WriteJobs: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[2], "2") || !strings.Contains(lines[2], "https://example.com/bb.git") {
		t.Fatalf("unexpected row %q", lines[2])
	}
}
