package git

import (
	"context"

	"github.com/masmgr/repominer/internal/job"
)

// Acquirer clones a job's repository into a directory under root and
// returns the path of the working copy.
type Acquirer interface {
	Acquire(ctx context.Context, j job.Job, root string) (string, error)
}

// Extractor runs the history query against a working copy and returns the
// captured log output.
type Extractor interface {
	Extract(ctx context.Context, workdir string, filter IdentityFilter) ([]byte, error)
}

// Compile-time interface conformance checks.
var (
	_ Acquirer  = (*CLIAcquirer)(nil)
	_ Acquirer  = (*GoGitAcquirer)(nil)
	_ Extractor = (*LogExtractor)(nil)
)
