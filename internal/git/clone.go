package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/masmgr/repominer/internal/job"
)

// Backend selects how repositories are cloned.
type Backend string

const (
	BackendCLI   Backend = "cli"
	BackendGoGit Backend = "go-git"
)

// ParseBackend parses a clone backend name. The empty string selects the
// git CLI.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "cli", "git":
		return BackendCLI, nil
	case "go-git", "gogit":
		return BackendGoGit, nil
	default:
		return "", &UnknownModeError{Kind: "clone backend", Value: s}
	}
}

// CloneOptions configures an Acquirer.
type CloneOptions struct {
	Backend Backend
	Timeout time.Duration // zero means no limit
	Runner  Runner
}

// NewAcquirer returns the acquirer for the configured backend.
func NewAcquirer(opts CloneOptions) Acquirer {
	if opts.Backend == BackendGoGit {
		return &GoGitAcquirer{Timeout: opts.Timeout}
	}
	return &CLIAcquirer{Runner: opts.Runner, Timeout: opts.Timeout}
}

// CLIAcquirer clones with "git clone" run from the temp root.
type CLIAcquirer struct {
	Runner  Runner
	Timeout time.Duration
}

// Acquire clones j.Location into root/j.Name.
func (a *CLIAcquirer) Acquire(ctx context.Context, j job.Job, root string) (string, error) {
	ctx, cancel := withTimeout(ctx, a.Timeout)
	defer cancel()

	if _, err := a.Runner.Run(ctx, root, "clone", "--quiet", "--", j.Location, j.Name); err != nil {
		return "", fmt.Errorf("clone %s: %w", j.Location, err)
	}
	return filepath.Join(root, j.Name), nil
}

// GoGitAcquirer clones in-process with go-git. History is still read with
// the git CLI, so only the object database matters and no checkout is made.
type GoGitAcquirer struct {
	Timeout time.Duration
}

// Acquire clones j.Location into root/j.Name.
func (a *GoGitAcquirer) Acquire(ctx context.Context, j job.Job, root string) (string, error) {
	ctx, cancel := withTimeout(ctx, a.Timeout)
	defer cancel()

	dir := filepath.Join(root, j.Name)
	_, err := gogit.PlainCloneContext(ctx, dir, false, &gogit.CloneOptions{
		URL:        j.Location,
		NoCheckout: true,
	})
	if errors.Is(err, transport.ErrEmptyRemoteRepository) {
		// Same outcome as the CLI: an empty working copy with no history.
		_, err = gogit.PlainInit(dir, false)
	}
	if err != nil {
		return "", fmt.Errorf("clone %s: %w", j.Location, err)
	}
	return dir, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
