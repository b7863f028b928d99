package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrGitFailed wraps every non-zero exit of the git binary.
var ErrGitFailed = errors.New("git command failed")

// Runner invokes the git executable.
type Runner struct {
	// Binary is the git executable; "git" is used when empty.
	Binary string
	// Env is appended to the inherited environment.
	Env []string
}

// Run executes git with args in dir and returns its standard output.
// Standard error is attached to the returned error.
func (r Runner) Run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	bin := r.Binary
	if bin == "" {
		bin = "git"
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	// Never block on a credential prompt.
	cmd.Env = append(cmd.Environ(), "GIT_TERMINAL_PROMPT=0")
	cmd.Env = append(cmd.Env, r.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("git %s: %w", subcommand(args), ctxErr)
		}
		return nil, fmt.Errorf("%w: git %s: %v: %s", ErrGitFailed, subcommand(args), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

func subcommand(args []string) string {
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			return a
		}
	}
	return strings.Join(args, " ")
}
