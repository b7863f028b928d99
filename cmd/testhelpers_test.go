package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// createTestRepo creates a temporary git repository named name.
func createTestRepo(t *testing.T, name string) (string, *git.Repository) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)

	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("Failed to initialize git repo: %v", err)
	}
	return dir, repo
}

// addCommitToRepo writes filenames and commits them as author.
func addCommitToRepo(t *testing.T, repo *git.Repository, author *object.Signature, filenames []string, commitTime time.Time) string {
	t.Helper()
	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}

	for _, filename := range filenames {
		filePath := filepath.Join(w.Filesystem.Root(), filename)
		if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
			t.Fatalf("Failed to create dir: %v", err)
		}
		content := fmt.Sprintf("Content for %s at %s\n", filename, commitTime.String())
		if err := os.WriteFile(filePath, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write file: %v", err)
		}
		if _, err := w.Add(filename); err != nil {
			t.Fatalf("Failed to add file: %v", err)
		}
	}

	sig := *author
	sig.When = commitTime
	hash, err := w.Commit("change "+filenames[0], &git.CommitOptions{Author: &sig, Committer: &sig})
	if err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
	return hash.String()
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

// runApp runs the CLI with args and returns what it wrote to stdout.
// A config path outside the working tree keeps local config files out.
func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	app := App()
	app.Writer = &stdout
	app.ErrWriter = io.Discard

	argv := append([]string{"repominer", "--config", filepath.Join(t.TempDir(), "none.json")}, args...)
	err := app.Run(argv)
	return stdout.String(), err
}
