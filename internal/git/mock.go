package git

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/masmgr/repominer/internal/job"
)

// MockAcquirer is a test double for Acquirer. It creates an empty working
// copy directory for every job not listed in Fail.
type MockAcquirer struct {
	Fail map[string]error // keyed by job name

	mu    sync.Mutex
	calls map[string]int
}

// NewMockAcquirer creates a MockAcquirer that fails the given jobs.
func NewMockAcquirer(fail map[string]error) *MockAcquirer {
	return &MockAcquirer{Fail: fail, calls: make(map[string]int)}
}

// Acquire records the call and creates root/j.Name unless the job fails.
func (m *MockAcquirer) Acquire(_ context.Context, j job.Job, root string) (string, error) {
	m.mu.Lock()
	m.calls[j.Name]++
	m.mu.Unlock()

	if err := m.Fail[j.Name]; err != nil {
		return "", err
	}
	dir := filepath.Join(root, j.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// Calls returns how many times each job name was acquired.
func (m *MockAcquirer) Calls() map[string]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int, len(m.calls))
	for k, v := range m.calls {
		out[k] = v
	}
	return out
}

// MockExtractor is a test double for Extractor returning canned log output
// keyed by the base name of the working copy.
type MockExtractor struct {
	Logs   map[string][]byte
	Errors map[string]error
}

// NewMockExtractor creates a MockExtractor with the given data.
func NewMockExtractor(logs map[string][]byte, errs map[string]error) *MockExtractor {
	return &MockExtractor{Logs: logs, Errors: errs}
}

// Extract returns the canned output or error for workdir.
func (m *MockExtractor) Extract(_ context.Context, workdir string, _ IdentityFilter) ([]byte, error) {
	name := filepath.Base(workdir)
	if err := m.Errors[name]; err != nil {
		return nil, err
	}
	return m.Logs[name], nil
}

// Compile-time interface conformance checks.
var (
	_ Acquirer  = (*MockAcquirer)(nil)
	_ Extractor = (*MockExtractor)(nil)
)
