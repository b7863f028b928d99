package job

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Sentinel validation errors.
var (
	ErrEmptyLocation = errors.New("job location is empty")
	ErrInvalidName   = errors.New("job name is not a safe directory name")
	ErrDuplicateName = errors.New("job name is used more than once")
)

// Job describes one repository to mine.
type Job struct {
	Location string
	Name     string
}

// New creates a job, validating its name.
func New(location, name string) (Job, error) {
	j := Job{Location: strings.TrimSpace(location), Name: name}
	if err := j.Validate(); err != nil {
		return Job{}, err
	}
	return j, nil
}

// FromLocation creates a job whose name is derived from the location the
// same way "git clone <location>" picks its target directory.
func FromLocation(location string) (Job, error) {
	return New(location, NameFromLocation(location))
}

// NameFromLocation returns the last path element of a repository URL with
// any trailing ".git" removed.
func NameFromLocation(location string) string {
	loc := strings.TrimRight(strings.TrimSpace(location), "/")
	loc = strings.TrimSuffix(loc, ".git")
	// scp-like syntax: git@host:owner/repo
	if i := strings.LastIndexAny(loc, "/:"); i != -1 {
		loc = loc[i+1:]
	}
	return path.Base(loc)
}

// Validate checks that the job can be cloned into a directory of its own.
func (j Job) Validate() error {
	if j.Location == "" {
		return ErrEmptyLocation
	}
	switch {
	case j.Name == "", j.Name == ".", j.Name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, j.Name)
	case strings.ContainsAny(j.Name, "/\\\x00"):
		return fmt.Errorf("%w: %q", ErrInvalidName, j.Name)
	}
	return nil
}

// ValidateAll validates every job and rejects duplicate names.
func ValidateAll(jobs []Job) error {
	seen := make(map[string]string, len(jobs))
	for _, j := range jobs {
		if err := j.Validate(); err != nil {
			return err
		}
		if prev, ok := seen[j.Name]; ok {
			return fmt.Errorf("%w: %q (%s, %s)", ErrDuplicateName, j.Name, prev, j.Location)
		}
		seen[j.Name] = j.Location
	}
	return nil
}

// Filter keeps the jobs whose name matches the include/exclude globs.
// Exclude patterns win; an empty include list accepts everything.
func Filter(jobs []Job, include, exclude []string) ([]Job, error) {
	if len(include) == 0 && len(exclude) == 0 {
		return jobs, nil
	}
	for _, p := range append(append([]string{}, include...), exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid glob pattern %q", p)
		}
	}

	kept := make([]Job, 0, len(jobs))
	for _, j := range jobs {
		if matchesAny(exclude, j.Name) {
			continue
		}
		if len(include) > 0 && !matchesAny(include, j.Name) {
			continue
		}
		kept = append(kept, j)
	}
	return kept, nil
}

func matchesAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}
