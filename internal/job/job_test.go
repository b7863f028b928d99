package job

import (
	"errors"
	"testing"
)

func TestNameFromLocation(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{location: "https://github.com/octo/hello.git", want: "hello"},
		{location: "https://github.com/octo/hello", want: "hello"},
		{location: "https://github.com/octo/hello/", want: "hello"},
		{location: "git@github.com:octo/hello.git", want: "hello"},
		{location: "git@host:hello.git", want: "hello"},
		{location: "/srv/repos/world.git", want: "world"},
	}

	for _, tt := range tests {
		if got := NameFromLocation(tt.location); got != tt.want {
			t.Errorf("NameFromLocation(%q) = %q, want %q", tt.location, got, tt.want)
		}
	}
}

func TestJob_Validate(t *testing.T) {
	tests := []struct {
		name    string
		job     Job
		wantErr error
	}{
		{name: "Valid", job: Job{Location: "https://x/a.git", Name: "a"}},
		{name: "EmptyLocation", job: Job{Name: "a"}, wantErr: ErrEmptyLocation},
		{name: "EmptyName", job: Job{Location: "x"}, wantErr: ErrInvalidName},
		{name: "DotDot", job: Job{Location: "x", Name: ".."}, wantErr: ErrInvalidName},
		{name: "Slash", job: Job{Location: "x", Name: "a/b"}, wantErr: ErrInvalidName},
		{name: "Backslash", job: Job{Location: "x", Name: `a\b`}, wantErr: ErrInvalidName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.job.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateAll_DuplicateNames(t *testing.T) {
	jobs := []Job{
		{Location: "https://github.com/a/tools.git", Name: "tools"},
		{Location: "https://github.com/b/tools.git", Name: "tools"},
	}
	if err := ValidateAll(jobs); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("ValidateAll() = %v, want ErrDuplicateName", err)
	}
	if err := ValidateAll(jobs[:1]); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFilter(t *testing.T) {
	jobs := []Job{
		{Location: "l1", Name: "api-server"},
		{Location: "l2", Name: "api-client"},
		{Location: "l3", Name: "dotfiles"},
	}

	t.Run("NoPatterns", func(t *testing.T) {
		got, err := Filter(jobs, nil, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("len = %d, want 3", len(got))
		}
	})

	t.Run("IncludeAndExclude", func(t *testing.T) {
		got, err := Filter(jobs, []string{"api-*"}, []string{"*-client"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 || got[0].Name != "api-server" {
			t.Fatalf("got %#v, want only api-server", got)
		}
	})

	t.Run("InvalidPattern", func(t *testing.T) {
		if _, err := Filter(jobs, []string{"["}, nil); err == nil {
			t.Fatal("expected error for invalid glob, got nil")
		}
	})
}
