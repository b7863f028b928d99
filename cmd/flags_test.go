package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/masmgr/repominer/config"
	"github.com/masmgr/repominer/internal/output"
)

func TestResolveToken(t *testing.T) {
	dir := t.TempDir()
	tokenFile := filepath.Join(dir, "token")
	if err := os.WriteFile(tokenFile, []byte("  from-file\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	tests := []struct {
		name string
		flag string
		file string
		want string
	}{
		{name: "FlagWins", flag: "from-flag", file: tokenFile, want: "from-flag"},
		{name: "FileTrimmed", flag: "  ", file: tokenFile, want: "from-file"},
		{name: "MissingFile", file: filepath.Join(dir, "absent"), want: ""},
		{name: "NoFile", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveToken(tt.flag, tt.file)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("resolveToken(%q, %q) = %q, want %q", tt.flag, tt.file, got, tt.want)
			}
		})
	}

	t.Run("UnreadableFile", func(t *testing.T) {
		// A directory cannot be read as a token file.
		if _, err := resolveToken("", dir); err == nil {
			t.Fatalf("expected error, got nil")
		}
	})
}

func TestCommandContext_OutputPath(t *testing.T) {
	tests := []struct {
		name string
		user string
		path string
		want string
	}{
		{name: "UserDefault", user: "octo", want: "octo.csv"},
		{name: "Configured", user: "octo", path: "all.csv", want: "all.csv"},
		{name: "NoUser", want: output.StdoutPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Output.Path = tt.path
			cc := &CommandContext{Config: cfg, User: tt.user}
			if got := cc.OutputPath(); got != tt.want {
				t.Fatalf("OutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadConfig_FlagsOverrideAndValidate(t *testing.T) {
	t.Run("InvalidWorkers", func(t *testing.T) {
		_, err := runApp(t, "mine", "--workers", "0", "--repo", "https://example.com/a.git", "--identity", "me")
		if !errors.Is(err, config.ErrInvalidWorkers) {
			t.Fatalf("err = %v, want ErrInvalidWorkers", err)
		}
	})

	t.Run("InvalidProtocol", func(t *testing.T) {
		_, err := runApp(t, "list", "--protocol", "ftp", "--repo", "https://example.com/a.git")
		if !errors.Is(err, config.ErrInvalidProtocol) {
			t.Fatalf("err = %v, want ErrInvalidProtocol", err)
		}
	})

	t.Run("UnknownCloneBackend", func(t *testing.T) {
		_, err := runApp(t, "mine", "--clone-backend", "svn", "--repo", "https://example.com/a.git", "--identity", "me")
		if err == nil {
			t.Fatalf("expected error, got nil")
		}
	})
}

func TestSourceRequired(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "ListNothing", args: []string{"list"}},
		{name: "MineWithoutIdentity", args: []string{"mine", "--repo", "https://example.com/a.git"}},
		{name: "MineWithoutRepo", args: []string{"mine", "--identity", "me@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runApp(t, tt.args...); !errors.Is(err, ErrNoSource) {
				t.Fatalf("err = %v, want ErrNoSource", err)
			}
		})
	}
}

func TestMineCmd_DescribesExitStatus(t *testing.T) {
	desc := MineCmd().Description
	for _, want := range []string{"left out of the output", "non-zero only when no repository could be mined"} {
		if !strings.Contains(desc, want) {
			t.Fatalf("mine description missing %q:\n%s", want, desc)
		}
	}
}
