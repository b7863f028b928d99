package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/masmgr/repominer/internal/git"
	"github.com/masmgr/repominer/internal/github"
)

// Sentinel validation errors.
var (
	ErrInvalidWorkers   = errors.New("workers must be positive")
	ErrInvalidBatchSize = errors.New("batch size must be positive")
	ErrInvalidPageSize  = errors.New("github page size must be between 1 and 100")
	ErrInvalidProtocol  = errors.New("clone protocol must be https or ssh")
	ErrInvalidTimeout   = errors.New("timeouts must not be negative")
)

// defaultFileName is looked up in the working directory, then in $HOME.
const defaultFileName = ".repominer.json"

// Config is the root configuration structure.
type Config struct {
	Workers  WorkerConfig   `json:"workers" toml:"workers"`
	Git      GitConfig      `json:"git" toml:"git"`
	GitHub   GitHubConfig   `json:"github" toml:"github"`
	Identity IdentityConfig `json:"identity" toml:"identity"`
	Filters  FilterConfig   `json:"filters" toml:"filters"`
	Output   OutputConfig   `json:"output" toml:"output"`
}

// WorkerConfig holds scheduler settings.
type WorkerConfig struct {
	Count     int `json:"count" toml:"count"`         // Default: 4
	BatchSize int `json:"batchSize" toml:"batchSize"` // Default: 32
}

// GitConfig holds settings for the git invocations.
type GitConfig struct {
	Binary         string   `json:"binary" toml:"binary"`                 // Default: "git"
	CloneBackend   string   `json:"cloneBackend" toml:"cloneBackend"`     // "cli" or "go-git"
	CloneTimeout   Duration `json:"cloneTimeout" toml:"cloneTimeout"`     // 0 = no limit
	ExtractTimeout Duration `json:"extractTimeout" toml:"extractTimeout"` // 0 = no limit
	TempDir        string   `json:"tempDir" toml:"tempDir"`               // Default: OS temp dir
	KeepWorkdirs   bool     `json:"keepWorkdirs" toml:"keepWorkdirs"`
}

// GitHubConfig holds settings for the repository listing API.
type GitHubConfig struct {
	BaseURL   string `json:"baseUrl" toml:"baseUrl"`
	TokenFile string `json:"tokenFile" toml:"tokenFile"` // Default: "./token"
	PageSize  int    `json:"pageSize" toml:"pageSize"`   // Default: 20
	Protocol  string `json:"protocol" toml:"protocol"`   // Default: "https"
	SkipForks bool   `json:"skipForks" toml:"skipForks"`
}

// IdentityConfig lists extra author identities to exclude.
type IdentityConfig struct {
	Extra []string `json:"extra" toml:"extra"`
}

// FilterConfig holds repository name filters.
type FilterConfig struct {
	Include []string `json:"include" toml:"include"`
	Exclude []string `json:"exclude" toml:"exclude"`
}

// OutputConfig holds report settings.
type OutputConfig struct {
	Path    string `json:"path" toml:"path"` // Default: "<user>.csv"
	Verbose bool   `json:"verbose" toml:"verbose"`
}

// Duration is a time.Duration read from a string such as "90s".
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText writes the duration in Go notation.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Workers: WorkerConfig{
			Count:     4,
			BatchSize: 32,
		},
		Git: GitConfig{
			Binary:       "git",
			CloneBackend: string(git.BackendCLI),
		},
		GitHub: GitHubConfig{
			TokenFile: "token",
			PageSize:  github.DefaultPageSize,
			Protocol:  string(github.ProtocolHTTPS),
		},
		Identity: IdentityConfig{Extra: []string{}},
		Filters: FilterConfig{
			Include: []string{},
			Exclude: []string{},
		},
	}
}

// LoadConfig loads configuration from a file, merging with defaults. With
// an empty path the default locations are tried; a missing file yields the
// defaults. Files ending in .toml are read as TOML, everything else as JSON.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		candidates := []string{defaultFileName}
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			candidates = append(candidates, filepath.Join(home, defaultFileName))
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to a file as JSON.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.Workers.Count <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Workers.Count)
	}
	if c.Workers.BatchSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBatchSize, c.Workers.BatchSize)
	}
	if c.GitHub.PageSize <= 0 || c.GitHub.PageSize > 100 {
		return fmt.Errorf("%w: %d", ErrInvalidPageSize, c.GitHub.PageSize)
	}
	switch github.Protocol(c.GitHub.Protocol) {
	case github.ProtocolHTTPS, github.ProtocolSSH:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidProtocol, c.GitHub.Protocol)
	}
	if c.Git.CloneTimeout < 0 || c.Git.ExtractTimeout < 0 {
		return ErrInvalidTimeout
	}
	if _, err := git.ParseBackend(c.Git.CloneBackend); err != nil {
		return err
	}
	return nil
}
