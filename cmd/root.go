package cmd

import (
	"fmt"
	"os"

	"github.com/masmgr/repominer/config"
	"github.com/urfave/cli/v2"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "repominer",
		Usage:   "Mine per-commit change statistics from many git repositories",
		Version: "1.0.0",
		Commands: []*cli.Command{
			MineCmd(),
			ListCmd(),
			ParseCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file (.json or .toml)",
			},
		},
	}
}

// sourceFlags select the repositories and identities of a run.
func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "user",
			Aliases: []string{"u"},
			Usage:   "GitHub user whose repositories are mined",
		},
		&cli.StringSliceFlag{
			Name:  "repo",
			Usage: "Repository URL or path to mine instead of listing the user's (can be specified multiple times)",
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "GitHub API token",
			EnvVars: []string{"GITHUB_TOKEN"},
		},
		&cli.StringFlag{
			Name:  "token-file",
			Usage: "File holding the GitHub API token (default: ./token)",
		},
		&cli.StringFlag{
			Name:  "github-url",
			Usage: "GitHub API base URL (for GitHub Enterprise)",
		},
		&cli.StringFlag{
			Name:  "protocol",
			Usage: "Clone URL protocol for listed repositories (https, ssh)",
		},
		&cli.BoolFlag{
			Name:  "skip-forks",
			Usage: "Skip forked repositories",
		},
		&cli.StringSliceFlag{
			Name:  "include",
			Usage: "Glob patterns of repository names to include (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Glob patterns of repository names to exclude (can be specified multiple times)",
		},
	}
}

// loadConfig loads configuration from file or defaults and applies the
// flags that were set on the command line.
func loadConfig(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Apply filter overrides from CLI
	if includes := c.StringSlice("include"); len(includes) > 0 {
		cfg.Filters.Include = includes
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Filters.Exclude = excludes
	}

	if c.IsSet("workers") {
		cfg.Workers.Count = c.Int("workers")
	}
	if c.IsSet("batch-size") {
		cfg.Workers.BatchSize = c.Int("batch-size")
	}
	if c.IsSet("git-binary") {
		cfg.Git.Binary = c.String("git-binary")
	}
	if c.IsSet("clone-backend") {
		cfg.Git.CloneBackend = c.String("clone-backend")
	}
	if c.IsSet("clone-timeout") {
		cfg.Git.CloneTimeout = config.Duration(c.Duration("clone-timeout"))
	}
	if c.IsSet("extract-timeout") {
		cfg.Git.ExtractTimeout = config.Duration(c.Duration("extract-timeout"))
	}
	if c.IsSet("temp-dir") {
		cfg.Git.TempDir = c.String("temp-dir")
	}
	if c.Bool("keep-workdirs") {
		cfg.Git.KeepWorkdirs = true
	}
	if c.IsSet("token-file") {
		cfg.GitHub.TokenFile = c.String("token-file")
	}
	if c.IsSet("github-url") {
		cfg.GitHub.BaseURL = c.String("github-url")
	}
	if c.IsSet("protocol") {
		cfg.GitHub.Protocol = c.String("protocol")
	}
	if c.Bool("skip-forks") {
		cfg.GitHub.SkipForks = true
	}
	if c.IsSet("output") {
		cfg.Output.Path = c.String("output")
	}
	if c.Bool("verbose") {
		cfg.Output.Verbose = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
