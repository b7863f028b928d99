package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/masmgr/repominer/config"
	"github.com/masmgr/repominer/internal/git"
	"github.com/masmgr/repominer/internal/github"
	"github.com/masmgr/repominer/internal/job"
	"github.com/masmgr/repominer/internal/output"
	"github.com/urfave/cli/v2"
)

// ErrNoSource is returned when neither a user nor explicit repositories
// and identities were given.
var ErrNoSource = errors.New("a --user is required unless --repo and --identity are given")

// CommandContext holds common state for command execution.
// It encapsulates the shared setup logic of the mine and list commands.
type CommandContext struct {
	Config   *config.Config
	User     string
	Reporter *output.Reporter

	cli    *cli.Context
	client *github.Client
}

// NewCommandContext creates a context from CLI flags.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	reporter := output.NewReporter(c.App.ErrWriter, cfg.Output.Verbose)
	if c.Bool("quiet") {
		reporter = output.QuietReporter()
	}

	return &CommandContext{
		Config:   cfg,
		User:     strings.TrimSpace(c.String("user")),
		Reporter: reporter,
		cli:      c,
	}, nil
}

// GitHub returns the API client, creating it on first use. The token is
// required only here.
func (cc *CommandContext) GitHub() (*github.Client, error) {
	if cc.client != nil {
		return cc.client, nil
	}
	token, err := resolveToken(cc.cli.String("token"), cc.Config.GitHub.TokenFile)
	if err != nil {
		return nil, err
	}
	client, err := github.NewClient(github.Options{
		Token:     token,
		BaseURL:   cc.Config.GitHub.BaseURL,
		PageSize:  cc.Config.GitHub.PageSize,
		Protocol:  github.Protocol(cc.Config.GitHub.Protocol),
		SkipForks: cc.Config.GitHub.SkipForks,
	})
	if err != nil {
		return nil, err
	}
	cc.client = client
	return client, nil
}

// Jobs returns the explicit --repo jobs, or the repositories of the user,
// after the include/exclude filters.
func (cc *CommandContext) Jobs(ctx context.Context) ([]job.Job, error) {
	var jobs []job.Job
	if repos := cc.cli.StringSlice("repo"); len(repos) > 0 {
		for _, loc := range repos {
			j, err := job.FromLocation(loc)
			if err != nil {
				return nil, fmt.Errorf("repository %q: %w", loc, err)
			}
			jobs = append(jobs, j)
		}
	} else {
		if cc.User == "" {
			return nil, ErrNoSource
		}
		client, err := cc.GitHub()
		if err != nil {
			return nil, err
		}
		if jobs, err = client.ListJobs(ctx, cc.User); err != nil {
			return nil, err
		}
	}

	return job.Filter(jobs, cc.Config.Filters.Include, cc.Config.Filters.Exclude)
}

// IdentityFilter returns the identities whose commits are excluded: the
// --identity values, or the user's GitHub name and email, plus any extra
// identities from the configuration.
func (cc *CommandContext) IdentityFilter(ctx context.Context) (git.IdentityFilter, error) {
	ids := cc.cli.StringSlice("identity")
	if len(ids) == 0 {
		if cc.User == "" {
			return git.IdentityFilter{}, ErrNoSource
		}
		client, err := cc.GitHub()
		if err != nil {
			return git.IdentityFilter{}, err
		}
		if ids, err = client.Identities(ctx, cc.User); err != nil {
			return git.IdentityFilter{}, err
		}
	}
	ids = append(ids, cc.Config.Identity.Extra...)

	filter, err := git.NewIdentityFilter(ids...)
	if err != nil {
		return git.IdentityFilter{}, fmt.Errorf("no identities for %q: %w", cc.User, err)
	}
	return filter, nil
}

// OutputPath returns the configured output path, or <user>.csv. Without a
// user the rows go to stdout.
func (cc *CommandContext) OutputPath() string {
	if cc.Config.Output.Path != "" {
		return cc.Config.Output.Path
	}
	if cc.User != "" {
		return cc.User + ".csv"
	}
	return output.StdoutPath
}

// resolveToken returns the flag value (which also carries GITHUB_TOKEN),
// else the trimmed contents of tokenFile. A missing file is not an error;
// the API client rejects an empty token when one is needed.
func resolveToken(flagValue, tokenFile string) (string, error) {
	if token := strings.TrimSpace(flagValue); token != "" {
		return token, nil
	}
	if tokenFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(tokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
