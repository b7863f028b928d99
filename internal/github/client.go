// Package github lists a user's repositories and resolves the identities
// their commits are recorded under, using the GitHub REST API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gh "github.com/google/go-github/v74/github"

	"github.com/masmgr/repominer/internal/job"
)

// DefaultPageSize matches the page size the repository listing has always used.
const DefaultPageSize = 20

// ErrNoToken is returned when an API client is requested without a token.
var ErrNoToken = errors.New("github token is required")

// Protocol selects which clone URL a job uses.
type Protocol string

const (
	ProtocolHTTPS Protocol = "https"
	ProtocolSSH   Protocol = "ssh"
)

// Options configures a Client.
type Options struct {
	Token    string
	BaseURL  string // API root for GitHub Enterprise or tests; public GitHub when empty
	PageSize int
	Protocol Protocol
	// SkipForks drops forked repositories from listings.
	SkipForks bool
	// HTTPClient overrides the transport; http.DefaultClient when nil.
	HTTPClient *http.Client
}

// Client wraps the go-github client.
type Client struct {
	gh   *gh.Client
	opts Options
}

// NewClient creates an authenticated client.
func NewClient(opts Options) (*Client, error) {
	token := strings.TrimSpace(opts.Token)
	if token == "" {
		return nil, ErrNoToken
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Protocol == "" {
		opts.Protocol = ProtocolHTTPS
	}

	c := gh.NewClient(opts.HTTPClient).WithAuthToken(token)
	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parse github base url: %w", err)
		}
		c.BaseURL = u
	}
	return &Client{gh: c, opts: opts}, nil
}

// ListJobs returns one job per repository owned by user. Pages are fetched
// in order until a page comes back empty.
func (c *Client) ListJobs(ctx context.Context, user string) ([]job.Job, error) {
	var jobs []job.Job
	for page := 1; ; page++ {
		repos, _, err := c.gh.Repositories.ListByUser(ctx, user, &gh.RepositoryListByUserOptions{
			ListOptions: gh.ListOptions{Page: page, PerPage: c.opts.PageSize},
		})
		if err != nil {
			return nil, fmt.Errorf("list repositories of %s (page %d): %w", user, page, err)
		}
		if len(repos) == 0 {
			return jobs, nil
		}

		for _, r := range repos {
			if c.opts.SkipForks && r.GetFork() {
				continue
			}
			j, err := job.New(c.cloneURL(r), r.GetName())
			if err != nil {
				return nil, fmt.Errorf("repository %s: %w", r.GetFullName(), err)
			}
			jobs = append(jobs, j)
		}
	}
}

func (c *Client) cloneURL(r *gh.Repository) string {
	if c.opts.Protocol == ProtocolSSH && r.GetSSHURL() != "" {
		return r.GetSSHURL()
	}
	if u := r.GetCloneURL(); u != "" {
		return u
	}
	return r.GetGitURL()
}

// Identities returns the display name and public email of user, skipping
// the ones that are not set.
func (c *Client) Identities(ctx context.Context, user string) ([]string, error) {
	u, _, err := c.gh.Users.Get(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", user, err)
	}

	var ids []string
	for _, v := range []string{u.GetName(), u.GetEmail()} {
		if v = strings.TrimSpace(v); v != "" {
			ids = append(ids, v)
		}
	}
	return ids, nil
}
