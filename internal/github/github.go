package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gogithub "github.com/google/go-github/v58/github"
	"golang.org/x/oauth2"
)

// Repository identifies one repository visible to the configured account.
// Repositories are enumerated fresh each poll cycle and never persisted.
type Repository struct {
	Owner    string
	Name     string
	FullName string
}

// Commit is a single entry of the feed, immutable once constructed.
type Commit struct {
	SHA       string
	Repo      string
	Message   string
	Timestamp time.Time
}

// Options configure the REST client. An empty Token leaves requests
// unauthenticated; the API then rejects anything private with an ordinary
// HTTP error, which callers treat like any other failure. An empty Account
// targets the authenticated user's repositories.
type Options struct {
	Token          string
	Account        string
	BaseURL        string
	RepoPageSize   int
	CommitPageSize int
}

type Client struct {
	api            *gogithub.Client
	logger         *slog.Logger
	account        string
	repoPageSize   int
	commitPageSize int
}

func NewClient(opts Options, logger *slog.Logger) (*Client, error) {
	httpClient := http.DefaultClient
	if opts.Token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		httpClient = oauth2.NewClient(context.Background(), src)
	}

	api := gogithub.NewClient(httpClient)
	if opts.BaseURL != "" {
		base, err := url.Parse(opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("parse api_url %q: %w", opts.BaseURL, err)
		}
		if !strings.HasSuffix(base.Path, "/") {
			base.Path += "/"
		}
		api.BaseURL = base
	}

	if opts.RepoPageSize < 1 {
		opts.RepoPageSize = 100
	}
	if opts.CommitPageSize < 1 {
		opts.CommitPageSize = 25
	}

	return &Client{
		api:            api,
		logger:         logger,
		account:        opts.Account,
		repoPageSize:   opts.RepoPageSize,
		commitPageSize: opts.CommitPageSize,
	}, nil
}

// ListRepositories enumerates the repositories visible to the configured
// account. Only the first page is requested, so accounts with more
// repositories than one page silently lose coverage beyond it.
func (c *Client) ListRepositories(ctx context.Context) ([]Repository, error) {
	var (
		repos []*gogithub.Repository
		err   error
	)
	if c.account == "" {
		opts := &gogithub.RepositoryListByAuthenticatedUserOptions{
			ListOptions: gogithub.ListOptions{PerPage: c.repoPageSize},
		}
		repos, _, err = c.api.Repositories.ListByAuthenticatedUser(ctx, opts)
	} else {
		opts := &gogithub.RepositoryListByUserOptions{
			ListOptions: gogithub.ListOptions{PerPage: c.repoPageSize},
		}
		repos, _, err = c.api.Repositories.ListByUser(ctx, c.account, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("list repositories: %w", err)
	}

	out := make([]Repository, 0, len(repos))
	for _, r := range repos {
		ref, ok := normalizeRepository(r)
		if !ok {
			c.logger.Warn("skipping repository with incomplete name", "full_name", r.GetFullName())
			continue
		}
		out = append(out, ref)
	}

	c.logger.Debug("listed repositories", "count", len(out))
	return out, nil
}

// ListRecentCommits fetches the most recent commits of one repository,
// newest first as the API returns them.
func (c *Client) ListRecentCommits(ctx context.Context, repo Repository) ([]Commit, error) {
	opts := &gogithub.CommitsListOptions{
		ListOptions: gogithub.ListOptions{PerPage: c.commitPageSize},
	}
	list, _, err := c.api.Repositories.ListCommits(ctx, repo.Owner, repo.Name, opts)
	if err != nil {
		return nil, fmt.Errorf("list commits %s: %w", repo.FullName, err)
	}

	commits := make([]Commit, 0, len(list))
	for _, rc := range list {
		commits = append(commits, Commit{
			SHA:       rc.GetSHA(),
			Repo:      repo.FullName,
			Message:   rc.GetCommit().GetMessage(),
			Timestamp: rc.GetCommit().GetAuthor().GetDate().Time,
		})
	}
	return commits, nil
}

// normalizeRepository derives the owner/name pair from whatever fields the
// API filled in; list payloads sometimes carry only full_name.
func normalizeRepository(r *gogithub.Repository) (Repository, bool) {
	owner := r.GetOwner().GetLogin()
	name := r.GetName()
	full := r.GetFullName()

	if full == "" && owner != "" && name != "" {
		full = owner + "/" + name
	}
	if owner == "" || name == "" {
		if o, n, ok := strings.Cut(full, "/"); ok && o != "" && n != "" {
			owner, name = o, n
		}
	}
	if owner == "" || name == "" || full == "" {
		return Repository{}, false
	}
	return Repository{Owner: owner, Name: name, FullName: full}, true
}
