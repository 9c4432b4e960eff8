// Package github talks to the hosting service for pull-request runs: it lists
// the files a pull request touches and posts the documentation summary as a
// comment.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultRate throttles requests so bursts of pagination stay polite.
	DefaultRate = rate.Limit(5)

	// DefaultBurst is the number of requests allowed without waiting.
	DefaultBurst = 10

	perPage = 100
)

// Client wraps the go-github client with the few calls docpatch needs.
type Client struct {
	gh      *gh.Client
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*options)

type options struct {
	baseURL string
	timeout time.Duration
	limit   rate.Limit
	burst   int
}

// WithBaseURL points the client at another API root, such as a GitHub
// Enterprise server or a test server.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithTimeout sets the HTTP request timeout. Zero keeps DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithRateLimit sets the proactive request rate.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(o *options) {
		o.limit = limit
		o.burst = burst
	}
}

// NewClient creates a GitHub API client authenticated with a static token.
// Works for both PAT and Actions tokens.
func NewClient(ctx context.Context, token string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrMissingToken
	}

	o := options{timeout: DefaultTimeout, limit: DefaultRate, burst: DefaultBurst}
	for _, opt := range opts {
		opt(&o)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = o.timeout
	client := gh.NewClient(tc)

	if o.baseURL != "" {
		base := o.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parse base URL: %w", err)
		}
		client.BaseURL = u
	}

	return &Client{
		gh:      client,
		limiter: rate.NewLimiter(o.limit, o.burst),
	}, nil
}

// ParseRepo splits "owner/name".
func ParseRepo(full string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(full), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidRepo, full)
	}
	return owner, name, nil
}

// PullRequest is the subset of pull-request data docpatch uses.
type PullRequest struct {
	Number  int
	Title   string
	Body    string
	State   string
	HeadRef string
	BaseRef string
	URL     string
	Files   []File
}

// File is one file touched by a pull request.
type File struct {
	Filename  string
	Status    string
	Additions int
	Deletions int
	Patch     string
}

// Filenames returns the names of files in order.
func Filenames(files []File) []string {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Filename)
	}
	return names
}

// CombinedPatch joins the patches of files as "--- name ---" sections,
// skipping files without a patch (binary or too large).
func CombinedPatch(files []File) string {
	var b strings.Builder
	for _, f := range files {
		if f.Patch == "" {
			continue
		}
		fmt.Fprintf(&b, "--- %s ---\n%s\n", f.Filename, f.Patch)
	}
	return b.String()
}

// GetPullRequest fetches pull request metadata and its files concurrently.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*PullRequest, error) {
	var (
		pr    *gh.PullRequest
		files []File
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := c.limiter.Wait(gctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
		p, _, err := c.gh.PullRequests.Get(gctx, owner, repo, number)
		if err != nil {
			return wrapError(err, "get pull request")
		}
		pr = p
		return nil
	})
	g.Go(func() error {
		f, err := c.ListFiles(gctx, owner, repo, number)
		if err != nil {
			return err
		}
		files = f
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &PullRequest{
		Number:  pr.GetNumber(),
		Title:   pr.GetTitle(),
		Body:    pr.GetBody(),
		State:   pr.GetState(),
		HeadRef: pr.GetHead().GetRef(),
		BaseRef: pr.GetBase().GetRef(),
		URL:     pr.GetHTMLURL(),
		Files:   files,
	}, nil
}

// ListFiles returns every file of a pull request, following pagination.
func (c *Client) ListFiles(ctx context.Context, owner, repo string, number int) ([]File, error) {
	var all []File
	opts := &gh.ListOptions{PerPage: perPage}

	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		files, resp, err := c.gh.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, wrapError(err, "list pull request files")
		}
		for _, f := range files {
			all = append(all, File{
				Filename:  f.GetFilename(),
				Status:    f.GetStatus(),
				Additions: f.GetAdditions(),
				Deletions: f.GetDeletions(),
				Patch:     f.GetPatch(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// PostComment adds a comment to a pull request and returns its URL.
func (c *Client) PostComment(ctx context.Context, owner, repo string, number int, body string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}
	comment, _, err := c.gh.Issues.CreateComment(ctx, owner, repo, number, &gh.IssueComment{Body: gh.Ptr(body)})
	if err != nil {
		return "", wrapError(err, "create comment")
	}
	return comment.GetHTMLURL(), nil
}

// UpsertComment edits the first comment whose body starts with marker, or
// posts a new one when none exists, so repeated runs keep a single summary.
func (c *Client) UpsertComment(ctx context.Context, owner, repo string, number int, marker, body string) (string, error) {
	id, err := c.findComment(ctx, owner, repo, number, marker)
	if err != nil {
		return "", err
	}
	if id == 0 {
		return c.PostComment(ctx, owner, repo, number, body)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}
	comment, _, err := c.gh.Issues.EditComment(ctx, owner, repo, id, &gh.IssueComment{Body: gh.Ptr(body)})
	if err != nil {
		return "", wrapError(err, "edit comment")
	}
	return comment.GetHTMLURL(), nil
}

func (c *Client) findComment(ctx context.Context, owner, repo string, number int, marker string) (int64, error) {
	if marker == "" {
		return 0, nil
	}
	opts := &gh.IssueListCommentsOptions{ListOptions: gh.ListOptions{PerPage: perPage}}
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, fmt.Errorf("rate limit wait: %w", err)
		}
		comments, resp, err := c.gh.Issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return 0, wrapError(err, "list comments")
		}
		for _, cm := range comments {
			if strings.HasPrefix(cm.GetBody(), marker) {
				return cm.GetID(), nil
			}
		}
		if resp.NextPage == 0 {
			return 0, nil
		}
		opts.Page = resp.NextPage
	}
}

// wrapError converts go-github errors to APIError.
func wrapError(err error, operation string) error {
	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		apiErr := &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
		}
		if ghErr.Response.Request != nil {
			apiErr.URL = ghErr.Response.Request.URL.String()
		}
		return fmt.Errorf("%s: %w", operation, apiErr)
	}
	return fmt.Errorf("%s: %w", operation, err)
}
