package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/tributary-data/tributary/internal/core/ports/driven"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultBaseURL is the GitHub REST API base URL.
	DefaultBaseURL = "https://api.github.com"
)

// Client wraps an authenticated HTTP client for raw paginated REST
// calls plus a go-github client for repository discovery and
// credential validation.
type Client struct {
	httpClient    *http.Client
	gh            *gh.Client
	tokenProvider driven.TokenProvider
	rateLimiter   *RateLimiter
	baseURL       string
}

// NewClient creates a new GitHub API client with a token provider.
// The underlying HTTP client is initialized lazily so the token is only
// fetched when needed.
func NewClient(tokenProvider driven.TokenProvider) *Client {
	return &Client{
		tokenProvider: tokenProvider,
		rateLimiter:   NewRateLimiter(),
		baseURL:       DefaultBaseURL,
	}
}

// NewClientWithHTTPClient creates a client over a pre-built http.Client
// and base URL. Used by tests against a local server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL string) *Client {
	c := &Client{
		httpClient:  httpClient,
		rateLimiter: NewRateLimiter(),
		baseURL:     baseURL,
	}
	if ghc, err := gh.NewClient(httpClient).WithEnterpriseURLs(baseURL+"/", baseURL+"/"); err == nil {
		c.gh = ghc
	}
	return c
}

// ensureClient initializes the authenticated clients if not already done.
func (c *Client) ensureClient(ctx context.Context) error {
	if c.httpClient != nil {
		return nil
	}
	if c.tokenProvider == nil {
		return ErrConfigMissingCredentials
	}

	token, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return fmt.Errorf("get token: %w", err)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout
	c.httpClient = tc
	c.gh = gh.NewClient(tc)

	return nil
}

// ListOrgRepos returns all repositories of an organisation, most
// recently updated first.
func (c *Client) ListOrgRepos(ctx context.Context, org string) ([]*gh.Repository, error) {
	if err := c.ensureClient(ctx); err != nil {
		return nil, err
	}

	var allRepos []*gh.Repository
	opts := &gh.RepositoryListByOrgOptions{
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	for {
		select {
		case <-ctx.Done():
			return allRepos, ctx.Err()
		default:
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		repos, resp, err := c.gh.Repositories.ListByOrg(ctx, org, opts)
		if err != nil {
			return nil, c.wrapError(err, "list org repos")
		}

		c.updateRateLimitFromResponse(resp)
		allRepos = append(allRepos, repos...)

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return allRepos, nil
}

// ValidateCredentials checks the token by fetching the authenticated
// identity.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	if err := c.ensureClient(ctx); err != nil {
		return err
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	_, resp, err := c.gh.Users.Get(ctx, "")
	if err != nil {
		return c.wrapError(err, "validate credentials")
	}

	c.updateRateLimitFromResponse(resp)
	return nil
}

// RateLimiter returns the rate limiter for external access.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// updateRateLimitFromResponse updates the rate limiter from response headers.
func (c *Client) updateRateLimitFromResponse(resp *gh.Response) {
	if resp == nil || resp.Response == nil {
		return
	}
	c.rateLimiter.UpdateFromResponse(resp.Response)
}

// wrapError converts go-github errors to our error types.
func (c *Client) wrapError(err error, operation string) error {
	if err == nil {
		return nil
	}

	var ghErr *gh.ErrorResponse
	if errors.As(err, &ghErr) {
		return &APIError{
			StatusCode: ghErr.Response.StatusCode,
			Message:    ghErr.Message,
			URL:        ghErr.Response.Request.URL.String(),
		}
	}

	var rateLimitErr *gh.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return &RateLimitError{
			ResetAt:   c.rateLimiter.ResetTime(),
			Remaining: c.rateLimiter.Remaining(),
			Limit:     c.rateLimiter.Limit(),
		}
	}

	return fmt.Errorf("%s: %w", operation, err)
}
