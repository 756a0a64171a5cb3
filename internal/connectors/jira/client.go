package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tributary-data/tributary/internal/core/domain"
	"github.com/tributary-data/tributary/internal/core/ports/driven"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Client is an authenticated Jira Cloud REST client. Jira paginates
// with an opaque continuation token rather than page numbers, so the
// client carries its own iterator.
type Client struct {
	httpClient *http.Client
	baseURL    string
	email      string
	apiToken   string
}

var _ driven.PageFetcher = (*Client)(nil)

// NewClient creates a client for an Atlassian Cloud site.
func NewClient(subdomain, email, apiToken string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    fmt.Sprintf("https://%s.atlassian.net", subdomain),
		email:      email,
		apiToken:   apiToken,
	}
}

// NewClientWithBaseURL creates a client against an explicit base URL.
// Used by tests against a local server.
func NewClientWithBaseURL(baseURL, email, apiToken string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    baseURL,
		email:      email,
		apiToken:   apiToken,
	}
}

// Fetch issues a paginated query with token continuation.
func (c *Client) Fetch(_ context.Context, req driven.PageRequest) driven.PageIter {
	return &pageIter{client: c, req: req}
}

// ValidateCredentials checks the credentials by fetching the
// authenticated identity.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	u := c.baseURL + "/rest/api/3/myself"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.SetBasicAuth(c.email, c.apiToken)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("validate credentials: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode), URL: u}
	}
	return nil
}

// pageIter walks the pages of one query via nextPageToken continuation.
type pageIter struct {
	client *Client
	req    driven.PageRequest
	token  string
	done   bool
}

func (it *pageIter) Next(ctx context.Context) (domain.Page, bool, error) {
	if it.done {
		return nil, false, nil
	}

	c := it.client
	perPage := it.req.PerPage
	if perPage <= 0 {
		perPage = 100
	}

	q := url.Values{}
	for k, vs := range it.req.Query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("maxResults", strconv.Itoa(perPage))
	if it.token != "" {
		q.Set("nextPageToken", it.token)
	}

	u := c.baseURL + it.req.Path + "?" + q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	httpReq.SetBasicAuth(c.email, c.apiToken)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, false, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, false, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			URL:        u,
		}
	}

	var envelope map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, false, fmt.Errorf("decode page envelope: %w", err)
	}

	var records domain.Page
	if raw, ok := envelope[it.req.DataSelector]; ok {
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, false, fmt.Errorf("decode %q records: %w", it.req.DataSelector, err)
		}
	}

	it.token = ""
	if raw, ok := envelope["nextPageToken"]; ok {
		if err := json.Unmarshal(raw, &it.token); err != nil {
			return nil, false, fmt.Errorf("decode nextPageToken: %w", err)
		}
	}
	if it.token == "" {
		it.done = true
	}
	if len(records) == 0 {
		return nil, false, nil
	}
	return records, true, nil
}
