package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tributary-data/tributary/internal/core/domain"
	"github.com/tributary-data/tributary/internal/core/ports/driven"
)

// Ensure Client implements the fetcher port.
var _ driven.PageFetcher = (*Client)(nil)

// Fetch issues a paginated query with page-number continuation. Pages
// are fetched lazily as the iterator is consumed.
func (c *Client) Fetch(_ context.Context, req driven.PageRequest) driven.PageIter {
	return &pageIter{client: c, req: req, page: 1}
}

// pageIter walks the pages of one query.
type pageIter struct {
	client *Client
	req    driven.PageRequest
	page   int
	done   bool
}

func (it *pageIter) Next(ctx context.Context) (domain.Page, bool, error) {
	if it.done {
		return nil, false, nil
	}

	c := it.client
	if err := c.ensureClient(ctx); err != nil {
		return nil, false, err
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, false, fmt.Errorf("rate limit wait: %w", err)
	}

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
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("page", strconv.Itoa(it.page))

	u := c.baseURL + it.req.Path + "?" + q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, false, fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if err := c.rateLimiter.CheckRateLimit(resp); err != nil {
		return nil, false, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			URL:        u,
		}
	}

	records, err := decodePage(resp, it.req.DataSelector)
	if err != nil {
		return nil, false, err
	}

	// Page-number pagination with no total count: a short or final page
	// ends the sequence, as does an exhausted Link header.
	link := resp.Header.Get("Link")
	if len(records) < perPage || (link != "" && !HasNextPage(link)) {
		it.done = true
	}
	if len(records) == 0 {
		return nil, false, nil
	}

	it.page++
	return records, true, nil
}

// decodePage decodes a response body into records, unwrapping the
// data-selector envelope when one is configured.
func decodePage(resp *http.Response, selector string) (domain.Page, error) {
	dec := json.NewDecoder(resp.Body)

	if selector == "" {
		var records []domain.Record
		if err := dec.Decode(&records); err != nil {
			return nil, fmt.Errorf("decode page: %w", err)
		}
		return records, nil
	}

	var envelope map[string]json.RawMessage
	if err := dec.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode page envelope: %w", err)
	}

	raw, ok := envelope[selector]
	if !ok {
		// Servers omit the field when the window is empty.
		return nil, nil
	}

	var records []domain.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode %q records: %w", selector, err)
	}
	return records, nil
}
