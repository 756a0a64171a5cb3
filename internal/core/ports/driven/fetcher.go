package driven

import (
	"context"
	"net/url"

	"github.com/tributary-data/tributary/internal/core/domain"
)

// PageRequest describes one paginated query. The window bounds are
// already encoded into Query by the resource that built the request;
// page continuation (page numbers, cursors, Link headers) is the
// fetcher's concern and is transparent to the extraction core.
type PageRequest struct {
	// Path is the endpoint path, e.g. "/repos/octocat/hello-world/commits".
	Path string

	// Query holds the query parameters, including any range-style
	// window parameters.
	Query url.Values

	// DataSelector names the response field holding the record array
	// for enveloped responses (e.g. "workflow_runs"). Empty when the
	// response body is the array itself.
	DataSelector string

	// PerPage is the server page size.
	PerPage int
}

// PageIter lazily produces the pages of one query. Next returns
// ok=false once the sequence is exhausted. A failed fetch surfaces as a
// single error and ends iteration.
type PageIter interface {
	Next(ctx context.Context) (page domain.Page, ok bool, err error)
}

// PageFetcher issues paginated queries against a remote API. The only
// blocking the extraction core performs is waiting on these calls.
type PageFetcher interface {
	Fetch(ctx context.Context, req PageRequest) PageIter
}
