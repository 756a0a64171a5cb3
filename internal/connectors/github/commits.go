package github

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tributary-data/tributary/internal/core/domain"
	"github.com/tributary-data/tributary/internal/core/ports/driven"
	"github.com/tributary-data/tributary/internal/extract"
)

const (
	commitsTimestampPath = "commit.committer.date"
	commitsKeyPath       = "sha"
)

// commitsExtractor extracts repository commits incrementally. Commit
// volume per query never approaches the server cap (the `since`
// parameter bounds the result set), so a single un-narrowed window
// suffices.
type commitsExtractor struct {
	client *Client
}

var _ driven.ResourceExtractor = (*commitsExtractor)(nil)

func (e *commitsExtractor) Resource() domain.ResourceType { return domain.ResourceCommits }

func (e *commitsExtractor) KeyPath() string { return commitsKeyPath }

func (e *commitsExtractor) Extract(ctx context.Context, parent domain.Parent, lower string, emit driven.EmitFunc) (driven.ExtractResult, error) {
	req := driven.PageRequest{
		Path:    fmt.Sprintf("/repos/%s/commits", parent.ID),
		Query:   url.Values{"since": []string{lower}},
		PerPage: 100,
	}
	return extract.Simple(ctx, e.client, req, commitsTimestampPath, emit)
}
