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
	workflowRunsTimestampPath = "created_at"
	workflowRunsKeyPath       = "id"
	workflowRunsSelector      = "workflow_runs"

	// workflowRunsCap is the hard maximum results the workflow-runs
	// endpoint returns for one query regardless of pagination.
	workflowRunsCap = 1000
)

// workflowRunsExtractor extracts workflow runs with a narrowing window.
// Busy repositories exceed the per-query cap, so the extractor pulls the
// upper bound of the `created` range back to the oldest run seen and
// queries again until a window completes under the cap.
type workflowRunsExtractor struct {
	client *Client
}

var _ driven.ResourceExtractor = (*workflowRunsExtractor)(nil)

func (e *workflowRunsExtractor) Resource() domain.ResourceType { return domain.ResourceWorkflowRuns }

func (e *workflowRunsExtractor) KeyPath() string { return workflowRunsKeyPath }

func (e *workflowRunsExtractor) Extract(ctx context.Context, parent domain.Parent, lower string, emit driven.EmitFunc) (driven.ExtractResult, error) {
	path := fmt.Sprintf("/repos/%s/actions/runs", parent.ID)

	build := func(w domain.Window) driven.PageRequest {
		upper := "*"
		if !w.Open() {
			upper = w.Upper
		}
		return driven.PageRequest{
			Path:         path,
			Query:        url.Values{"created": []string{fmt.Sprintf("%s..%s", w.Lower, upper)}},
			DataSelector: workflowRunsSelector,
			PerPage:      100,
		}
	}

	opts := extract.Options{PageSize: 100, Cap: workflowRunsCap}
	return extract.Windowed(ctx, e.client, build, workflowRunsTimestampPath, lower, opts, emit)
}
