package driven

import (
	"context"

	"github.com/tributary-data/tributary/internal/core/domain"
)

// CheckpointStore persists per-parent watermarks across runs. Keys are
// partitioned by (resource type, parent ID); distinct parents never
// contend on the same key, so extraction across parents may run on
// parallel workers without locking beyond the store's own writes.
type CheckpointStore interface {
	// Get returns the watermark for a parent, or domain.ErrNotFound if
	// the parent has never been synced for this resource.
	Get(ctx context.Context, resource domain.ResourceType, parentID string) (string, error)

	// Set stores the watermark for a parent. Called at most once per
	// parent per run, and only after that parent's extraction succeeded.
	Set(ctx context.Context, resource domain.ResourceType, parentID, watermark string) error
}
