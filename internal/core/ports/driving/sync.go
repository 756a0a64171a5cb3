// Package driving defines the inbound ports of the extraction core.
package driving

import (
	"context"

	"github.com/tributary-data/tributary/internal/core/domain"
)

// SyncRunner triggers extraction runs.
type SyncRunner interface {
	// Sync runs extraction for one source, returning one report per
	// resource type. Per-parent failures are recorded in the reports,
	// not returned as errors.
	Sync(ctx context.Context, sourceID string) ([]domain.RunReport, error)

	// SyncAll runs extraction for every configured source.
	SyncAll(ctx context.Context) ([]domain.RunReport, error)
}
