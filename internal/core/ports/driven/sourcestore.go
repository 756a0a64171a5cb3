package driven

import (
	"context"

	"github.com/tributary-data/tributary/internal/core/domain"
)

// SourceStore provides the configured sources for a run.
type SourceStore interface {
	// Get retrieves a source by ID, or domain.ErrSourceNotFound.
	Get(ctx context.Context, sourceID string) (*domain.Source, error)

	// List returns all configured sources.
	List(ctx context.Context) ([]domain.Source, error)
}
