package driven

import (
	"context"

	"github.com/tributary-data/tributary/internal/core/domain"
)

// EmitFunc delivers one extracted record downstream. Extractors call it
// for every record of every page as pages are consumed, so no more than
// one page is ever buffered.
type EmitFunc func(rec domain.Record) error

// ExtractResult summarises one parent's extraction.
type ExtractResult struct {
	// Watermark is the timestamp of the newest record observed, or
	// empty when no record was observed ("no update").
	Watermark string

	// Records is the number of records emitted.
	Records int

	// Windows is the number of fetch windows issued.
	Windows int
}

// ResourceExtractor extracts one resource type for one parent from a
// given lower bound. Implementations stream records through emit and
// return the new watermark; they never touch the checkpoint store.
type ResourceExtractor interface {
	// Resource returns the resource type this extractor serves.
	Resource() domain.ResourceType

	// KeyPath is the dotted path of the record identity key used by
	// sinks for idempotent merge (e.g. "sha", "id").
	KeyPath() string

	// Extract fetches every record for the parent newer than lower.
	Extract(ctx context.Context, parent domain.Parent, lower string, emit EmitFunc) (ExtractResult, error)
}

// Connector binds a configured source to its parent discovery and
// resource extractors.
type Connector interface {
	// Type returns the connector type identifier.
	Type() string

	// SourceID returns the configured source ID.
	SourceID() string

	// Validate checks that the connector is configured and
	// authenticated, typically with a lightweight API call.
	Validate(ctx context.Context) error

	// Parents discovers the parent entities for this run. The list is
	// fetched once and is not refreshed mid-run.
	Parents(ctx context.Context) ([]domain.Parent, error)

	// Resources returns the incremental resources to extract per parent.
	Resources() []ResourceExtractor

	// StartDate returns the lower bound used when a parent has no
	// checkpoint yet.
	StartDate() string

	// Close releases resources.
	Close() error
}

// ConnectorBuilder constructs a connector for a source.
type ConnectorBuilder func(ctx context.Context, source domain.Source) (Connector, error)

// ConnectorFactory creates connectors from source configurations.
type ConnectorFactory interface {
	// Create builds a connector for the source's type.
	Create(ctx context.Context, source domain.Source) (Connector, error)

	// Register adds a builder for a connector type.
	Register(connType string, builder ConnectorBuilder)

	// SupportedTypes lists the registered connector types.
	SupportedTypes() []string
}
