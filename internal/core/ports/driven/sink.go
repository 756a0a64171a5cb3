package driven

import (
	"context"

	"github.com/tributary-data/tributary/internal/core/domain"
)

// Sink receives the stream of extracted records. Implementations must
// merge by the identity key (upsert) so re-delivery of a window after a
// failed or retried run is safe.
type Sink interface {
	// Write delivers one record. key is the record's stable identity
	// within the resource type.
	Write(ctx context.Context, resource domain.ResourceType, key string, rec domain.Record) error

	// Close flushes and releases the sink.
	Close() error
}
