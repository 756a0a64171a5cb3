package connectors

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/tributary-data/tributary/internal/connectors/github"
	"github.com/tributary-data/tributary/internal/connectors/jira"
	"github.com/tributary-data/tributary/internal/core/domain"
	"github.com/tributary-data/tributary/internal/core/ports/driven"
)

// ErrUnsupportedType indicates no builder is registered for a source's
// connector type.
var ErrUnsupportedType = errors.New("unsupported connector type")

// Factory creates connectors from source configurations via registered
// builders.
type Factory struct {
	mu       sync.RWMutex
	builders map[string]driven.ConnectorBuilder
}

var _ driven.ConnectorFactory = (*Factory)(nil)

// NewFactory creates an empty factory.
func NewFactory() *Factory {
	return &Factory{builders: make(map[string]driven.ConnectorBuilder)}
}

// NewDefaultFactory creates a factory with all built-in connectors
// registered.
func NewDefaultFactory() *Factory {
	f := NewFactory()
	f.Register(github.ConnectorType, github.Builder)
	f.Register(jira.ConnectorType, jira.Builder)
	return f
}

// Register adds a builder for a connector type.
func (f *Factory) Register(connType string, builder driven.ConnectorBuilder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[connType] = builder
}

// Create builds a connector for the source's type.
func (f *Factory) Create(ctx context.Context, source domain.Source) (driven.Connector, error) {
	f.mu.RLock()
	builder, ok := f.builders[source.Type]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, source.Type)
	}
	return builder(ctx, source)
}

// SupportedTypes lists the registered connector types.
func (f *Factory) SupportedTypes() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	types := make([]string, 0, len(f.builders))
	for t := range f.builders {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
