// Package memory provides an in-memory checkpoint store, used for tests
// and for runs that intentionally start from scratch every time.
package memory

import (
	"context"
	"sync"

	"github.com/tributary-data/tributary/internal/core/domain"
	"github.com/tributary-data/tributary/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.CheckpointStore = (*Store)(nil)

// Store is an in-memory implementation of driven.CheckpointStore.
type Store struct {
	mu         sync.RWMutex
	watermarks map[domain.ResourceType]map[string]string
}

// NewStore creates a new in-memory checkpoint store.
func NewStore() *Store {
	return &Store{
		watermarks: make(map[domain.ResourceType]map[string]string),
	}
}

// Get returns the watermark for a parent, or domain.ErrNotFound.
func (s *Store) Get(_ context.Context, resource domain.ResourceType, parentID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wm, ok := s.watermarks[resource][parentID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return wm, nil
}

// Set stores the watermark for a parent.
func (s *Store) Set(_ context.Context, resource domain.ResourceType, parentID, watermark string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watermarks[resource] == nil {
		s.watermarks[resource] = make(map[string]string)
	}
	s.watermarks[resource][parentID] = watermark
	return nil
}

// All returns a copy of every stored watermark for a resource, keyed by
// parent ID. Useful for reporting the final checkpoint contents at end
// of run.
func (s *Store) All(resource domain.ResourceType) map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.watermarks[resource]))
	for k, v := range s.watermarks[resource] {
		out[k] = v
	}
	return out
}
