// Package jsonl provides a sink that streams records as newline-
// delimited JSON to a writer. Merge-by-identity is left to whatever
// consumes the stream; the sink only guarantees one record per line.
package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/tributary-data/tributary/internal/core/domain"
	"github.com/tributary-data/tributary/internal/core/ports/driven"
)

// Ensure Sink implements the interface.
var _ driven.Sink = (*Sink)(nil)

// envelope wraps a record with its resource type and identity key so a
// downstream loader can merge deliveries.
type envelope struct {
	Resource string        `json:"resource"`
	Key      string        `json:"key"`
	Record   domain.Record `json:"record"`
}

// Sink writes one JSON object per record.
type Sink struct {
	mu  sync.Mutex
	w   *bufio.Writer
	enc *json.Encoder
}

// NewSink creates a sink writing NDJSON to w.
func NewSink(w io.Writer) *Sink {
	bw := bufio.NewWriter(w)
	return &Sink{w: bw, enc: json.NewEncoder(bw)}
}

// Write delivers one record as a single JSON line.
func (s *Sink) Write(_ context.Context, resource domain.ResourceType, key string, rec domain.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(envelope{Resource: string(resource), Key: key, Record: rec}); err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return nil
}

// Close flushes buffered output.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Flush()
}
