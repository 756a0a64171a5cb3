package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tributary-data/tributary/internal/core/domain"
)

func TestSink(t *testing.T) {
	ctx := context.Background()

	t.Run("writes one JSON object per line", func(t *testing.T) {
		var buf bytes.Buffer
		sink := NewSink(&buf)

		require.NoError(t, sink.Write(ctx, domain.ResourceCommits, "abc123", domain.Record{"sha": "abc123"}))
		require.NoError(t, sink.Write(ctx, domain.ResourceWorkflowRuns, "42", domain.Record{"id": float64(42)}))
		require.NoError(t, sink.Close())

		scanner := bufio.NewScanner(&buf)
		var lines []envelope
		for scanner.Scan() {
			var env envelope
			require.NoError(t, json.Unmarshal(scanner.Bytes(), &env))
			lines = append(lines, env)
		}
		require.Len(t, lines, 2)

		assert.Equal(t, "commits", lines[0].Resource)
		assert.Equal(t, "abc123", lines[0].Key)
		assert.Equal(t, "abc123", lines[0].Record["sha"])
		assert.Equal(t, "workflow_runs", lines[1].Resource)
		assert.Equal(t, "42", lines[1].Key)
	})

	t.Run("close flushes buffered output", func(t *testing.T) {
		var buf bytes.Buffer
		sink := NewSink(&buf)

		require.NoError(t, sink.Write(ctx, domain.ResourceCommits, "abc123", domain.Record{"sha": "abc123"}))
		require.NoError(t, sink.Close())
		assert.NotEmpty(t, buf.String())
	})
}
