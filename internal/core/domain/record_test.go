package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordStringAt(t *testing.T) {
	rec := Record{
		"sha": "abc123",
		"commit": map[string]any{
			"committer": map[string]any{
				"date": "2025-03-01T10:00:00Z",
			},
		},
	}

	t.Run("top-level field", func(t *testing.T) {
		v, ok := rec.StringAt("sha")
		require.True(t, ok)
		assert.Equal(t, "abc123", v)
	})

	t.Run("nested path", func(t *testing.T) {
		v, ok := rec.StringAt("commit.committer.date")
		require.True(t, ok)
		assert.Equal(t, "2025-03-01T10:00:00Z", v)
	})

	t.Run("missing segment", func(t *testing.T) {
		_, ok := rec.StringAt("commit.author.date")
		assert.False(t, ok)
	})

	t.Run("non-string leaf", func(t *testing.T) {
		_, ok := Record{"id": float64(42)}.StringAt("id")
		assert.False(t, ok)
	})
}

func TestRecordTimestampAt(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		ts, err := Record{"created_at": "2025-03-01T10:00:00Z"}.TimestampAt("created_at")
		require.NoError(t, err)
		assert.Equal(t, "2025-03-01T10:00:00Z", ts)
	})

	t.Run("missing is fatal", func(t *testing.T) {
		_, err := Record{"id": float64(1)}.TimestampAt("created_at")
		assert.ErrorIs(t, err, ErrMissingTimestamp)
	})

	t.Run("empty string is fatal", func(t *testing.T) {
		_, err := Record{"created_at": ""}.TimestampAt("created_at")
		assert.ErrorIs(t, err, ErrMissingTimestamp)
	})
}

func TestRecordKey(t *testing.T) {
	t.Run("string key", func(t *testing.T) {
		key, err := Record{"sha": "abc123"}.Key("sha")
		require.NoError(t, err)
		assert.Equal(t, "abc123", key)
	})

	t.Run("numeric key is formatted without exponent", func(t *testing.T) {
		key, err := Record{"id": float64(14290937148)}.Key("id")
		require.NoError(t, err)
		assert.Equal(t, "14290937148", key)
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := Record{"sha": "abc"}.Key("id")
		assert.ErrorIs(t, err, ErrMissingKey)
	})

	t.Run("empty string key", func(t *testing.T) {
		_, err := Record{"sha": ""}.Key("sha")
		assert.ErrorIs(t, err, ErrMissingKey)
	})
}
