package domain

import (
	"fmt"
	"strings"
)

// Record is a single decoded API object. Records are opaque to the
// extraction core except for two fields addressed by dotted paths:
// the timestamp used for windowing and the identity key used by sinks.
type Record map[string]any

// StringAt walks a dotted path (e.g. "commit.committer.date") through
// nested objects and returns the string value at the leaf.
func (r Record) StringAt(path string) (string, bool) {
	var cur any = map[string]any(r)
	for _, seg := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return "", false
		}
		cur, ok = obj[seg]
		if !ok {
			return "", false
		}
	}
	s, ok := cur.(string)
	return s, ok
}

// TimestampAt returns the record timestamp at the given path.
// A missing or non-string timestamp is fatal for the parent being
// extracted: the watermark computation depends on it.
func (r Record) TimestampAt(path string) (string, error) {
	ts, ok := r.StringAt(path)
	if !ok || ts == "" {
		return "", fmt.Errorf("%w: %q", ErrMissingTimestamp, path)
	}
	return ts, nil
}

// Key returns the record's identity key at the given path, used by
// sinks for idempotent merge. Numeric identifiers are formatted.
func (r Record) Key(path string) (string, error) {
	var cur any = map[string]any(r)
	for _, seg := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrMissingKey, path)
		}
		cur, ok = obj[seg]
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrMissingKey, path)
		}
	}
	switch v := cur.(type) {
	case string:
		if v == "" {
			return "", fmt.Errorf("%w: %q", ErrMissingKey, path)
		}
		return v, nil
	case float64:
		// JSON numbers decode to float64; API identifiers are integral.
		return fmt.Sprintf("%.0f", v), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrMissingKey, path)
	}
}

// Page is one ordered batch of records returned by a single fetch call.
// Ordering is server-defined; within a window it is assumed
// reverse-chronological unless a resource states otherwise.
type Page []Record
