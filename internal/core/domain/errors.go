package domain

import "errors"

// Core errors shared across packages.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// Checkpoint stores return it for parents that have never been synced.
	ErrNotFound = errors.New("not found")

	// ErrMissingTimestamp indicates a record lacks the timestamp field the
	// extractor needs for windowing. Fatal for that parent's extraction.
	ErrMissingTimestamp = errors.New("record missing timestamp field")

	// ErrMissingKey indicates a record lacks the identity key a sink
	// needs for idempotent merge.
	ErrMissingKey = errors.New("record missing identity key")

	// ErrInvalidWindow indicates a window with a narrowed upper bound at
	// or below its lower bound, which would never terminate.
	ErrInvalidWindow = errors.New("invalid extraction window")

	// ErrAuthRequired indicates the connector needs credentials that were
	// not provided.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the provided credentials were rejected.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrSourceNotFound indicates no source with the given ID is configured.
	ErrSourceNotFound = errors.New("source not found")
)
