package github

import (
	"errors"
	"fmt"
	"time"
)

// GitHub-specific errors.
var (
	// ErrConfigMissingOrg indicates the source config lacks the organisation.
	ErrConfigMissingOrg = errors.New("github: missing org in source config")

	// ErrConfigInvalidAuthType indicates an unknown auth_type value.
	ErrConfigInvalidAuthType = errors.New("github: invalid auth type, must be one of ['pat', 'gha']")

	// ErrConfigInvalidResource indicates an unknown resource was requested.
	ErrConfigInvalidResource = errors.New("github: invalid resource")

	// ErrConfigMissingCredentials indicates the selected auth type lacks
	// its required credentials.
	ErrConfigMissingCredentials = errors.New("github: missing credentials for auth type")
)

// RateLimitError represents a rate limit exceeded error with reset time.
type RateLimitError struct {
	ResetAt   time.Time
	Remaining int
	Limit     int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github: rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}

// APIError represents a GitHub API error response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401
	}
	return false
}
