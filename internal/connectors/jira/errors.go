package jira

import (
	"errors"
	"fmt"
)

// Jira-specific errors.
var (
	// ErrConfigMissingSubdomain indicates the source config lacks the
	// Atlassian site subdomain.
	ErrConfigMissingSubdomain = errors.New("jira: missing subdomain in source config")

	// ErrConfigMissingCredentials indicates email or API token is absent.
	ErrConfigMissingCredentials = errors.New("jira: missing email or api_token in source config")
)

// APIError represents a Jira API error response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jira: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401
	}
	return false
}
