package driven

import "context"

// TokenProvider supplies an access token for API authentication.
// Implementations may return a static personal access token or exchange
// app credentials for short-lived installation tokens.
type TokenProvider interface {
	// GetToken returns a valid access token.
	GetToken(ctx context.Context) (string, error)
}
