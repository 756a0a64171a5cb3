package github

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tributary-data/tributary/internal/core/ports/driven"
	"github.com/tributary-data/tributary/internal/logger"
)

// appJWTLifetime is the validity of the app JWT used to request an
// installation token. GitHub rejects JWTs valid for more than 10 minutes.
const appJWTLifetime = 10 * time.Minute

// tokenExpirySlack refreshes installation tokens slightly before their
// stated expiry to avoid racing the server clock.
const tokenExpirySlack = time.Minute

// Ensure providers implement the interface.
var (
	_ driven.TokenProvider = (*StaticTokenProvider)(nil)
	_ driven.TokenProvider = (*AppTokenProvider)(nil)
)

// StaticTokenProvider serves a fixed personal access token.
type StaticTokenProvider struct {
	token string
}

// NewStaticTokenProvider creates a provider for a personal access token.
func NewStaticTokenProvider(token string) *StaticTokenProvider {
	return &StaticTokenProvider{token: token}
}

// GetToken returns the configured token.
func (p *StaticTokenProvider) GetToken(_ context.Context) (string, error) {
	if p.token == "" {
		return "", fmt.Errorf("%w: empty access token", ErrConfigMissingCredentials)
	}
	return p.token, nil
}

// AppTokenProvider implements GitHub App authentication: it mints a
// short-lived RS256 JWT for the app and exchanges it for an installation
// access token, cached until shortly before it expires.
type AppTokenProvider struct {
	clientID   string
	privateKey *rsa.PrivateKey
	endpoint   string
	httpClient *http.Client

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewAppTokenProvider creates a provider for a GitHub App installation.
// privateKeyPEM is the app's RSA key, raw PEM or base64-encoded PEM.
func NewAppTokenProvider(clientID, installationID, privateKeyPEM string) (*AppTokenProvider, error) {
	pem := []byte(privateKeyPEM)
	if decoded, err := base64.StdEncoding.DecodeString(privateKeyPEM); err == nil {
		pem = decoded
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM(pem)
	if err != nil {
		return nil, fmt.Errorf("github: parse app private key: %w", err)
	}

	return &AppTokenProvider{
		clientID:   clientID,
		privateKey: key,
		endpoint:   fmt.Sprintf("https://api.github.com/app/installations/%s/access_tokens", installationID),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}, nil
}

// GetToken returns a valid installation token, exchanging a fresh app
// JWT when the cached token is missing or near expiry.
func (p *AppTokenProvider) GetToken(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && time.Now().Before(p.expiry.Add(-tokenExpirySlack)) {
		return p.token, nil
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    p.clientID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(appJWTLifetime)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(p.privateKey)
	if err != nil {
		return "", fmt.Errorf("github: sign app JWT: %w", err)
	}

	logger.Debug("Obtaining installation token from %s", p.endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("github: build token request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+signed)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("github: request installation token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", &APIError{StatusCode: resp.StatusCode, Message: "installation token exchange failed", URL: p.endpoint}
	}

	var body struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expires_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("github: decode installation token: %w", err)
	}

	p.token = body.Token
	p.expiry = body.ExpiresAt
	return p.token, nil
}

// SetEndpoint overrides the token exchange endpoint. Used by tests.
func (p *AppTokenProvider) SetEndpoint(endpoint string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.endpoint = endpoint
	p.token = ""
}
