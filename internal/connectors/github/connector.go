package github

import (
	"context"
	"net/http"

	"github.com/tributary-data/tributary/internal/core/domain"
	"github.com/tributary-data/tributary/internal/core/ports/driven"
)

// ConnectorType is the type identifier for GitHub sources.
const ConnectorType = "github"

// Connector extracts commits and workflow runs from a GitHub
// organisation's repositories.
type Connector struct {
	sourceID string
	config   Config
	client   *Client
}

var _ driven.Connector = (*Connector)(nil)

// NewConnector creates a GitHub connector from a source configuration.
func NewConnector(source domain.Source) (*Connector, error) {
	cfg, err := ParseConfig(source)
	if err != nil {
		return nil, err
	}

	provider, err := buildTokenProvider(cfg)
	if err != nil {
		return nil, err
	}

	var client *Client
	if cfg.BaseURL != DefaultBaseURL {
		// Test servers carry no credentials; skip the oauth2 transport.
		client = NewClientWithHTTPClient(&http.Client{Timeout: DefaultTimeout}, cfg.BaseURL)
	} else {
		client = NewClient(provider)
	}

	return &Connector{
		sourceID: source.ID,
		config:   cfg,
		client:   client,
	}, nil
}

// Builder adapts NewConnector to the factory signature.
func Builder(_ context.Context, source domain.Source) (driven.Connector, error) {
	return NewConnector(source)
}

func buildTokenProvider(cfg Config) (driven.TokenProvider, error) {
	if cfg.AuthType == AuthTypeApp {
		key := cfg.AppPrivateKey
		if key == "" {
			key = cfg.AppPrivateKeyB64
		}
		return NewAppTokenProvider(cfg.AppClientID, cfg.AppInstallationID, key)
	}
	return NewStaticTokenProvider(cfg.AccessToken), nil
}

// Type returns the connector type identifier.
func (c *Connector) Type() string { return ConnectorType }

// SourceID returns the configured source ID.
func (c *Connector) SourceID() string { return c.sourceID }

// Validate checks credentials with a lightweight API call.
func (c *Connector) Validate(ctx context.Context) error {
	return c.client.ValidateCredentials(ctx)
}

// Parents lists the organisation's active repositories.
func (c *Connector) Parents(ctx context.Context) ([]domain.Parent, error) {
	return discoverRepos(ctx, c.client, c.config.Org)
}

// Resources returns the configured resource extractors.
func (c *Connector) Resources() []driven.ResourceExtractor {
	var extractors []driven.ResourceExtractor
	if c.config.wantsResource(domain.ResourceCommits) {
		extractors = append(extractors, &commitsExtractor{client: c.client})
	}
	if c.config.wantsResource(domain.ResourceWorkflowRuns) {
		extractors = append(extractors, &workflowRunsExtractor{client: c.client})
	}
	return extractors
}

// StartDate returns the lower bound for parents with no checkpoint.
func (c *Connector) StartDate() string { return c.config.StartDate }

// Close releases resources. The underlying HTTP client needs no
// explicit shutdown.
func (c *Connector) Close() error { return nil }
