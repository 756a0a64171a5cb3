package jira

import (
	"context"

	"github.com/tributary-data/tributary/internal/core/domain"
	"github.com/tributary-data/tributary/internal/core/ports/driven"
)

// ConnectorType is the type identifier for Jira sources.
const ConnectorType = "jira"

// Connector extracts issues from a Jira Cloud site. The site itself is
// the single parent: issue checkpoints are tracked per site, not per
// project.
type Connector struct {
	sourceID string
	config   Config
	client   *Client
}

var _ driven.Connector = (*Connector)(nil)

// NewConnector creates a Jira connector from a source configuration.
func NewConnector(source domain.Source) (*Connector, error) {
	cfg, err := ParseConfig(source)
	if err != nil {
		return nil, err
	}

	var client *Client
	if cfg.BaseURL != "" {
		client = NewClientWithBaseURL(cfg.BaseURL, cfg.Email, cfg.APIToken)
	} else {
		client = NewClient(cfg.Subdomain, cfg.Email, cfg.APIToken)
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

// Type returns the connector type identifier.
func (c *Connector) Type() string { return ConnectorType }

// SourceID returns the configured source ID.
func (c *Connector) SourceID() string { return c.sourceID }

// Validate checks credentials with a lightweight API call.
func (c *Connector) Validate(ctx context.Context) error {
	return c.client.ValidateCredentials(ctx)
}

// Parents returns the site as the single parent.
func (c *Connector) Parents(_ context.Context) ([]domain.Parent, error) {
	return []domain.Parent{{ID: c.config.Subdomain}}, nil
}

// Resources returns the issue extractor.
func (c *Connector) Resources() []driven.ResourceExtractor {
	return []driven.ResourceExtractor{&issuesExtractor{client: c.client}}
}

// StartDate returns the lower bound used when the site has no checkpoint.
func (c *Connector) StartDate() string { return c.config.StartDate }

// Close releases resources.
func (c *Connector) Close() error { return nil }
