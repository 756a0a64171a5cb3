package jira

import (
	"github.com/tributary-data/tributary/internal/core/domain"
)

// Config holds the parsed Jira source configuration.
type Config struct {
	// Subdomain is the Atlassian Cloud site, e.g. "acme" for
	// acme.atlassian.net.
	Subdomain string

	// Email and APIToken form the basic-auth credential pair.
	Email    string
	APIToken string

	// StartDate is the lower bound used when the site has no checkpoint.
	StartDate string

	// BaseURL overrides the API base URL. Used by tests.
	BaseURL string
}

// ParseConfig validates and extracts Jira settings from a source's
// key-value configuration.
func ParseConfig(source domain.Source) (Config, error) {
	cfg := Config{
		Subdomain: source.Config["subdomain"],
		Email:     source.Config["email"],
		APIToken:  source.Config["api_token"],
		StartDate: source.Config["start_date"],
		BaseURL:   source.Config["api_base_url"],
	}

	if cfg.Subdomain == "" {
		return Config{}, ErrConfigMissingSubdomain
	}
	if cfg.Email == "" || cfg.APIToken == "" {
		return Config{}, ErrConfigMissingCredentials
	}
	if cfg.StartDate == "" {
		cfg.StartDate = domain.DefaultStartDate
	}

	return cfg, nil
}
