package github

import (
	"fmt"
	"strings"

	"github.com/tributary-data/tributary/internal/core/domain"
)

// Auth type values accepted in source configuration.
const (
	AuthTypePAT = "pat"
	AuthTypeApp = "gha"
)

// Config holds the parsed GitHub source configuration.
type Config struct {
	// Org is the organisation whose repositories are extracted.
	Org string

	// AuthType selects the credential flow: "pat" or "gha".
	AuthType string

	// AccessToken is the personal access token for AuthTypePAT.
	AccessToken string

	// App credentials for AuthTypeApp. PrivateKey takes precedence over
	// PrivateKeyBase64 when both are set.
	AppClientID       string
	AppInstallationID string
	AppPrivateKey     string
	AppPrivateKeyB64  string

	// StartDate is the lower bound for parents with no checkpoint.
	StartDate string

	// Resources restricts extraction to a subset of resource types.
	// Empty means all.
	Resources []domain.ResourceType

	// BaseURL overrides the API base URL. Used by tests.
	BaseURL string
}

// ParseConfig validates and extracts GitHub settings from a source's
// key-value configuration.
func ParseConfig(source domain.Source) (Config, error) {
	cfg := Config{
		Org:               source.Config["org"],
		AuthType:          source.Config["auth_type"],
		AccessToken:       source.Config["access_token"],
		AppClientID:       source.Config["gha_client_id"],
		AppInstallationID: source.Config["gha_installation_id"],
		AppPrivateKey:     source.Config["gha_private_key"],
		AppPrivateKeyB64:  source.Config["gha_private_key_base64"],
		StartDate:         source.Config["start_date"],
		BaseURL:           source.Config["api_base_url"],
	}

	if cfg.Org == "" {
		return Config{}, ErrConfigMissingOrg
	}
	if cfg.AuthType == "" {
		cfg.AuthType = AuthTypePAT
	}
	if cfg.StartDate == "" {
		cfg.StartDate = domain.DefaultStartDate
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	switch cfg.AuthType {
	case AuthTypePAT:
		if cfg.AccessToken == "" {
			return Config{}, fmt.Errorf("%w: access_token is required for auth_type %q", ErrConfigMissingCredentials, AuthTypePAT)
		}
	case AuthTypeApp:
		if cfg.AppClientID == "" || cfg.AppInstallationID == "" {
			return Config{}, fmt.Errorf("%w: gha_client_id and gha_installation_id are required for auth_type %q", ErrConfigMissingCredentials, AuthTypeApp)
		}
		if cfg.AppPrivateKey == "" && cfg.AppPrivateKeyB64 == "" {
			return Config{}, fmt.Errorf("%w: gha_private_key or gha_private_key_base64 is required for auth_type %q", ErrConfigMissingCredentials, AuthTypeApp)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrConfigInvalidAuthType, cfg.AuthType)
	}

	if raw := source.Config["resources"]; raw != "" {
		resources, err := parseResources(raw)
		if err != nil {
			return Config{}, err
		}
		cfg.Resources = resources
	}

	return cfg, nil
}

// parseResources splits a comma-separated resource list.
func parseResources(raw string) ([]domain.ResourceType, error) {
	var resources []domain.ResourceType
	for _, name := range splitAndTrim(raw) {
		switch domain.ResourceType(name) {
		case domain.ResourceCommits, domain.ResourceWorkflowRuns:
			resources = append(resources, domain.ResourceType(name))
		default:
			return nil, fmt.Errorf("%w: %q", ErrConfigInvalidResource, name)
		}
	}
	return resources, nil
}

func splitAndTrim(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// wantsResource reports whether the config selects the resource type.
func (c Config) wantsResource(r domain.ResourceType) bool {
	if len(c.Resources) == 0 {
		return true
	}
	for _, want := range c.Resources {
		if want == r {
			return true
		}
	}
	return false
}
