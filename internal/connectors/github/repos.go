package github

import (
	"context"
	"fmt"

	gh "github.com/google/go-github/v80/github"

	"github.com/tributary-data/tributary/internal/core/domain"
	"github.com/tributary-data/tributary/internal/logger"
)

// Parent attribute keys set during repository discovery.
const (
	AttrOwner         = "owner"
	AttrName          = "name"
	AttrDefaultBranch = "default_branch"
)

// discoverRepos lists the organisation's repositories and maps the
// active ones onto parents. Archived, disabled and forked repositories
// are skipped; their history does not move.
func discoverRepos(ctx context.Context, client *Client, org string) ([]domain.Parent, error) {
	repos, err := client.ListOrgRepos(ctx, org)
	if err != nil {
		return nil, fmt.Errorf("discover repos for %s: %w", org, err)
	}

	parents := make([]domain.Parent, 0, len(repos))
	for _, repo := range repos {
		if skipRepo(repo) {
			logger.Debug("Skipping repo %s (archived/disabled/fork)", repo.GetFullName())
			continue
		}
		parents = append(parents, domain.Parent{
			ID: repo.GetFullName(),
			Attrs: map[string]string{
				AttrOwner:         repo.GetOwner().GetLogin(),
				AttrName:          repo.GetName(),
				AttrDefaultBranch: repo.GetDefaultBranch(),
			},
		})
	}

	logger.Info("Discovered %d active repos in %s (%d total)", len(parents), org, len(repos))
	return parents, nil
}

func skipRepo(repo *gh.Repository) bool {
	return repo.GetArchived() || repo.GetDisabled() || repo.GetFork()
}
