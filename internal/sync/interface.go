package sync

import (
	"context"

	"tabvault/pkg/github"
)

// GistClient is the subset of the GitHub API the syncer needs.
type GistClient interface {
	CreateGist(ctx context.Context, token string, req github.CreateGistRequest) (*github.Gist, error)
	GetGist(ctx context.Context, token, id string) (*github.Gist, error)
	UpdateGist(ctx context.Context, token, id string, req github.UpdateGistRequest) (*github.Gist, error)
}

// AuthRunner wraps remote operations with the authenticated-retry policy.
// Implemented by the auth session manager.
type AuthRunner interface {
	RunWithAuthRetry(ctx context.Context, op func(ctx context.Context, token string) error) error
}
