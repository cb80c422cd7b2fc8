package auth

import (
	"context"

	"tabvault/pkg/github"
)

// Exchanger drives an interactive credential exchange and returns a bearer
// token. Implemented by pkg/oauth.Flow; tests inject fakes.
type Exchanger interface {
	Authorize(ctx context.Context, clientID, clientSecret string) (string, error)
}

// ProfileClient validates tokens and fetches the remote user profile.
// Implemented by pkg/github.Client.
type ProfileClient interface {
	GetUser(ctx context.Context, token string) (*github.User, error)
}
