package auth

import (
	"context"
	"fmt"
	"strings"

	"tabvault/pkg/github"
)

// DefaultMaxRetries is the number of re-authentication attempts
// RunWithAuthRetry makes before giving up.
const DefaultMaxRetries = 1

// authFailurePatterns is the message-text fallback for errors that cross
// package boundaries without a typed status code.
var authFailurePatterns = []string{
	"401",
	"unauthorized",
	"bad credentials",
}

// isAuthFailure reports whether err looks like an expired or invalid
// credential. Typed APIError status matching comes first; the string
// patterns catch errors that lost their type along the way.
func isAuthFailure(err error) bool {
	if err == nil {
		return false
	}
	if github.IsUnauthorized(err) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, p := range authFailurePatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// RunWithAuthRetry invokes op with the current session token and retries
// once after re-authenticating if op fails with a 401-class error.
//
// The re-authentication path is a full sign-in: there is no refresh-token
// flow, so the "automatic" retry still drives an interactive credential
// exchange. Non-auth failures, and the original error once retries are
// exhausted, propagate unchanged.
func (m *Manager) RunWithAuthRetry(ctx context.Context, op func(ctx context.Context, token string) error) error {
	return m.runWithAuthRetry(ctx, op, DefaultMaxRetries)
}

func (m *Manager) runWithAuthRetry(ctx context.Context, op func(ctx context.Context, token string) error, maxRetries int) error {
	token := m.State().Token
	if token == "" {
		// Never sign in implicitly: the user must have signed in before.
		if err := m.EnsureAuthenticated(ctx); err != nil {
			return err
		}
		token = m.State().Token
	}

	err := op(ctx, token)
	for retries := 0; err != nil && isAuthFailure(err) && retries < maxRetries; retries++ {
		m.l.Warnf(ctx, "credential rejected, re-authenticating: %v", err)

		if soErr := m.SignOut(ctx); soErr != nil {
			m.l.Errorf(ctx, "sign-out before re-auth failed: %v", soErr)
		}
		state, siErr := m.SignIn(ctx)
		if siErr != nil {
			return fmt.Errorf("re-authentication failed: %v (original error: %w)", siErr, err)
		}

		err = op(ctx, state.Token)
	}
	return err
}
