package auth_test

import (
	"context"
	"errors"
	"testing"

	"tabvault/internal/auth"
	"tabvault/pkg/github"
	"tabvault/pkg/log"
)

func signedInManager(t *testing.T, flow *fakeExchanger) *auth.Manager {
	t.Helper()

	s, _ := newTestStoreWithKV(t)
	configureClient(t, s)

	m := auth.New(log.Noop(), s, &fakeProfileClient{getUser: okUser("octocat")}, flow)
	if _, err := m.SignIn(context.Background()); err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	return m
}

func tokenExchanger(token string) *fakeExchanger {
	return &fakeExchanger{authorize: func(ctx context.Context, clientID, clientSecret string) (string, error) {
		return token, nil
	}}
}

func TestRunWithAuthRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("passes the current token through", func(t *testing.T) {
		flow := tokenExchanger("gho_first")
		m := signedInManager(t, flow)

		var seen string
		err := m.RunWithAuthRetry(ctx, func(ctx context.Context, token string) error {
			seen = token
			return nil
		})
		if err != nil {
			t.Fatalf("RunWithAuthRetry: %v", err)
		}
		if seen != "gho_first" {
			t.Errorf("expected current token, got %q", seen)
		}
	})

	t.Run("re-authenticates exactly once on 401", func(t *testing.T) {
		tokens := []string{"gho_first", "gho_second"}
		issued := 0
		flow := &fakeExchanger{authorize: func(ctx context.Context, clientID, clientSecret string) (string, error) {
			token := tokens[issued]
			issued++
			return token, nil
		}}
		m := signedInManager(t, flow)

		var calls []string
		err := m.RunWithAuthRetry(ctx, func(ctx context.Context, token string) error {
			calls = append(calls, token)
			if token == "gho_first" {
				return &github.APIError{StatusCode: 401}
			}
			return nil
		})
		if err != nil {
			t.Fatalf("RunWithAuthRetry: %v", err)
		}

		if len(calls) != 2 || calls[0] != "gho_first" || calls[1] != "gho_second" {
			t.Errorf("unexpected op calls %v", calls)
		}
		if flow.calls != 2 { // initial sign-in plus one re-auth
			t.Errorf("expected exactly one re-authentication, flow called %d times", flow.calls)
		}
	})

	t.Run("matches untyped auth failures by message", func(t *testing.T) {
		flow := tokenExchanger("gho_token")
		m := signedInManager(t, flow)

		attempts := 0
		err := m.RunWithAuthRetry(ctx, func(ctx context.Context, token string) error {
			attempts++
			if attempts == 1 {
				return errors.New("remote said: Bad credentials")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("RunWithAuthRetry: %v", err)
		}
		if attempts != 2 {
			t.Errorf("expected retry on string-matched auth failure, got %d attempts", attempts)
		}
	})

	t.Run("does not retry non-auth failures", func(t *testing.T) {
		flow := tokenExchanger("gho_token")
		m := signedInManager(t, flow)

		attempts := 0
		opErr := errors.New("rate limit exceeded")
		err := m.RunWithAuthRetry(ctx, func(ctx context.Context, token string) error {
			attempts++
			return opErr
		})
		if !errors.Is(err, opErr) {
			t.Errorf("expected original error, got %v", err)
		}
		if attempts != 1 {
			t.Errorf("expected a single attempt, got %d", attempts)
		}
	})

	t.Run("gives up after the retry budget", func(t *testing.T) {
		flow := tokenExchanger("gho_token")
		m := signedInManager(t, flow)

		attempts := 0
		err := m.RunWithAuthRetry(ctx, func(ctx context.Context, token string) error {
			attempts++
			return &github.APIError{StatusCode: 401}
		})
		if !github.IsUnauthorized(err) {
			t.Errorf("expected the 401 to propagate, got %v", err)
		}
		if attempts != 2 {
			t.Errorf("expected 2 attempts, got %d", attempts)
		}
	})

	t.Run("fails outright without a session", func(t *testing.T) {
		s, _ := newTestStoreWithKV(t)
		m := auth.New(log.Noop(), s, &fakeProfileClient{getUser: okUser("octocat")}, &fakeExchanger{})

		called := false
		err := m.RunWithAuthRetry(ctx, func(ctx context.Context, token string) error {
			called = true
			return nil
		})
		if !errors.Is(err, auth.ErrAuthRequired) {
			t.Errorf("expected ErrAuthRequired, got %v", err)
		}
		if called {
			t.Error("op must not run without a session")
		}
	})

	t.Run("composes the error when re-auth fails", func(t *testing.T) {
		failNext := false
		flow := &fakeExchanger{authorize: func(ctx context.Context, clientID, clientSecret string) (string, error) {
			if failNext {
				return "", errors.New("authorization flow was cancelled")
			}
			return "gho_token", nil
		}}
		m := signedInManager(t, flow)
		failNext = true

		original := &github.APIError{StatusCode: 401}
		err := m.RunWithAuthRetry(ctx, func(ctx context.Context, token string) error {
			return original
		})
		if err == nil {
			t.Fatal("expected error")
		}
		if !errors.Is(err, original) {
			t.Error("composed error must wrap the original failure")
		}
	})
}
