package oauth_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"tabvault/pkg/oauth"
)

func TestParseCallback(t *testing.T) {
	t.Run("success parameters", func(t *testing.T) {
		res, err := oauth.ParseCallback("http://localhost:9999/callback?code=abc&state=xyz")
		if err != nil {
			t.Fatalf("ParseCallback: %v", err)
		}
		if res.Code != "abc" || res.State != "xyz" || res.Error != "" {
			t.Errorf("unexpected result %+v", res)
		}
	})

	t.Run("error parameters", func(t *testing.T) {
		res, err := oauth.ParseCallback("http://localhost:9999/callback?error=access_denied&error_description=denied")
		if err != nil {
			t.Fatalf("ParseCallback: %v", err)
		}
		if res.Error != "access_denied" || res.ErrorDescription != "denied" {
			t.Errorf("unexpected result %+v", res)
		}
	})
}

func TestCallbackServer(t *testing.T) {
	t.Run("delivers the first callback", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		srv := oauth.NewCallbackServer(0)
		redirectURI, err := srv.Start(ctx)
		if err != nil {
			t.Fatalf("Start: %v", err)
		}
		defer srv.Stop()

		resp, err := http.Get(redirectURI + "?code=abc&state=xyz")
		if err != nil {
			t.Fatalf("callback request: %v", err)
		}
		resp.Body.Close()

		result, err := srv.Wait(ctx)
		if err != nil {
			t.Fatalf("Wait: %v", err)
		}
		if result.Code != "abc" || result.State != "xyz" {
			t.Errorf("unexpected result %+v", result)
		}
	})

	t.Run("rejects a second callback", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		srv := oauth.NewCallbackServer(0)
		redirectURI, err := srv.Start(ctx)
		if err != nil {
			t.Fatalf("Start: %v", err)
		}
		defer srv.Stop()

		first, err := http.Get(redirectURI + "?code=abc")
		if err != nil {
			t.Fatalf("first callback: %v", err)
		}
		first.Body.Close()

		second, err := http.Get(redirectURI + "?code=def")
		if err != nil {
			t.Fatalf("second callback: %v", err)
		}
		second.Body.Close()
		if second.StatusCode != http.StatusBadRequest {
			t.Errorf("expected 400 for replayed callback, got %d", second.StatusCode)
		}

		result, err := srv.Wait(ctx)
		if err != nil {
			t.Fatalf("Wait: %v", err)
		}
		if result.Code != "abc" {
			t.Errorf("expected the first code, got %q", result.Code)
		}
	})

	t.Run("wait honors context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())

		srv := oauth.NewCallbackServer(0)
		if _, err := srv.Start(ctx); err != nil {
			t.Fatalf("Start: %v", err)
		}
		defer srv.Stop()

		cancel()
		if _, err := srv.Wait(ctx); err == nil {
			t.Error("expected context error")
		}
	})
}
