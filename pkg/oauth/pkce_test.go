package oauth_test

import (
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"tabvault/pkg/oauth"
)

func TestGeneratePKCE(t *testing.T) {
	pkce := oauth.GeneratePKCE()

	if pkce.CodeVerifier == "" || pkce.CodeChallenge == "" {
		t.Fatal("expected non-empty verifier and challenge")
	}
	if pkce.CodeChallengeMethod != "S256" {
		t.Errorf("expected S256 method, got %q", pkce.CodeChallengeMethod)
	}

	sum := sha256.Sum256([]byte(pkce.CodeVerifier))
	want := base64.RawURLEncoding.EncodeToString(sum[:])
	if pkce.CodeChallenge != want {
		t.Errorf("challenge is not the S256 hash of the verifier")
	}

	other := oauth.GeneratePKCE()
	if other.CodeVerifier == pkce.CodeVerifier {
		t.Error("verifiers must be unpredictable")
	}
}

func TestGenerateState(t *testing.T) {
	state, err := oauth.GenerateState()
	if err != nil {
		t.Fatalf("GenerateState: %v", err)
	}
	if len(state) < 43 {
		t.Errorf("state too short: %d chars", len(state))
	}

	other, _ := oauth.GenerateState()
	if other == state {
		t.Error("states must be unpredictable")
	}
}
