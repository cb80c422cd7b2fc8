package oauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"

	"tabvault/pkg/log"
)

// CallbackTimeout bounds how long an interactive flow waits for the user to
// finish authorizing in the browser.
const CallbackTimeout = 10 * time.Minute

// VerifierStore persists the PKCE code verifier between the start of the
// authorization flow and the token exchange, surviving a process restart
// mid-flow.
type VerifierStore interface {
	SaveVerifier(verifier string) error
	LoadVerifier() (string, bool, error)
	ClearVerifier() error
}

// Config configures the credential exchange flow. Zero values select the
// GitHub endpoints and a random callback port.
type Config struct {
	AuthURL      string
	TokenURL     string
	Scope        string
	CallbackPort int

	// OpenBrowser drives the interactive redirect. Defaults to opening the
	// system browser; tests inject a fake.
	OpenBrowser func(url string) error
}

// Flow drives one authorization-code-with-PKCE exchange against the identity
// provider. It is stateless between calls except for the transient verifier
// held in the VerifierStore; it never persists the resulting token.
type Flow struct {
	cfg        Config
	verifiers  VerifierStore
	httpClient *http.Client
	l          log.Logger
}

// NewFlow creates a credential exchange flow.
func NewFlow(cfg Config, verifiers VerifierStore, l log.Logger) *Flow {
	if cfg.AuthURL == "" {
		cfg.AuthURL = githuboauth.Endpoint.AuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = githuboauth.Endpoint.TokenURL
	}
	if cfg.Scope == "" {
		cfg.Scope = "gist"
	}
	if cfg.OpenBrowser == nil {
		cfg.OpenBrowser = OpenBrowser
	}
	return &Flow{
		cfg:        cfg,
		verifiers:  verifiers,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		l:          l,
	}
}

// Authorize runs the full interactive flow: start the local callback server,
// open the authorization URL in the browser, wait for the redirect, and
// exchange the code for an access token.
func (f *Flow) Authorize(ctx context.Context, clientID, clientSecret string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, CallbackTimeout)
	defer cancel()

	server := NewCallbackServer(f.cfg.CallbackPort)
	redirectURI, err := server.Start(ctx)
	if err != nil {
		return "", err
	}
	defer server.Stop()

	authURL, state, err := f.BeginAuth(clientID, redirectURI)
	if err != nil {
		return "", err
	}

	f.l.Infof(ctx, "opening browser for authorization: %s", authURL)
	if err := f.cfg.OpenBrowser(authURL); err != nil {
		f.l.Warnf(ctx, "could not open browser, authorize manually: %s (%v)", authURL, err)
	}

	result, err := server.Wait(ctx)
	if err != nil {
		return "", fmt.Errorf("authorization callback failed: %w", err)
	}

	return f.Exchange(ctx, clientID, clientSecret, redirectURI, result, state)
}

// BeginAuth generates the PKCE pair and state, persists the verifier
// transiently, and returns the authorization URL to send the user to.
func (f *Flow) BeginAuth(clientID, redirectURI string) (authURL, state string, err error) {
	pkce := GeneratePKCE()
	if err := f.verifiers.SaveVerifier(pkce.CodeVerifier); err != nil {
		return "", "", fmt.Errorf("failed to persist code verifier: %w", err)
	}

	state, err = GenerateState()
	if err != nil {
		return "", "", err
	}

	ocfg := oauth2.Config{
		ClientID:    clientID,
		RedirectURL: redirectURI,
		Scopes:      []string{f.cfg.Scope},
		Endpoint: oauth2.Endpoint{
			AuthURL:  f.cfg.AuthURL,
			TokenURL: f.cfg.TokenURL,
		},
	}

	authURL = ocfg.AuthCodeURL(state, oauth2.S256ChallengeOption(pkce.CodeVerifier))
	return authURL, state, nil
}

// Exchange validates the callback result and trades the authorization code
// for an access token. The persisted verifier is cleared on success.
func (f *Flow) Exchange(ctx context.Context, clientID, clientSecret, redirectURI string, result *CallbackResult, expectedState string) (string, error) {
	switch {
	case result.Error == CodeAccessDenied:
		return "", &AuthError{Code: CodeAccessDenied, Description: "user must authorize the application"}
	case result.Error != "":
		return "", &AuthError{Code: result.Error, Description: result.ErrorDescription}
	case result.Code == "":
		return "", &AuthError{Code: CodeNoCode, Description: "authorization flow was cancelled"}
	case result.State != expectedState:
		return "", &AuthError{Code: CodeStateMismatch, Description: "callback state does not match request"}
	}

	verifier, ok, err := f.verifiers.LoadVerifier()
	if err != nil {
		return "", fmt.Errorf("failed to load code verifier: %w", err)
	}
	if !ok {
		return "", &AuthError{Code: CodeVerifierMissing, Description: "code verifier missing, restart the sign-in flow"}
	}

	token, err := f.exchangeCode(ctx, tokenRequest{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Code:         result.Code,
		RedirectURI:  redirectURI,
		CodeVerifier: verifier,
	})
	if err != nil {
		return "", err
	}

	if err := f.verifiers.ClearVerifier(); err != nil {
		f.l.Warnf(ctx, "failed to clear code verifier: %v", err)
	}
	return token, nil
}

type tokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	Code         string `json:"code"`
	RedirectURI  string `json:"redirect_uri"`
	CodeVerifier string `json:"code_verifier"`
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (f *Flow) exchangeCode(ctx context.Context, reqBody tokenRequest) (string, error) {
	raw, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.cfg.TokenURL, bytes.NewBuffer(raw))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call token endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &AuthError{Code: CodeTokenExchange, Description: string(body)}
	}

	var tok tokenResponse
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tok.Error != "" {
		return "", &AuthError{Code: tok.Error, Description: tok.ErrorDescription}
	}
	if tok.AccessToken == "" {
		return "", &AuthError{Code: CodeTokenExchange, Description: "token endpoint returned no access token"}
	}
	return tok.AccessToken, nil
}
