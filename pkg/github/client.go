package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the GitHub REST API root.
	DefaultBaseURL = "https://api.github.com"

	apiVersion = "2022-11-28"
	userAgent  = "tabvault"

	// GitHub allows 5000 authenticated requests per hour. Keep a client-side
	// limiter well under that so bursts of sync calls never trip 403s.
	requestsPerSecond = 1
	requestBurst      = 5
)

// Client is the HTTP wrapper for the GitHub REST API. The bearer token is
// supplied per call, never stored, so one client serves every session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new GitHub API client. An empty baseURL selects the
// public API.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
	}
}

// GetUser fetches the authenticated user's profile. Used both for profile
// display and for token validation: a 401 means the token is invalid.
func (c *Client) GetUser(ctx context.Context, token string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/user", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateGist creates a new gist via POST /gists.
func (c *Client) CreateGist(ctx context.Context, token string, req CreateGistRequest) (*Gist, error) {
	var gist Gist
	if err := c.do(ctx, http.MethodPost, "/gists", token, req, &gist); err != nil {
		return nil, err
	}
	return &gist, nil
}

// GetGist fetches a gist by id.
func (c *Client) GetGist(ctx context.Context, token, id string) (*Gist, error) {
	var gist Gist
	if err := c.do(ctx, http.MethodGet, "/gists/"+id, token, nil, &gist); err != nil {
		return nil, err
	}
	return &gist, nil
}

// UpdateGist overwrites a gist's files via PATCH /gists/{id}.
func (c *Client) UpdateGist(ctx context.Context, token, id string, req UpdateGistRequest) (*Gist, error) {
	var gist Gist
	if err := c.do(ctx, http.MethodPatch, "/gists/"+id, token, req, &gist); err != nil {
		return nil, err
	}
	return &gist, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal github request: %w", err)
		}
		reader = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build github request: %w", err)
	}

	// GitHub's OAuth app tokens reject the generic Bearer scheme; the
	// documented "token" scheme works for every token type.
	req.Header.Set("Authorization", "token "+token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call github API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode:         resp.StatusCode,
			Body:               string(raw),
			Scopes:             resp.Header.Get("X-OAuth-Scopes"),
			AcceptedScopes:     resp.Header.Get("X-Accepted-OAuth-Scopes"),
			RateLimitRemaining: resp.Header.Get("X-RateLimit-Remaining"),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode github response: %w", err)
		}
	}
	return nil
}
