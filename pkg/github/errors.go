package github

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the GitHub API. It carries the status
// code so callers match failures by value instead of parsing message text,
// plus the scope and rate-limit hints GitHub puts in response headers.
type APIError struct {
	StatusCode         int
	Body               string
	Scopes             string // X-OAuth-Scopes: scopes the token actually has
	AcceptedScopes     string // X-Accepted-OAuth-Scopes: scopes the endpoint wants
	RateLimitRemaining string // X-RateLimit-Remaining
}

func (e *APIError) Error() string {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return fmt.Sprintf("github API error 401: invalid or expired credential: %s", e.Body)
	case e.StatusCode == http.StatusForbidden && e.RateLimitRemaining == "0":
		return fmt.Sprintf("github API error 403: rate limit exceeded: %s", e.Body)
	case e.StatusCode == http.StatusForbidden:
		msg := fmt.Sprintf("github API error 403: insufficient scope: %s", e.Body)
		if e.AcceptedScopes != "" {
			msg += fmt.Sprintf(" (token scopes %q, endpoint accepts %q)", e.Scopes, e.AcceptedScopes)
		}
		return msg
	default:
		return fmt.Sprintf("github API error %d: %s", e.StatusCode, e.Body)
	}
}

// IsUnauthorized reports whether err is a 401 from the GitHub API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 from the GitHub API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsRateLimited reports whether err is a 403 caused by an exhausted rate
// limit rather than missing scopes.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		apiErr.StatusCode == http.StatusForbidden &&
		apiErr.RateLimitRemaining == "0"
}
