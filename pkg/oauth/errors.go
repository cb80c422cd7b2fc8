package oauth

import "fmt"

// AuthError is a credential-exchange failure: the provider denied the
// request, the callback was malformed, or the token exchange failed.
type AuthError struct {
	Code        string
	Description string
}

func (e *AuthError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("authorization failed: %s", e.Code)
	}
	return fmt.Sprintf("authorization failed (%s): %s", e.Code, e.Description)
}

// Well-known error codes produced by this package in addition to codes
// passed through from the provider.
const (
	CodeAccessDenied    = "access_denied"
	CodeNoCode          = "no_code"
	CodeStateMismatch   = "state_mismatch"
	CodeVerifierMissing = "verifier_missing"
	CodeTokenExchange   = "token_exchange_failed"
)
