package http

import (
	"errors"
	"net/http"

	"tabvault/internal/auth"
	pkgErrors "tabvault/pkg/errors"
	"tabvault/pkg/oauth"
)

var (
	errAuthRequired        = pkgErrors.NewHTTPError(http.StatusUnauthorized, "Sign in required")
	errMissingClientConfig = pkgErrors.NewHTTPError(http.StatusBadRequest, "GitHub OAuth client is not configured")
)

func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, auth.ErrAuthRequired):
		return errAuthRequired
	case errors.Is(err, auth.ErrMissingClientConfig):
		return errMissingClientConfig
	}

	var authErr *oauth.AuthError
	if errors.As(err, &authErr) {
		return pkgErrors.NewHTTPError(http.StatusBadRequest, authErr.Error())
	}

	return err
}
