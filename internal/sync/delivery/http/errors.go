package http

import (
	"errors"
	"net/http"

	"tabvault/internal/auth"
	syncer "tabvault/internal/sync"
	pkgErrors "tabvault/pkg/errors"
	"tabvault/pkg/github"
)

var (
	errNoGistConfigured = pkgErrors.NewHTTPError(http.StatusBadRequest, "No gist configured; create a backup first")
	errGistNotFound     = pkgErrors.NewHTTPError(http.StatusNotFound, "Backup gist not found")
	errInvalidBackup    = pkgErrors.NewHTTPError(http.StatusBadRequest, "Remote backup is not a valid document")
	errAuthRequired     = pkgErrors.NewHTTPError(http.StatusUnauthorized, "Sign in required")
)

func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, syncer.ErrGistNotFound):
		return errGistNotFound
	case errors.Is(err, syncer.ErrInvalidFormat), errors.Is(err, syncer.ErrNoFiles):
		return errInvalidBackup
	case errors.Is(err, auth.ErrAuthRequired):
		return errAuthRequired
	}

	var apiErr *github.APIError
	if errors.As(err, &apiErr) {
		return pkgErrors.NewHTTPError(apiErr.StatusCode, apiErr.Error())
	}

	return err
}
