package http

import (
	"errors"
	"net/http"

	"tabvault/internal/storage"
	pkgErrors "tabvault/pkg/errors"
)

var (
	errGroupNotFound = pkgErrors.NewHTTPError(http.StatusNotFound, "Group not found")
	errTabNotFound   = pkgErrors.NewHTTPError(http.StatusNotFound, "Tab not found")
	errEmptyName     = pkgErrors.NewHTTPError(http.StatusBadRequest, "Group name must not be empty")
	errDuplicateName = pkgErrors.NewHTTPError(http.StatusConflict, "A group with this name already exists")
	errDefaultGroup  = pkgErrors.NewHTTPError(http.StatusBadRequest, "The default group cannot be deleted")
	errBadOrder      = pkgErrors.NewHTTPError(http.StatusBadRequest, "Order must be a permutation of the existing ids")
)

func (h *handler) mapError(err error) error {
	switch {
	case errors.Is(err, storage.ErrGroupNotFound):
		return errGroupNotFound
	case errors.Is(err, storage.ErrTabNotFound):
		return errTabNotFound
	case errors.Is(err, storage.ErrEmptyGroupName):
		return errEmptyName
	case errors.Is(err, storage.ErrDuplicateGroupName):
		return errDuplicateName
	case errors.Is(err, storage.ErrDefaultGroupProtected):
		return errDefaultGroup
	case errors.Is(err, storage.ErrBadPermutation):
		return errBadOrder
	default:
		return err
	}
}
