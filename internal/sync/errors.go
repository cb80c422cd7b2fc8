package sync

import "errors"

var (
	// ErrGistNotFound means the referenced remote document does not exist.
	ErrGistNotFound = errors.New("remote backup not found")

	// ErrInvalidFormat means the remote document parsed as JSON but is not
	// a storage document (missing groups or settings).
	ErrInvalidFormat = errors.New("remote backup has invalid format")

	// ErrNoFiles means the remote document contains no files at all.
	ErrNoFiles = errors.New("remote backup contains no files")
)
