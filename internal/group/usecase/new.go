package usecase

import (
	"tabvault/internal/storage"
	pkgLog "tabvault/pkg/log"
)

type implUseCase struct {
	l     pkgLog.Logger
	store *storage.Store
}

// New creates the group UseCase over the persistent store.
func New(l pkgLog.Logger, store *storage.Store) *implUseCase {
	return &implUseCase{
		l:     l,
		store: store,
	}
}
