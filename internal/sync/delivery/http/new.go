package http

import (
	syncer "tabvault/internal/sync"
	"tabvault/internal/storage"
	"tabvault/pkg/log"
)

type handler struct {
	l     log.Logger
	sync  *syncer.Syncer
	store *storage.Store
}

// New creates the HTTP handler for the sync domain.
func New(l log.Logger, s *syncer.Syncer, store *storage.Store) *handler {
	return &handler{
		l:     l,
		sync:  s,
		store: store,
	}
}
