package http

import (
	"tabvault/internal/auth"
	"tabvault/pkg/log"
)

type handler struct {
	l   log.Logger
	mgr *auth.Manager
}

// New creates the HTTP handler for the auth domain.
func New(l log.Logger, mgr *auth.Manager) *handler {
	return &handler{
		l:   l,
		mgr: mgr,
	}
}
