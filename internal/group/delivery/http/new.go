package http

import (
	"tabvault/internal/group"
	"tabvault/pkg/log"
)

type handler struct {
	l  log.Logger
	uc group.UseCase
}

// New creates the HTTP handler for the group domain.
func New(l log.Logger, uc group.UseCase) *handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
