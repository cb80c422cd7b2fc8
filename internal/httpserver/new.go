package httpserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	"tabvault/internal/auth"
	syncer "tabvault/internal/sync"
	"tabvault/internal/storage"
	"tabvault/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	// Rate limiting
	rateLimitPerMin int

	// Domains
	store   *storage.Store
	authMgr *auth.Manager
	syncer  *syncer.Syncer
}

// Config is the dependency bag passed to New().
type Config struct {
	Port            int
	Mode            string
	Environment     string
	RateLimitPerMin int

	Store       *storage.Store
	AuthManager *auth.Manager
	Syncer      *syncer.Syncer
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:               logger,
		gin:             gin.Default(),
		port:            cfg.Port,
		mode:            cfg.Mode,
		environment:     cfg.Environment,
		rateLimitPerMin: cfg.RateLimitPerMin,
		store:           cfg.Store,
		authMgr:         cfg.AuthManager,
		syncer:          cfg.Syncer,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv *HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.store == nil {
		return errors.New("store is required")
	}
	if srv.authMgr == nil {
		return errors.New("auth manager is required")
	}
	if srv.syncer == nil {
		return errors.New("syncer is required")
	}
	return nil
}
