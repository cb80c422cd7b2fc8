package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	authHTTP "tabvault/internal/auth/delivery/http"
	groupHTTP "tabvault/internal/group/delivery/http"
	groupUC "tabvault/internal/group/usecase"
	"tabvault/internal/middleware"
	syncHTTP "tabvault/internal/sync/delivery/http"
)

// registerDomainRoutes wires every domain into the router.
//
// Pattern to follow when adding a new domain:
//  1. Create UseCase:      uc := mydomainUC.New(srv.l, srv.store)
//  2. Create HTTP Handler: h := mydomainHTTP.New(srv.l, uc)
//  3. Register Routes:     mydomainHTTP.RegisterRoutes(api.Group("/myresource"), h, mw)
func (srv *HTTPServer) registerDomainRoutes() error {
	ctx := context.Background()
	mw := middleware.New(srv.l, srv.rateLimitPerMin)

	api := srv.gin.Group("/api/v1")
	srv.setupGroupDomain(ctx, api, mw)
	srv.setupAuthDomain(ctx, mw)
	srv.setupSyncDomain(ctx, mw)

	return nil
}

func (srv *HTTPServer) setupGroupDomain(ctx context.Context, api *gin.RouterGroup, mw middleware.Middleware) {
	uc := groupUC.New(srv.l, srv.store)
	h := groupHTTP.New(srv.l, uc)
	groupHTTP.RegisterRoutes(api, h, mw)

	srv.l.Infof(ctx, "Group domain registered")
}

func (srv *HTTPServer) setupAuthDomain(ctx context.Context, mw middleware.Middleware) {
	h := authHTTP.New(srv.l, srv.authMgr)
	authHTTP.RegisterRoutes(srv.gin.Group("/auth"), h, mw)

	srv.l.Infof(ctx, "Auth domain registered")
}

func (srv *HTTPServer) setupSyncDomain(ctx context.Context, mw middleware.Middleware) {
	h := syncHTTP.New(srv.l, srv.syncer, srv.store)
	syncHTTP.RegisterRoutes(srv.gin.Group("/sync"), h, mw)

	srv.l.Infof(ctx, "Sync domain registered")
}
