package http

import (
	"github.com/gin-gonic/gin"

	"tabvault/pkg/response"
)

// SignIn godoc
// @Summary     Sign in with GitHub
// @Description Runs the full OAuth authorization code flow with PKCE. Opens the system browser and blocks until the callback arrives or times out.
// @Tags        Auth
// @Produce     json
// @Success     200 {object} response.Resp
// @Failure     400 {object} response.Resp "Bad Request - flow cancelled or client not configured"
// @Router      /auth/signin [POST]
func (h *handler) SignIn(c *gin.Context) {
	ctx := c.Request.Context()

	state, err := h.mgr.SignIn(ctx)
	if err != nil {
		h.l.Warnf(ctx, "auth.SignIn: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, newStateResp(state))
}

// SignOut godoc
// @Summary     Sign out
// @Description Clears the in-memory session and the persisted token. Signing out while signed out is a no-op.
// @Tags        Auth
// @Produce     json
// @Success     200 {object} response.Resp
// @Router      /auth/signout [POST]
func (h *handler) SignOut(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.mgr.SignOut(ctx); err != nil {
		h.l.Errorf(ctx, "auth.SignOut: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, newStateResp(h.mgr.State()))
}

// State godoc
// @Summary     Session state
// @Description Returns the current in-memory session state.
// @Tags        Auth
// @Produce     json
// @Success     200 {object} response.Resp
// @Router      /auth/state [GET]
func (h *handler) State(c *gin.Context) {
	response.OK(c, newStateResp(h.mgr.State()))
}

// Ensure godoc
// @Summary     Validate the session
// @Description Re-validates the current token against GitHub without any interactive flow. Returns 401 when the session is missing or rejected.
// @Tags        Auth
// @Produce     json
// @Success     200 {object} response.Resp
// @Failure     401 {object} response.Resp "Unauthorized"
// @Router      /auth/ensure [POST]
func (h *handler) Ensure(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.mgr.EnsureAuthenticated(ctx); err != nil {
		h.l.Warnf(ctx, "auth.Ensure: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, newStateResp(h.mgr.State()))
}
