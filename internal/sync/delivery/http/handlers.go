package http

import (
	"github.com/gin-gonic/gin"

	"tabvault/pkg/response"
)

// resolveGistID picks the gist id from the request body, falling back to
// the id persisted in Settings.
func (h *handler) resolveGistID(c *gin.Context) (string, error) {
	var req syncReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			return "", err
		}
	}
	if req.GistID != "" {
		return req.GistID, nil
	}

	settings, err := h.store.GetSettings()
	if err != nil {
		return "", err
	}
	return settings.GistID, nil
}

// Push godoc
// @Summary     Push the local document
// @Description Uploads the full local document to the backup gist. Creates a new gist (and remembers its id) when none is configured.
// @Tags        Sync
// @Accept      json
// @Produce     json
// @Param       body body syncReq false "Optional gist override"
// @Success     200 {object} response.Resp
// @Failure     401 {object} response.Resp "Unauthorized"
// @Failure     404 {object} response.Resp "Gist not found"
// @Router      /sync/push [POST]
func (h *handler) Push(c *gin.Context) {
	ctx := c.Request.Context()

	gistID, err := h.resolveGistID(c)
	if err != nil {
		response.Error(c, h.mapError(err))
		return
	}

	id, err := h.sync.SyncToGistWithRetry(ctx, gistID)
	if err != nil {
		h.l.Warnf(ctx, "sync.Push: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, pushResp{GistID: id})
}

// Pull godoc
// @Summary     Pull the remote document
// @Description Downloads the backup gist and overwrites the local document with it.
// @Tags        Sync
// @Accept      json
// @Produce     json
// @Param       body body syncReq false "Optional gist override"
// @Success     200 {object} response.Resp
// @Failure     400 {object} response.Resp "No gist configured or invalid backup"
// @Failure     401 {object} response.Resp "Unauthorized"
// @Failure     404 {object} response.Resp "Gist not found"
// @Router      /sync/pull [POST]
func (h *handler) Pull(c *gin.Context) {
	ctx := c.Request.Context()

	gistID, err := h.resolveGistID(c)
	if err != nil {
		response.Error(c, h.mapError(err))
		return
	}
	if gistID == "" {
		response.Error(c, errNoGistConfigured)
		return
	}

	data, err := h.sync.SyncFromGistWithRetry(ctx, gistID)
	if err != nil {
		h.l.Warnf(ctx, "sync.Pull: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, pullResp{GistID: gistID, Data: data})
}

// Create godoc
// @Summary     Create a new backup gist
// @Description Creates a fresh secret gist from the local document and persists its id in Settings.
// @Tags        Sync
// @Produce     json
// @Success     200 {object} response.Resp
// @Failure     401 {object} response.Resp "Unauthorized"
// @Router      /sync/create [POST]
func (h *handler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	id, err := h.sync.CreateGistWithRetry(ctx)
	if err != nil {
		h.l.Warnf(ctx, "sync.Create: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, pushResp{GistID: id})
}
