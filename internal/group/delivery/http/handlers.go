package http

import (
	"github.com/gin-gonic/gin"

	"tabvault/pkg/response"
)

// ListGroups godoc
// @Summary     List groups
// @Description Returns all tab groups in stored order.
// @Tags        Groups
// @Produce     json
// @Success     200 {object} response.Resp
// @Router      /api/v1/groups [GET]
func (h *handler) ListGroups(c *gin.Context) {
	ctx := c.Request.Context()

	groups, err := h.uc.GetGroups(ctx)
	if err != nil {
		h.l.Errorf(ctx, "uc.GetGroups: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, groupsResp{Groups: groups})
}

// CreateGroup godoc
// @Summary     Create a group
// @Description Creates a new named tab group. Names must be unique (case-insensitive).
// @Tags        Groups
// @Accept      json
// @Produce     json
// @Param       body body createGroupReq true "Group data"
// @Success     200 {object} response.Resp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     409 {object} response.Resp "Conflict - name already exists"
// @Router      /api/v1/groups [POST]
func (h *handler) CreateGroup(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processCreateGroupReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	g, err := h.uc.CreateGroup(ctx, req.toInput())
	if err != nil {
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, groupResp{Group: g})
}

// SaveGroup godoc
// @Summary     Update a group
// @Description Updates a group's name and description.
// @Tags        Groups
// @Accept      json
// @Produce     json
// @Param       id   path string       true "Group ID"
// @Param       body body saveGroupReq true "Fields to update"
// @Success     200 {object} response.Resp
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/groups/{id} [PUT]
func (h *handler) SaveGroup(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processSaveGroupReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	g, err := h.uc.SaveGroup(ctx, req.toInput())
	if err != nil {
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, groupResp{Group: g})
}

// DeleteGroup godoc
// @Summary     Delete a group
// @Description Deletes a group. The default group cannot be deleted.
// @Tags        Groups
// @Produce     json
// @Param       id path string true "Group ID"
// @Success     200 {object} response.Resp
// @Failure     400 {object} response.Resp "Bad Request - default group"
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/groups/{id} [DELETE]
func (h *handler) DeleteGroup(c *gin.Context) {
	ctx := c.Request.Context()

	id := c.Param("id")
	if err := h.uc.DeleteGroup(ctx, id); err != nil {
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, nil)
}

// ReorderGroups godoc
// @Summary     Reorder groups
// @Description Applies a full permutation of all group ids.
// @Tags        Groups
// @Accept      json
// @Produce     json
// @Param       body body orderReq true "New order"
// @Success     200 {object} response.Resp
// @Failure     400 {object} response.Resp "Bad Request - not a permutation"
// @Router      /api/v1/groups/order [PUT]
func (h *handler) ReorderGroups(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processOrderReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.uc.ReorderGroups(ctx, req.Order); err != nil {
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, nil)
}

// AddTabs godoc
// @Summary     Add tabs to a group
// @Description Appends captured tabs; tabs whose URL already exists in the group are dropped.
// @Tags        Tabs
// @Accept      json
// @Produce     json
// @Param       id   path string     true "Group ID"
// @Param       body body addTabsReq true "Tabs to add"
// @Success     200 {object} response.Resp
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/groups/{id}/tabs [POST]
func (h *handler) AddTabs(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processAddTabsReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	g, err := h.uc.AddTabs(ctx, c.Param("id"), req.toInput())
	if err != nil {
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, groupResp{Group: g})
}

// RemoveTab godoc
// @Summary     Remove a tab
// @Description Removes a single tab from a group.
// @Tags        Tabs
// @Produce     json
// @Param       id    path string true "Group ID"
// @Param       tabId path string true "Tab ID"
// @Success     200 {object} response.Resp
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/groups/{id}/tabs/{tabId} [DELETE]
func (h *handler) RemoveTab(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.uc.RemoveTab(ctx, c.Param("id"), c.Param("tabId")); err != nil {
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, nil)
}

// ReorderTabs godoc
// @Summary     Reorder tabs in a group
// @Description Applies a full permutation of the group's tab ids.
// @Tags        Tabs
// @Accept      json
// @Produce     json
// @Param       id   path string   true "Group ID"
// @Param       body body orderReq true "New order"
// @Success     200 {object} response.Resp
// @Failure     400 {object} response.Resp "Bad Request - not a permutation"
// @Router      /api/v1/groups/{id}/tabs/order [PUT]
func (h *handler) ReorderTabs(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processOrderReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.uc.ReorderTabs(ctx, c.Param("id"), req.Order); err != nil {
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, nil)
}

// MoveTab godoc
// @Summary     Move a tab between groups
// @Description Moves a tab to another group, replacing any tab there with the same URL. Same-group moves are no-ops.
// @Tags        Tabs
// @Accept      json
// @Produce     json
// @Param       id    path string     true "Source group ID"
// @Param       tabId path string     true "Tab ID"
// @Param       body  body moveTabReq true "Target group"
// @Success     200 {object} response.Resp
// @Failure     404 {object} response.Resp "Not Found"
// @Router      /api/v1/groups/{id}/tabs/{tabId}/move [POST]
func (h *handler) MoveTab(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processMoveTabReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.uc.MoveTab(ctx, c.Param("tabId"), c.Param("id"), req.ToGroupID); err != nil {
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, nil)
}

// GetSettings godoc
// @Summary     Get settings
// @Description Returns settings. The token and client secret are never echoed.
// @Tags        Settings
// @Produce     json
// @Success     200 {object} response.Resp
// @Router      /api/v1/settings [GET]
func (h *handler) GetSettings(c *gin.Context) {
	ctx := c.Request.Context()

	settings, err := h.uc.GetSettings(ctx)
	if err != nil {
		h.l.Errorf(ctx, "uc.GetSettings: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, newSettingsResp(settings))
}

// SaveSettings godoc
// @Summary     Update settings
// @Description Updates user settings. The persisted oauth token is preserved.
// @Tags        Settings
// @Accept      json
// @Produce     json
// @Param       body body settingsReq true "Settings"
// @Success     200 {object} response.Resp
// @Router      /api/v1/settings [PUT]
func (h *handler) SaveSettings(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processSettingsReq(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	current, err := h.uc.GetSettings(ctx)
	if err != nil {
		h.l.Errorf(ctx, "uc.GetSettings: %v", err)
		response.Error(c, h.mapError(err))
		return
	}

	// The token is managed by the auth flow, never by this endpoint.
	current.CloseAndSave = req.CloseAndSave
	current.GistID = req.GistID
	current.GitHubClientID = req.GitHubClientID
	if req.GitHubClientSecret != "" {
		current.GitHubClientSecret = req.GitHubClientSecret
	}

	saved, err := h.uc.SaveSettings(ctx, current)
	if err != nil {
		response.Error(c, h.mapError(err))
		return
	}

	response.OK(c, newSettingsResp(saved))
}
