package http

import (
	"errors"

	"github.com/gin-gonic/gin"
)

var errMissingID = errors.New("id is required")

// processCreateGroupReq binds and validates the create group body.
func (h *handler) processCreateGroupReq(c *gin.Context) (createGroupReq, error) {
	var req createGroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, nil
}

// processSaveGroupReq binds the update body and the URI param.
func (h *handler) processSaveGroupReq(c *gin.Context) (saveGroupReq, error) {
	var req saveGroupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	req.ID = c.Param("id")
	if req.ID == "" {
		return req, errMissingID
	}
	return req, nil
}

func (h *handler) processAddTabsReq(c *gin.Context) (addTabsReq, error) {
	var req addTabsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, nil
}

func (h *handler) processOrderReq(c *gin.Context) (orderReq, error) {
	var req orderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, nil
}

func (h *handler) processMoveTabReq(c *gin.Context) (moveTabReq, error) {
	var req moveTabReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, nil
}

func (h *handler) processSettingsReq(c *gin.Context) (settingsReq, error) {
	var req settingsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, nil
}
