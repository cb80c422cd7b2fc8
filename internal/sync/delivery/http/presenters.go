package http

import (
	"tabvault/internal/model"
)

// syncReq optionally pins the gist to operate on; when empty the id
// persisted in Settings is used.
type syncReq struct {
	GistID string `json:"gistId"`
}

type pushResp struct {
	GistID string `json:"gistId"`
}

type pullResp struct {
	GistID string            `json:"gistId"`
	Data   model.StorageData `json:"data"`
}
