package http

import (
	"tabvault/internal/model"
)

// stateResp is the wire form of the session state. The token itself is
// never serialized.
type stateResp struct {
	IsSignedIn bool            `json:"isSignedIn"`
	Login      string          `json:"login,omitempty"`
	UserInfo   *model.UserInfo `json:"userInfo,omitempty"`
}

func newStateResp(s model.AuthState) stateResp {
	return stateResp{
		IsSignedIn: s.IsSignedIn,
		Login:      s.Login,
		UserInfo:   s.UserInfo,
	}
}
