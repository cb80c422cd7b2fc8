package http

import (
	"tabvault/internal/group"
	"tabvault/internal/model"
)

// --- Request DTOs ---

type createGroupReq struct {
	Name        string `json:"name"        binding:"required"`
	Description string `json:"description" binding:"max=1000"`
}

func (r createGroupReq) toInput() group.CreateGroupInput {
	return group.CreateGroupInput{
		Name:        r.Name,
		Description: r.Description,
	}
}

type saveGroupReq struct {
	ID          string `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (r saveGroupReq) toInput() group.SaveGroupInput {
	return group.SaveGroupInput{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
	}
}

type addTabsReq struct {
	Tabs []tabReq `json:"tabs" binding:"required,dive"`
}

type tabReq struct {
	Title      string `json:"title"`
	URL        string `json:"url" binding:"required"`
	FavIconURL string `json:"favIconUrl"`
}

func (r addTabsReq) toInput() []group.TabInput {
	tabs := make([]group.TabInput, 0, len(r.Tabs))
	for _, t := range r.Tabs {
		tabs = append(tabs, group.TabInput{
			Title:      t.Title,
			URL:        t.URL,
			FavIconURL: t.FavIconURL,
		})
	}
	return tabs
}

type orderReq struct {
	Order []string `json:"order" binding:"required"`
}

type moveTabReq struct {
	ToGroupID string `json:"toGroupId" binding:"required"`
}

type settingsReq struct {
	CloseAndSave       bool   `json:"closeAndSave"`
	GistID             string `json:"gistId"`
	GitHubClientID     string `json:"githubClientId"`
	GitHubClientSecret string `json:"githubClientSecret"`
}

// --- Response DTOs ---

type groupResp struct {
	Group model.Group `json:"group"`
}

type groupsResp struct {
	Groups []model.Group `json:"groups"`
}

// settingsResp never echoes the oauth token or client secret back to the
// caller.
type settingsResp struct {
	CloseAndSave   bool   `json:"closeAndSave"`
	GistID         string `json:"gistId,omitempty"`
	GitHubClientID string `json:"githubClientId,omitempty"`
	SignedIn       bool   `json:"signedIn"`
}

func newSettingsResp(s model.Settings) settingsResp {
	return settingsResp{
		CloseAndSave:   s.CloseAndSave,
		GistID:         s.GistID,
		GitHubClientID: s.GitHubClientID,
		SignedIn:       s.OAuthToken != "",
	}
}
