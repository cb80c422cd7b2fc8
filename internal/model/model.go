package model

import "time"

// DefaultGroupID is the id of the built-in group that always exists and can
// never be deleted.
const DefaultGroupID = "default"

// Tab is a captured browser page reference. IDs are generated at capture
// time, immutable and never reused.
type Tab struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	FavIconURL string    `json:"favIconUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Group is a named, ordered collection of saved tabs.
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Tabs        []Tab     `json:"tabs"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Settings holds user preferences and the persisted credential. The presence
// of OAuthToken is the source of truth for "signed in" across restarts.
type Settings struct {
	CloseAndSave       bool   `json:"closeAndSave"`
	OAuthToken         string `json:"oauthToken,omitempty"`
	GistID             string `json:"gistId,omitempty"`
	GitHubClientID     string `json:"githubClientId,omitempty"`
	GitHubClientSecret string `json:"githubClientSecret,omitempty"`
}

// StorageData is the single root document held by the persistent store.
type StorageData struct {
	Groups   []Group  `json:"groups"`
	Settings Settings `json:"settings"`
}

// UserInfo is the remote identity profile attached to a session.
type UserInfo struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

// AuthState is the in-memory session state. It is never persisted; it is
// rebuilt from Settings.OAuthToken at process start.
type AuthState struct {
	IsSignedIn bool      `json:"isSignedIn"`
	Login      string    `json:"login"`
	UserInfo   *UserInfo `json:"userInfo,omitempty"`
	Token      string    `json:"-"`
}

// NewDefaultData synthesizes the document a fresh install starts from:
// one empty default group and default settings.
func NewDefaultData() StorageData {
	now := time.Now().UTC()
	return StorageData{
		Groups: []Group{
			{
				ID:        DefaultGroupID,
				Name:      "Default",
				Tabs:      []Tab{},
				CreatedAt: now,
				UpdatedAt: now,
			},
		},
		Settings: Settings{CloseAndSave: true},
	}
}
