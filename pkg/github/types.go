package github

// User is the GitHub user profile returned by GET /user.
type User struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

// GistFile is one file within a gist.
type GistFile struct {
	Filename string `json:"filename,omitempty"`
	Content  string `json:"content"`
}

// Gist is the gist object returned by the API.
type Gist struct {
	ID          string              `json:"id"`
	Description string              `json:"description"`
	Public      bool                `json:"public"`
	HTMLURL     string              `json:"html_url"`
	Files       map[string]GistFile `json:"files"`
}

// CreateGistRequest is the body for POST /gists.
type CreateGistRequest struct {
	Description string              `json:"description"`
	Public      bool                `json:"public"`
	Files       map[string]GistFile `json:"files"`
}

// UpdateGistRequest is the body for PATCH /gists/{id}.
type UpdateGistRequest struct {
	Description string              `json:"description,omitempty"`
	Files       map[string]GistFile `json:"files"`
}
