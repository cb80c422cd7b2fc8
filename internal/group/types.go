package group

// CreateGroupInput carries the fields for a new group.
type CreateGroupInput struct {
	Name        string
	Description string
}

// SaveGroupInput updates an existing group's metadata.
type SaveGroupInput struct {
	ID          string
	Name        string
	Description string
}

// TabInput is a captured browser tab to add to a group.
type TabInput struct {
	Title      string
	URL        string
	FavIconURL string
}
