package group

import (
	"context"

	"tabvault/internal/model"
)

// UseCase is the collaborator-facing surface for groups, tabs and settings.
// Presentation layers call only this; all mutations round-trip through the
// persistent store.
type UseCase interface {
	GetGroups(ctx context.Context) ([]model.Group, error)
	CreateGroup(ctx context.Context, input CreateGroupInput) (model.Group, error)
	SaveGroup(ctx context.Context, input SaveGroupInput) (model.Group, error)
	DeleteGroup(ctx context.Context, id string) error
	ReorderGroups(ctx context.Context, order []string) error

	AddTabs(ctx context.Context, groupID string, tabs []TabInput) (model.Group, error)
	RemoveTab(ctx context.Context, groupID, tabID string) error
	ReorderTabs(ctx context.Context, groupID string, order []string) error
	MoveTab(ctx context.Context, tabID, fromGroupID, toGroupID string) error

	GetSettings(ctx context.Context) (model.Settings, error)
	SaveSettings(ctx context.Context, settings model.Settings) (model.Settings, error)
}
